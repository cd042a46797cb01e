package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/api"
	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/api/auth"
	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/catalog"
	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/config"
	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/lib/log"
	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/profiles"
	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/recommendations"
	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/storage/postgres"
)

const shutdownTimeout = 15 * time.Second

func main() {
	err := run()
	if err != nil {
		panic(err)
	}
}

func run() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := log.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := postgres.NewDB(&cfg.DB)
	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	server, recommendationRegistry, err := initServer(logger, cfg, db)
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}

	recommendationRegistry.StartSweeper(ctx)

	errs := make(chan error, 1)
	go func() {
		logger.Info().
			Str("host", cfg.API.Host).
			Uint16("port", cfg.API.Port).
			Msg("Starting server")
		errs <- server.Start()
	}()

	select {
	case err := <-errs:
		if err != nil {
			return fmt.Errorf("start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("stop server: %w", err)
	}

	return nil
}

func initServer(logger *zerolog.Logger, config *config.Config, db *postgres.DB) (*api.Server, *recommendations.Registry, error) {
	catalogRegistry := catalog.NewRegistry(
		log.Component(logger, "catalog"),
		postgres.NewCatalogRepository(db),
		&config.Catalog,
	)

	profileRegistry := profiles.NewRegistry(
		log.Component(logger, "profiles"),
		postgres.NewPreferenceRepository(db),
		postgres.NewBookmarkRepository(db),
		postgres.NewActivityRepository(db),
		catalogRegistry,
	)

	recommendationRegistry := recommendations.NewRegistry(
		log.Component(logger, "recommendations"),
		postgres.NewRecommendationRepository(db),
		catalogRegistry,
		profileRegistry,
		&config.Recommendations,
	)

	authProvider, err := auth.NewProvider(log.Component(logger, "auth"), &config.Auth)
	if err != nil {
		return nil, nil, fmt.Errorf("create auth provider: %w", err)
	}

	server, err := api.NewServer(
		log.Component(logger, "api"),
		&config.API,
		authProvider,
		catalogRegistry,
		profileRegistry,
		recommendationRegistry,
		db,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create server: %w", err)
	}

	return server, recommendationRegistry, nil
}
