package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/joho/godotenv"

	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/catalog"
	appconfig "github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/config"
	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/lib"
	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/lib/log"
	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/profiles"
	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/recommendations"
	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/storage/postgres"
)

type Config struct {
	UserIDs        []string
	DryRun         bool
	MaxConcurrency int `validate:"min=1"`
	SweepExpired   bool
	EnvFilePath    string `validate:"required"`
}

func main() {
	var config Config

	flag.Var((*stringSlice)(&config.UserIDs), "user", "User ID to refresh (can be specified multiple times, default: all known users)")
	flag.BoolVar(&config.DryRun, "dry-run", false, "Score and log recommendations without storing them")
	flag.IntVar(&config.MaxConcurrency, "max-concurrency", 8, "Maximum number of users refreshed in parallel")
	flag.BoolVar(&config.SweepExpired, "sweep", true, "Delete expired recommendations before refreshing")
	flag.StringVar(&config.EnvFilePath, "env-file", ".env", "Path to .env file")
	flag.Parse()

	ctx := context.Background()
	if err := run(ctx, config); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, config Config) error {
	if err := lib.ValidateStruct(config); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	// Load environment
	err := godotenv.Load(config.EnvFilePath)
	if err != nil {
		fmt.Println("Warning: Could not load .env file")
	}

	cfg, err := appconfig.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := log.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	db := postgres.NewDB(&cfg.DB)
	err = db.Connect(ctx)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	catalogRegistry := catalog.NewRegistry(logger, postgres.NewCatalogRepository(db), &cfg.Catalog)
	profileRegistry := profiles.NewRegistry(
		logger,
		postgres.NewPreferenceRepository(db),
		postgres.NewBookmarkRepository(db),
		postgres.NewActivityRepository(db),
		catalogRegistry,
	)
	recommendationRegistry := recommendations.NewRegistry(
		logger,
		postgres.NewRecommendationRepository(db),
		catalogRegistry,
		profileRegistry,
		&cfg.Recommendations,
	)
	scorer := recommendations.NewScorer(
		recommendations.WithLimit(cfg.Recommendations.Limit),
		recommendations.WithNormalizedRating(cfg.Recommendations.NormalizeRating),
	)

	userIDs := config.UserIDs
	if len(userIDs) == 0 {
		userIDs, err = profileRegistry.KnownUsers(ctx)
		if err != nil {
			return fmt.Errorf("list known users: %w", err)
		}
	}

	logger.Info().
		Int("users", len(userIDs)).
		Bool("dry_run", config.DryRun).
		Int("max_concurrency", config.MaxConcurrency).
		Msg("Starting refresh")

	if config.SweepExpired && !config.DryRun {
		n, err := recommendationRegistry.SweepExpired(ctx)
		if err != nil {
			return fmt.Errorf("sweep expired: %w", err)
		}
		logger.Info().Int64("deleted", n).Msg("Swept expired recommendations")
	}

	start := time.Now()

	// Create a pool with limited concurrency
	pool := pond.NewPool(config.MaxConcurrency)
	refreshed := atomic.Int32{}
	errored := atomic.Int32{}

	for _, userID := range userIDs {
		pool.Submit(func() {
			if config.DryRun {
				in, err := recommendationRegistry.LoadContext(ctx, userID)
				if err != nil {
					logger.Error().Err(err).Str("user_id", userID).Msg("Error loading scoring context")
					errored.Add(1)
					return
				}
				scores := scorer.Recommend(*in)
				for _, s := range scores {
					logger.Info().
						Str("user_id", userID).
						Str("route_id", s.RouteID).
						Float64("score", s.Score).
						Str("explanation", s.Explanation).
						Msg("Would recommend")
				}
				refreshed.Add(1)
				return
			}

			recs, err := recommendationRegistry.Generate(ctx, userID)
			if err != nil {
				logger.Error().
					Err(err).
					Str("user_id", userID).
					Msg("Error refreshing recommendations")
				errored.Add(1)
				return
			}
			refreshed.Add(1)

			logger.Debug().
				Str("user_id", userID).
				Int("count", len(recs)).
				Msg("Refreshed recommendations")
		})
	}

	pool.StopAndWait()

	logger.Info().
		Int32("refreshed", refreshed.Load()).
		Int32("errored", errored.Load()).
		Dur("duration", time.Since(start)).
		Msg("Refresh completed")

	if errored.Load() > 0 {
		return fmt.Errorf("%d users failed to refresh", errored.Load())
	}

	return nil
}

// stringSlice implements flag.Value for string slices
type stringSlice []string

func (s *stringSlice) String() string {
	return strings.Join(*s, ",")
}

func (s *stringSlice) Set(value string) error {
	*s = append(*s, value)
	return nil
}
