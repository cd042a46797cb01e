package config

import (
	"fmt"

	"github.com/joeshaw/envdecode"

	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/api"
	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/api/auth"
	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/catalog"
	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/lib"
	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/lib/log"
	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/recommendations"
	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/storage/postgres"
)

type Config struct {
	DB              postgres.Config        `env:""`
	API             api.Config             `env:""`
	Auth            auth.Config            `env:""`
	Log             log.Config             `env:""`
	Recommendations recommendations.Config `env:""`
	Catalog         catalog.Config         `env:""`
}

func Load() (*Config, error) {
	var cfg Config

	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := lib.ValidateStruct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
