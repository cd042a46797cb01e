package catalog

import "time"

type Config struct {
	// CacheTTL controls how long the catalog snapshot used for scoring and
	// route search results are kept in memory.
	CacheTTL time.Duration `env:"CATALOG_CACHE_TTL,default=10m" validate:"required"`
}
