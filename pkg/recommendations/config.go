package recommendations

import "time"

type Config struct {
	// Limit is the number of recommendations kept per user.
	Limit int `env:"RECOMMENDATIONS_LIMIT,default=10" validate:"min=1,max=100"`
	// ActivityWindow is how many of the user's most recent activity records are scored.
	ActivityWindow int `env:"RECOMMENDATIONS_ACTIVITY_WINDOW,default=20" validate:"min=0,max=500"`
	// Expiry controls how long a generated set stays valid before it is regenerated.
	Expiry time.Duration `env:"RECOMMENDATIONS_EXPIRY,default=24h" validate:"required"`
	// SweepInterval controls how often expired recommendations are deleted.
	SweepInterval time.Duration `env:"RECOMMENDATIONS_SWEEP_INTERVAL,default=1h" validate:"required"`
	// NormalizeRating divides the 0-5 route rating by 5 before weighting it.
	// Disabled by default to keep scores compatible with previously stored sets.
	NormalizeRating bool `env:"RECOMMENDATIONS_NORMALIZE_RATING,default=false"`
}

func NewDefaultConfig() Config {
	return Config{
		Limit:          DefaultLimit,
		ActivityWindow: 20,
		Expiry:         24 * time.Hour,
		SweepInterval:  time.Hour,
	}
}
