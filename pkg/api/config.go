package api

import "time"

type Config struct {
	Host       string `env:"SERVER_HOST,default=localhost"`
	Port       uint16 `env:"SERVER_PORT,default=8080" validate:"required"`
	Proxied    bool   `env:"SERVER_PROXIED,default=false"`
	CORSOrigin string `env:"CORS_ORIGIN,default=*"`

	// RateLimitRequests is the burst size each client gets per RateLimitWindow.
	RateLimitRequests int           `env:"API_RATE_LIMIT_REQUESTS,default=120" validate:"min=0"`
	RateLimitWindow   time.Duration `env:"API_RATE_LIMIT_WINDOW,default=1m"`
	// RateLimitDisabled turns the limiter off, e.g. for load tests.
	RateLimitDisabled bool `env:"API_RATE_LIMIT_DISABLED,default=false"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT,default=10s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT,default=30s"`
}

func NewDefaultConfig() Config {
	return Config{
		Host:              "localhost",
		Port:              8080,
		Proxied:           false,
		CORSOrigin:        "*",
		RateLimitRequests: 120,
		RateLimitWindow:   time.Minute,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
}
