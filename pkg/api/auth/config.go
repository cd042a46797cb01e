package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

type Config struct {
	// APIKeys is a JSON or comma-separated key=value pairs string containing key-to-userID mapping
	// Example: {"key1":"user1","key2":"user2"} or "key1=user1,key2=user2"
	APIKeys string `env:"AUTH_API_KEYS,default={}"`

	// ClerkSecretKey enables Clerk session tokens next to API keys when set.
	ClerkSecretKey string `env:"CLERK_SECRET_KEY,default="`

	// ClerkAuthorizedParties is a comma-separated list of frontend origins allowed to present session tokens.
	ClerkAuthorizedParties string        `env:"CLERK_AUTHORIZED_PARTIES,default="`
	ClerkLeeway            time.Duration `env:"CLERK_LEEWAY,default=5s" validate:"min=0"`
}

func (c *Config) authorizedParties() []string {
	var out []string
	for party := range strings.SplitSeq(c.ClerkAuthorizedParties, ",") {
		if party = strings.TrimSpace(party); party != "" {
			out = append(out, party)
		}
	}
	return out
}

// ParseAPIKeys parses the JSON string into a map[string]string
func (c *Config) ParseAPIKeys() (map[string]string, error) {
	if c.APIKeys == "" || c.APIKeys == "{}" {
		return make(map[string]string), nil
	}

	var keyMap map[string]string
	if err := json.Unmarshal([]byte(c.APIKeys), &keyMap); err != nil {
		return c.parseKeyValuePairs()
	}

	return keyMap, nil
}

func (c *Config) parseKeyValuePairs() (map[string]string, error) {
	keyMap := make(map[string]string)

	if c.APIKeys == "" {
		return keyMap, nil
	}

	for pair := range strings.SplitSeq(c.APIKeys, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid key-value pair: %s", pair)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if key == "" || value == "" {
			return nil, fmt.Errorf("empty key or value in pair: %s", pair)
		}

		keyMap[key] = value
	}

	return keyMap, nil
}

// NewProvider authenticates API keys first and falls back to Clerk when a secret key is configured.
func NewProvider(logger *zerolog.Logger, cfg *Config) (Provider, error) {
	keys, err := cfg.ParseAPIKeys()
	if err != nil {
		return nil, fmt.Errorf("parse api keys: %w", err)
	}

	var fallback Provider
	if cfg.ClerkSecretKey != "" {
		clerk.SetKey(cfg.ClerkSecretKey)
		fallback = NewClerkAuthProvider(
			logger,
			WithAuthorizedParties(cfg.authorizedParties()...),
			WithLeeway(cfg.ClerkLeeway),
		)
	}

	logger.Info().
		Int("api_keys", len(keys)).
		Bool("clerk", fallback != nil).
		Msg("Configured authentication")

	return NewKeyAuthProvider(keys, fallback), nil
}
