package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"rideshare/internal/domain"
)

const (
	envPrefix  = "RIDESHARE_"
	envFileVar = envPrefix + "CONFIG"
)

// Load builds a Config by layering, from low to high precedence:
//  1. defaults (New)
//  2. a YAML file, if RIDESHARE_CONFIG is set
//  3. environment variables prefixed RIDESHARE_
//
// Nested keys use a double underscore: RIDESHARE_DATABASE__HOST sets
// database.host.
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(envFileVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", envKey)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps RIDESHARE_ALLOCATION__MAX_ATTEMPTS to allocation.max_attempts.
func envKey(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}

// Validate checks value ranges and parses derived fields.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("%w: server.port must not be empty", ErrInvalidConfig)
	}

	fare, err := domain.ParseMoney(c.Pricing.BaseFare)
	if err != nil || domain.ValidateCost(fare) != nil {
		return fmt.Errorf("%w: pricing.base_fare %q must be an amount between 0 and %s", ErrInvalidConfig, c.Pricing.BaseFare, domain.MaxMoney)
	}
	c.Pricing.baseFare = fare

	if c.Allocation.MaxAttempts < 1 {
		return fmt.Errorf("%w: allocation.max_attempts must be at least 1", ErrInvalidConfig)
	}
	if c.Allocation.CandidateLimit < 1 {
		return fmt.Errorf("%w: allocation.candidate_limit must be at least 1", ErrInvalidConfig)
	}
	if c.Allocation.LockTTL <= 0 {
		return fmt.Errorf("%w: allocation.lock_ttl must be positive", ErrInvalidConfig)
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}

	return nil
}
