package config

import (
	"strings"
	"time"

	"rideshare/internal/domain"
)

// Config holds all configuration for the application.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Redis      RedisConfig      `koanf:"redis"`
	NewRelic   NewRelicConfig   `koanf:"newrelic"`
	Pricing    PricingConfig    `koanf:"pricing"`
	Allocation AllocationConfig `koanf:"allocation"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// CORSAllowedOrigins is a comma-separated origin list. Empty allows all.
	CORSAllowedOrigins string `koanf:"cors_allowed_origins"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host         string `koanf:"host"`
	Port         string `koanf:"port"`
	User         string `koanf:"user"`
	Password     string `koanf:"password"`
	DBName       string `koanf:"dbname"`
	SSLMode      string `koanf:"sslmode"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`

	// Migrate applies the embedded schema migrations at startup.
	Migrate bool `koanf:"migrate"`
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string `koanf:"app_name"`
	LicenseKey string `koanf:"license_key"`
	Enabled    bool   `koanf:"enabled"`
}

// PricingConfig holds fare settings. BaseFare is a decimal amount like "13.00".
type PricingConfig struct {
	BaseFare string `koanf:"base_fare"`

	baseFare domain.Money
}

// BaseFareAmount returns the parsed base fare. Valid after Load.
func (p PricingConfig) BaseFareAmount() domain.Money {
	return p.baseFare
}

// AllocationConfig tunes driver allocation.
type AllocationConfig struct {
	MaxAttempts    int           `koanf:"max_attempts"`
	LockTTL        time.Duration `koanf:"lock_ttl"`
	CandidateLimit int           `koanf:"candidate_limit"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Database: DatabaseConfig{
			Host:         "localhost",
			Port:         "5432",
			User:         "postgres",
			Password:     "postgres",
			DBName:       "rideshare",
			SSLMode:      "disable",
			MaxOpenConns: 50,
			MaxIdleConns: 25,
			Migrate:      true,
		},
		Redis: RedisConfig{
			Enabled: false,
			Addr:    "localhost:6379",
		},
		NewRelic: NewRelicConfig{
			AppName: "rideshare-service",
		},
		Pricing: PricingConfig{
			BaseFare: "13.00",
		},
		Allocation: AllocationConfig{
			MaxAttempts:    3,
			LockTTL:        10 * time.Second,
			CandidateLimit: 10,
		},
		LogLevel: "info",
	}
}

// AllowedOrigins splits CORSAllowedOrigins into trimmed, non-empty entries.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
