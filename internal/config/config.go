// Package config loads process-wide settings from the environment.
// A Config is built once at startup and never mutated afterwards.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage backends.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

// Config is the server configuration.
type Config struct {
	Port     string `env:"PORT" envDefault:"5175"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// DatabaseURL is a postgres connection string or a sqlite file path.
	DatabaseURL    string `env:"DATABASE_URL"`
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"postgres"`

	JWTSecret      string `env:"JWT_SECRET,required"`
	JWTExpiresDays int    `env:"JWT_EXPIRES_DAYS" envDefault:"14"`

	ClientOrigin   string        `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints the struct tags cannot express.
func (c Config) Validate() error {
	switch c.StorageBackend {
	case BackendPostgres, BackendSQLite:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for storage backend %q", c.StorageBackend)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of postgres, sqlite, memory (got %q)", c.StorageBackend)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.JWTExpiresDays < 0 {
		return fmt.Errorf("JWT_EXPIRES_DAYS must be >= 0 (got %d)", c.JWTExpiresDays)
	}
	return nil
}

// TokenTTL is the lifetime of issued tokens; zero means no exp claim.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpiresDays) * 24 * time.Hour
}
