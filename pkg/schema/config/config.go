package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/caarlos0/env/v11"
)

// Supported fact store drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds configuration for the fact store and shared caches
type Config struct {
	// Fact store
	Driver      string `env:"FACT_STORE_DRIVER" envDefault:"postgres"`
	PostgresURI string `env:"POSTGRES_URI"`
	SQLitePath  string `env:"SQLITE_PATH"`

	// Redis (optional, used for progress snapshots and persisted selections)
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"progress"`
}

var (
	config    *Config
	configErr error
	once      sync.Once
)

// GetConfig returns the singleton configuration instance
func GetConfig() *Config {
	once.Do(func() {
		config, configErr = Load()
	})
	return config
}

// GetInitError returns the error, if any, from loading the singleton configuration
func GetInitError() error {
	GetConfig()
	return configErr
}

// Load reads the configuration from the environment and validates it
func Load() (*Config, error) {
	cfg := &Config{}
	if err := ParseEnv(cfg); err != nil {
		return cfg, err
	}
	cfg.Driver = strings.ToLower(strings.TrimSpace(cfg.Driver))
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks that the selected driver has what it needs to connect
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverPostgres:
		if c.PostgresURI == "" {
			return fmt.Errorf("POSTGRES_URI is required for driver %q", c.Driver)
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for driver %q", c.Driver)
		}
	default:
		return fmt.Errorf("unsupported FACT_STORE_DRIVER %q", c.Driver)
	}
	return nil
}

// RedisEnabled reports whether a Redis address was configured
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}
