package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	schemaconfig "github.com/translation-progress-api/pkg/schema/config"
)

// Config holds all application configuration
type Config struct {
	// API Settings
	APITitle   string `env:"API_TITLE" envDefault:"Translation Progress API"`
	APIVersion string `env:"API_VERSION" envDefault:"1.0.0"`
	APIPrefix  string `env:"API_PREFIX" envDefault:"/api/v1"`
	Port       string `env:"PORT" envDefault:"8081"`

	// Runtime environment: "development" or "production"
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogMode     string `env:"LOG_MODE"`

	// CORS, either a JSON array or a comma separated list
	RawCORSOrigins string   `env:"CORS_ORIGINS" envDefault:"http://localhost:5173,http://localhost:3000"`
	CORSOrigins    []string

	// Dashboard policy
	ActivityFeedLimit int           `env:"ACTIVITY_FEED_LIMIT" envDefault:"10"`
	ProgressCacheTTL  time.Duration `env:"PROGRESS_CACHE_TTL" envDefault:"60s"`

	// Dashboard sessions kept in memory
	SessionIdleTTL time.Duration `env:"SESSION_IDLE_TTL" envDefault:"30m"`
	MaxSessions    int           `env:"MAX_SESSIONS" envDefault:"10000"`

	// Tracing (disabled when empty)
	OTELEndpoint string `env:"OTEL_ENDPOINT"`
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

// Load reads the API configuration from the environment
func Load() (*Config, error) {
	cfg := &Config{}
	if err := schemaconfig.ParseEnv(cfg); err != nil {
		return cfg, err
	}
	cfg.CORSOrigins = parseCORSOrigins(cfg.RawCORSOrigins)
	if cfg.LogMode == "" {
		cfg.LogMode = cfg.Environment
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the server cannot run with
func (c *Config) Validate() error {
	switch c.Environment {
	case "development", "production":
	default:
		return fmt.Errorf("invalid ENVIRONMENT %q: must be development or production", c.Environment)
	}
	if c.ActivityFeedLimit <= 0 {
		return fmt.Errorf("ACTIVITY_FEED_LIMIT must be positive, got %d", c.ActivityFeedLimit)
	}
	if c.ProgressCacheTTL < 0 {
		return fmt.Errorf("PROGRESS_CACHE_TTL must not be negative")
	}
	if c.SessionIdleTTL < 0 {
		return fmt.Errorf("SESSION_IDLE_TTL must not be negative")
	}
	if c.MaxSessions < 0 {
		return fmt.Errorf("MAX_SESSIONS must not be negative, got %d", c.MaxSessions)
	}
	return nil
}

func parseCORSOrigins(value string) []string {
	var origins []string
	if err := json.Unmarshal([]byte(value), &origins); err == nil {
		return origins
	}
	parts := strings.Split(value, ",")
	origins = make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
