// Package config loads runtime configuration from the environment.
//
// WHY ENVIRONMENT VARIABLES?
// They are the lowest common denominator across dev machines, Docker and
// every deployment platform. A .env file (loaded in main) covers local
// development; production sets real variables. Twelve-factor, in short.
package config

import (
	"fmt"
	"strings"

	"github.com/joeshaw/envdecode"
)

// Config holds everything the server needs to start. Each field declares its
// environment variable and default in the struct tag, so this type is the
// single place to look for what is configurable.
type Config struct {
	Port     int    `env:"PORT,default=8080"`
	DBPath   string `env:"DB_PATH,default=data/solar.db"`
	LogLevel string `env:"LOG_LEVEL,default=info"`
}

// Load reads the environment into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("PORT must be between 1 and 65535, got %d", cfg.Port)
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error; got %q", cfg.LogLevel)
	}

	return &cfg, nil
}

// Addr returns the listen address in the form ":8080".
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
