/*
Package config loads server configuration from environment variables and flags.

PURPOSE:
  Single place where the runtime surface is defined. Environment variables
  take precedence over flag defaults; flags override environment when set
  explicitly on the command line.

VARIABLES:
  RUN_ADDRESS   - listen address (default :8080)
  DATABASE_PATH - SQLite database file (default ./courier.db)
  LOG_LVL       - zap level: debug, info, warn, error (default info)
*/
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	RunAddress   string `env:"RUN_ADDRESS"`
	DatabasePath string `env:"DATABASE_PATH"`
	LogLevel     string `env:"LOG_LVL"`
}

// Load parses flags, then lets environment variables override them.
func Load() (Config, error) {
	cfg := Config{}

	flag.StringVar(&cfg.RunAddress, "a", ":8080", "address and port to listen on")
	flag.StringVar(&cfg.DatabasePath, "d", "./courier.db", "path to the SQLite database file")
	flag.StringVar(&cfg.LogLevel, "l", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
