// Package config loads the service configuration from environment
// variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the server needs to start.
//
// JWTSecret has no default on purpose: the process must not come up with a
// guessable signing key.
type Config struct {
	Port      int    `env:"PORT"       envDefault:"8080"`
	DBPath    string `env:"DB_PATH"    envDefault:"data/accounts.db"`
	RedisURL  string `env:"REDIS_URL"  envDefault:"redis://localhost:6379"`
	JWTSecret string `env:"JWT_SECRET,required"`
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing environment: %w", err)
	}
	return cfg, nil
}
