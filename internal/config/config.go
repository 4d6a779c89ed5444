// Package config reads the server settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything `portfolio serve` needs.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// AccessKey is the Web3Forms key. It is not checked here; a missing key
	// makes every submission fail at the relay.
	AccessKey     string        `env:"WEB3FORMS_ACCESS_KEY"`
	RelayEndpoint string        `env:"WEB3FORMS_ENDPOINT" envDefault:"https://api.web3forms.com/submit"`
	RelayTimeout  time.Duration `env:"RELAY_TIMEOUT" envDefault:"0s"`

	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"5m"`

	ImagesDir string `env:"IMAGES_DIR" envDefault:"./images"`
}

// Load parses the environment into a Config.
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

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive, got %s", c.SweepInterval)
	}
	if c.RelayTimeout < 0 {
		return fmt.Errorf("RELAY_TIMEOUT must not be negative, got %s", c.RelayTimeout)
	}
	return nil
}
