// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/mmynk/tabsplit/internal/currency"
)

type Config struct {
	Port   int    `envconfig:"PORT" default:"8080"`
	DBPath string `envconfig:"DB_PATH" default:"./data/bills.db"`

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"text"`
	}

	History struct {
		Limit        int    `envconfig:"HISTORY_LIMIT" default:"100"`
		BaseCurrency string `envconfig:"BASE_CURRENCY" default:"USD"`
	}

	Share struct {
		// Secret signs share tokens. When empty the server generates a
		// random one at startup, so links do not survive restarts.
		Secret string        `envconfig:"SHARE_SECRET"`
		TTL    time.Duration `envconfig:"SHARE_TTL" default:"168h"`
	}

	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`
}

// Addr is the listen address for Port.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that envconfig cannot.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH must not be empty")
	}
	c.History.BaseCurrency = strings.ToUpper(c.History.BaseCurrency)
	if !currency.Default().Has(c.History.BaseCurrency) {
		return fmt.Errorf("unsupported BASE_CURRENCY %q", c.History.BaseCurrency)
	}
	if c.History.Limit < 0 {
		return fmt.Errorf("HISTORY_LIMIT must not be negative, got %d", c.History.Limit)
	}
	return nil
}
