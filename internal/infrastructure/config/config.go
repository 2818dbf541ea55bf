package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
type Config struct {
	// Processing. Zero workers runs the sequential ledger.
	Workers     int `env:"LEDGER_WORKERS"      envDefault:"10"`
	MailboxSize int `env:"LEDGER_MAILBOX_SIZE" envDefault:"1000"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	// Metrics are written in the Prometheus text format when set.
	MetricsFile string `env:"METRICS_FILE" envDefault:""`
}

var ErrInvalidConfig = errors.New("invalid configuration")

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values env parsing cannot.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}

	if c.MailboxSize < 1 {
		return fmt.Errorf("%w: mailbox size must be positive, got %d", ErrInvalidConfig, c.MailboxSize)
	}

	return nil
}
