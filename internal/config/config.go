package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime settings read from PRODBOARD_* environment variables.
type Config struct {
	// DBPath is the SQLite file. Empty means ~/.prodboard/prodboard.db.
	DBPath string `env:"PRODBOARD_DB"`

	LogLevel    string `env:"PRODBOARD_LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"PRODBOARD_LOG_FORMAT" envDefault:"console"`
	LogUseCases bool   `env:"PRODBOARD_LOG_USE_CASES" envDefault:"false"`

	AllowPastStart bool `env:"PRODBOARD_ALLOW_PAST_START" envDefault:"false"`
	MaxSpanDays    int  `env:"PRODBOARD_MAX_SPAN_DAYS" envDefault:"365"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the environment, fills the default database path and
// validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.DBPath == "" {
		path, err := DefaultDBPath()
		if err != nil {
			return Config{}, err
		}
		cfg.DBPath = path
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultDBPath returns ~/.prodboard/prodboard.db.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".prodboard", "prodboard.db"), nil
}

func (c Config) Validate() error {
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("PRODBOARD_LOG_FORMAT must be console or json, got %q", c.LogFormat)
	}
	if c.MaxSpanDays < 1 {
		return fmt.Errorf("PRODBOARD_MAX_SPAN_DAYS must be positive, got %d", c.MaxSpanDays)
	}
	return nil
}
