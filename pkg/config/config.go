package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend selection modes.
const (
	BackendAuto     = "auto"
	BackendFallback = "fallback"
)

// Output formats for idle times.
const (
	FormatSeconds  = "seconds"
	FormatDuration = "duration"
)

// Config holds all configuration for sysidle
type Config struct {
	// Backend selection
	Backend string `yaml:"backend" env:"SYSIDLE_BACKEND"`

	// Output format
	Format string `yaml:"format" env:"SYSIDLE_FORMAT"`

	// Watch mode settings
	Interval  time.Duration `yaml:"interval" env:"SYSIDLE_INTERVAL"`
	Threshold time.Duration `yaml:"threshold" env:"SYSIDLE_THRESHOLD"`

	// Commands run on idle state transitions
	OnIdle   string `yaml:"on_idle" env:"SYSIDLE_ON_IDLE"`
	OnResume string `yaml:"on_resume" env:"SYSIDLE_ON_RESUME"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Backend:   BackendAuto,
		Format:    FormatSeconds,
		Interval:  2 * time.Second,
		Threshold: 2 * time.Minute,
	}
}

// Load loads configuration from file and environment
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// Try to load from config file
	configPath := getConfigPath()
	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Override with environment variables
	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// getConfigPath returns the config file path
func getConfigPath() string {
	// Check for explicit config path
	if path := os.Getenv("SYSIDLE_CONFIG"); path != "" {
		return path
	}

	// Check XDG config directory
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "sysidle", "config.yaml")
	}

	// Fall back to home directory
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "sysidle", "config.yaml")
	}

	return ""
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(cfg *Config, path string) error {
	// #nosec G304 - The config file path comes from trusted sources (env var or standard locations)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

// loadFromEnv loads configuration from environment variables
func loadFromEnv(cfg *Config) error {
	if backend := os.Getenv("SYSIDLE_BACKEND"); backend != "" {
		cfg.Backend = backend
	}

	if format := os.Getenv("SYSIDLE_FORMAT"); format != "" {
		cfg.Format = format
	}

	if interval := os.Getenv("SYSIDLE_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return fmt.Errorf("invalid SYSIDLE_INTERVAL: %w", err)
		}
		cfg.Interval = d
	}

	if threshold := os.Getenv("SYSIDLE_THRESHOLD"); threshold != "" {
		d, err := time.ParseDuration(threshold)
		if err != nil {
			return fmt.Errorf("invalid SYSIDLE_THRESHOLD: %w", err)
		}
		cfg.Threshold = d
	}

	if onIdle := os.Getenv("SYSIDLE_ON_IDLE"); onIdle != "" {
		cfg.OnIdle = onIdle
	}

	if onResume := os.Getenv("SYSIDLE_ON_RESUME"); onResume != "" {
		cfg.OnResume = onResume
	}

	return nil
}

// Validate checks the configuration. Callers that override fields
// after Load, such as flag handling, should validate again.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendAuto, BackendFallback:
	default:
		return fmt.Errorf("backend must be %q or %q, got %q", BackendAuto, BackendFallback, c.Backend)
	}

	switch c.Format {
	case FormatSeconds, FormatDuration:
	default:
		return fmt.Errorf("format must be %q or %q, got %q", FormatSeconds, FormatDuration, c.Format)
	}

	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}

	if c.Threshold <= 0 {
		return fmt.Errorf("threshold must be positive")
	}

	return nil
}
