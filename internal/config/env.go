// Package config loads service configuration from the environment and
// scenario parameters from YAML files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrInvalidConfig is returned when configuration values are unusable.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the service configuration.
type Config struct {
	HTTPAddr        string        `env:"QUANTA_HTTP_ADDR" envDefault:":8080"`
	MetricsAddr     string        `env:"QUANTA_METRICS_ADDR" envDefault:":9090"`
	CacheSize       int           `env:"QUANTA_CACHE_SIZE" envDefault:"256"`
	ParamsFile      string        `env:"QUANTA_PARAMS_FILE"`
	OutputDir       string        `env:"QUANTA_OUTPUT_DIR" envDefault:"output"`
	AllowedOrigins  []string      `env:"QUANTA_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	ShutdownTimeout time.Duration `env:"QUANTA_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Validate checks the loaded values.
func (c Config) Validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("%w: QUANTA_HTTP_ADDR is empty", ErrInvalidConfig)
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("%w: QUANTA_CACHE_SIZE must be > 0, got %d", ErrInvalidConfig, c.CacheSize)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: QUANTA_SHUTDOWN_TIMEOUT must be > 0", ErrInvalidConfig)
	}
	return nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates Config from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFrom parses and validates Config from vars instead of the process
// environment.
func LoadFrom(vars map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDotEnv loads variables from the given files (default ".env") without
// overriding variables already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}
