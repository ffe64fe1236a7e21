// Package config loads the grayworld command's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ajroetker/go-grayworld/grayworld"
	"github.com/ajroetker/go-grayworld/internal/logging"
)

// Config represents the complete command configuration
type Config struct {
	Mode   grayworld.Mode `yaml:"mode"`    // mean, median
	Tier   grayworld.Tier `yaml:"tier"`    // auto, scalar, sse2, avx2, avx512
	Jobs   int            `yaml:"jobs"`    // parallel filters (default: GOMAXPROCS)
	OutDir string         `yaml:"out_dir"` // where corrected files go
	Format string         `yaml:"format"`  // png, tiff; empty keeps the input extension
	Report string         `yaml:"report"`  // msgpack report path, empty for none
	Log    LogConfig      `yaml:"log"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level      string `yaml:"level"`       // DEBUG, INFO, WARN, ERROR
	JSON       bool   `yaml:"json"`        // JSON records instead of text
	File       string `yaml:"file"`        // also write to this rotated file
	MaxSizeMB  int    `yaml:"max_size_mb"` // rotate at this size (default: 10)
	MaxBackups int    `yaml:"max_backups"` // rotated files to keep (default: 3)
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	// Validate only fills defaults on an empty config.
	_ = Validate(cfg)
	return cfg
}

// Load reads and parses a YAML configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Validate configuration
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &cfg, nil
}

// Validate checks cfg and fills defaults for unset fields.
func Validate(cfg *Config) error {
	if cfg.Jobs < 0 {
		return fmt.Errorf("%w: jobs must be >= 0, got %d", ErrInvalid, cfg.Jobs)
	}
	if cfg.Jobs == 0 {
		cfg.Jobs = runtime.GOMAXPROCS(0)
	}
	if cfg.OutDir == "" {
		cfg.OutDir = "."
	}

	cfg.Format = strings.ToLower(strings.TrimPrefix(cfg.Format, "."))
	switch cfg.Format {
	case "", "png", "tiff", "tif":
	default:
		return fmt.Errorf("%w: format must be png or tiff, got %q", ErrInvalid, cfg.Format)
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "INFO"
	}
	if _, ok := logging.ParseLevel(cfg.Log.Level); !ok {
		return fmt.Errorf("%w: log level %q", ErrInvalid, cfg.Log.Level)
	}
	if cfg.Log.MaxSizeMB <= 0 {
		cfg.Log.MaxSizeMB = 10
	}
	if cfg.Log.MaxBackups <= 0 {
		cfg.Log.MaxBackups = 3
	}
	return nil
}
