// Package config loads the pcdtool YAML configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/pcdio/format"
)

// Config is the pcdtool configuration file.
type Config struct {
	Compression string  `yaml:"compression"`
	Parallel    bool    `yaml:"parallel"`
	Workers     int     `yaml:"workers"`
	Output      Output  `yaml:"output"`
	Logging     Logging `yaml:"logging"`
}

// Output holds defaults for files written by convert.
type Output struct {
	Data string `yaml:"data"`
}

type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Compression: "lzf",
		Parallel:    true,
		Workers:     runtime.GOMAXPROCS(0),
		Output: Output{
			Data: "binary_compressed",
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig reads the file at path over the defaults, so keys missing from the file keep
// their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes cfg to path, creating parent directories.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that every value names something pcdtool supports.
func (c *Config) Validate() error {
	if _, err := c.CompressionType(); err != nil {
		return err
	}
	if _, err := c.DataFormat(); err != nil {
		return err
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}

	return nil
}

func (c *Config) CompressionType() (format.CompressionType, error) {
	return format.ParseCompressionType(c.Compression)
}

func (c *Config) DataFormat() (format.DataFormat, error) {
	return format.ParseDataFormat(c.Output.Data)
}

// LogLevel maps the level name to a slog level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.Logging.Level))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", c.Logging.Level)
	}

	return level, nil
}
