// Package config holds the client settings, unmarshalled from Viper.
// Values come from ~/.crispr/config.yaml (or --config), CRISPR_* environment
// variables and command line flags bound by the cli package.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Keys shared between defaults, flags and the config file.
const (
	KeyBaseURL         = "service.base_url"
	KeyTimeout         = "service.timeout"
	KeyExportDir       = "export.dir"
	KeyLogLevel        = "log.level"
	KeyColor           = "output.color"
	KeyDashboardListen = "dashboard.listen"
	KeyStubListen      = "stub.listen"
)

// ServiceConfig settings for the external guide design service.
type ServiceConfig struct {
	// base URL of the design service, e.g. http://localhost:8000
	BaseURL string `mapstructure:"base_url"`
	// per-request timeout; zero means the client never times out
	Timeout time.Duration `mapstructure:"timeout"`
}

// ExportConfig settings for CSV export.
type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

// LogConfig settings for the operator log.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// OutputConfig settings for terminal output.
type OutputConfig struct {
	Color bool `mapstructure:"color"`
}

// ListenConfig is an address to serve on.
type ListenConfig struct {
	Listen string `mapstructure:"listen"`
}

// Config is the root-level settings struct.
type Config struct {
	Service   ServiceConfig `mapstructure:"service"`
	Export    ExportConfig  `mapstructure:"export"`
	Log       LogConfig     `mapstructure:"log"`
	Output    OutputConfig  `mapstructure:"output"`
	Dashboard ListenConfig  `mapstructure:"dashboard"`
	Stub      ListenConfig  `mapstructure:"stub"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyBaseURL, "http://localhost:8000")
	v.SetDefault(KeyTimeout, time.Duration(0))
	v.SetDefault(KeyExportDir, ".")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyColor, true)
	v.SetDefault(KeyDashboardListen, "127.0.0.1:8080")
	v.SetDefault(KeyStubListen, "127.0.0.1:8000")
}

// DefaultConfigPath returns ~/.crispr/config.yaml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".crispr", "config.yaml"), nil
}

// Load reads the config file at path into v and unmarshals the result.
// A missing file is not an error: defaults, environment and flags still apply.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix("CRISPR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Service.BaseURL == "" {
		return fmt.Errorf("%s must not be empty", KeyBaseURL)
	}
	if c.Service.Timeout < 0 {
		return fmt.Errorf("%s must not be negative", KeyTimeout)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// SaveConfig writes the settings of v to path, creating the directory.
// An existing file is never overwritten.
func SaveConfig(v *viper.Viper, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := v.SafeWriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ParseLevel maps a log.level value to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", KeyLogLevel, level, err)
	}
	return l, nil
}
