// Package config handles configuration loading and validation for pomolist.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tgienger/pomolist/internal/advisor"
	"github.com/tgienger/pomolist/internal/settings"
	"gopkg.in/yaml.v3"
)

const appName = "pomolist"

// Config holds the application configuration.
type Config struct {
	Advisor AdvisorConfig `yaml:"advisor"`
	Limits  LimitsConfig  `yaml:"limits"`
	Bell    bool          `yaml:"bell"`    // ring the terminal bell when a session ends
	DataDir string        `yaml:"-"`       // set by caller, not from config file
}

// AdvisorConfig configures the Gemini sort advisor.
type AdvisorConfig struct {
	APIKey   string `yaml:"api_key"`  // falls back to $GEMINI_API_KEY
	Model    string `yaml:"model"`
	Endpoint string `yaml:"endpoint"` // optional API endpoint override
}

// Enabled reports whether an API key is available.
func (a AdvisorConfig) Enabled() bool {
	return a.APIKey != ""
}

// RangeConfig is an inclusive bound.
type RangeConfig struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// LimitsConfig bounds the values accepted by the settings page.
type LimitsConfig struct {
	Focus             RangeConfig `yaml:"focus"`
	ShortBreak        RangeConfig `yaml:"short_break"`
	LongBreak         RangeConfig `yaml:"long_break"`
	LongBreakInterval RangeConfig `yaml:"long_break_interval"`
}

// Settings converts the configured limits for the settings store.
func (l LimitsConfig) Settings() settings.Limits {
	conv := func(r RangeConfig) settings.Range { return settings.Range{Min: r.Min, Max: r.Max} }
	return settings.Limits{
		Focus:             conv(l.Focus),
		ShortBreak:        conv(l.ShortBreak),
		LongBreak:         conv(l.LongBreak),
		LongBreakInterval: conv(l.LongBreakInterval),
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	d := settings.DefaultLimits()
	conv := func(r settings.Range) RangeConfig { return RangeConfig{Min: r.Min, Max: r.Max} }
	return Config{
		Advisor: AdvisorConfig{Model: advisor.DefaultModel},
		Limits: LimitsConfig{
			Focus:             conv(d.Focus),
			ShortBreak:        conv(d.ShortBreak),
			LongBreak:         conv(d.LongBreak),
			LongBreakInterval: conv(d.LongBreakInterval),
		},
		Bell: true,
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.DataDir = dataDir
	if cfg.Advisor.APIKey == "" {
		cfg.Advisor.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/pomolist/config.yaml, falling
// back to ~/.config.
func DefaultConfigPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName, "config.yaml")
}

// DefaultDataDir returns $XDG_DATA_HOME/pomolist, falling back to ~/.local/share.
func DefaultDataDir() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return appName
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, appName)
}
