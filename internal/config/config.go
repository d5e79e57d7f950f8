package config

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration loaded from an optional YAML
// file, with environment variable overrides.
type Config struct {
	// StatePath is the location of the persisted document.
	StatePath string `yaml:"state_path"`
	// LogPath is the diagnostic log file. Logs cannot go to stdout
	// because the terminal UI owns it.
	LogPath  string `yaml:"log_path"`
	LogLevel string `yaml:"log_level"` // debug, info, warn, error
	// AutoSaveIntervalMS is the cadence of the periodic save task
	// when the autoSave setting is on.
	AutoSaveIntervalMS int `yaml:"autosave_interval_ms"`
}

// Load reads the config file at configPath, falling back to defaults
// if it does not exist. Environment variables override file values.
func Load(configPath string) (*Config, error) {
	cfg, err := DefaultConfig()
	if err != nil {
		return nil, err
	}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	cfg.overrideFromEnv()

	if cfg.AutoSaveIntervalMS <= 0 {
		cfg.AutoSaveIntervalMS = 30000
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// DefaultConfig returns the built-in configuration. State and logs
// live under the XDG data directory, like the rest of the app's data.
func DefaultConfig() (*Config, error) {
	dataDir, err := dataDir()
	if err != nil {
		return nil, err
	}
	return &Config{
		StatePath:          filepath.Join(dataDir, "state.json"),
		LogPath:            filepath.Join(dataDir, "taskdeck.log"),
		LogLevel:           "info",
		AutoSaveIntervalMS: 30000,
	}, nil
}

func (c *Config) overrideFromEnv() {
	if v := os.Getenv("TASKDECK_STATE"); v != "" {
		c.StatePath = v
	}
	if v := os.Getenv("TASKDECK_LOG"); v != "" {
		c.LogPath = v
	}
	if v := os.Getenv("TASKDECK_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("TASKDECK_AUTOSAVE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			c.AutoSaveIntervalMS = ms
		}
	}
}

// dataDir returns the application data directory, creating it if
// needed. Uses XDG data directory or falls back to home.
func dataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}

	appDir := filepath.Join(base, "taskdeck")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return "", err
	}
	return appDir, nil
}
