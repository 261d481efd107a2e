package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const defaultConfigName = "config.toml"

// DefaultConfigPath returns the default config file location
// (~/.config/workshot/config.toml).
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "workshot", defaultConfigName), nil
}

// LoadFile merges a TOML config file into cfg. A missing file is not an
// error; any value absent from the file keeps its current setting.
func LoadFile(cfg *Config, path string) error {
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return err
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return err
	}

	// TOML carries plain seconds; promote them to durations.
	if cfg.Tracker.PollSeconds > 0 {
		cfg.Tracker.PollInterval = time.Duration(cfg.Tracker.PollSeconds) * time.Second
	}
	if cfg.Idle.ThresholdSeconds > 0 {
		cfg.Idle.Threshold = time.Duration(cfg.Idle.ThresholdSeconds) * time.Second
	}
	if cfg.Idle.GraceSeconds > 0 {
		cfg.Idle.GracePeriod = time.Duration(cfg.Idle.GraceSeconds) * time.Second
	}

	return nil
}
