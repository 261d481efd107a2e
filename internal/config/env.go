package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadFromEnv loads configuration from environment variables.
// Environment variables override file and default values.
func LoadFromEnv(cfg *Config) {
	if dbPath := os.Getenv("WORKSHOT_DB_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	if pollInterval := os.Getenv("WORKSHOT_POLL_INTERVAL"); pollInterval != "" {
		if seconds, err := strconv.Atoi(pollInterval); err == nil && seconds > 0 {
			interval := time.Duration(seconds) * time.Second
			if interval >= cfg.Tracker.MinPollInterval && interval <= cfg.Tracker.MaxPollInterval {
				cfg.Tracker.PollInterval = interval
			}
		}
	}

	if idleThreshold := os.Getenv("WORKSHOT_IDLE_THRESHOLD"); idleThreshold != "" {
		if seconds, err := strconv.Atoi(idleThreshold); err == nil && seconds > 0 {
			cfg.Idle.Threshold = time.Duration(seconds) * time.Second
		}
	}

	if grace := os.Getenv("WORKSHOT_MEDIA_GRACE"); grace != "" {
		if seconds, err := strconv.Atoi(grace); err == nil && seconds >= 0 {
			cfg.Idle.GracePeriod = time.Duration(seconds) * time.Second
		}
	}

	if exempt := os.Getenv("WORKSHOT_EXEMPT_APPS"); exempt != "" {
		cfg.Idle.ExemptApps = splitList(exempt)
	}

	if pidFile := os.Getenv("WORKSHOT_PID_FILE"); pidFile != "" {
		cfg.Daemon.PIDFile = pidFile
	}

	if logFile := os.Getenv("WORKSHOT_LOG_FILE"); logFile != "" {
		cfg.Daemon.LogFile = logFile
	}

	if exportDir := os.Getenv("WORKSHOT_EXPORT_DIR"); exportDir != "" {
		cfg.Export.Dir = exportDir
	}

	if endpoint := os.Getenv("WORKSHOT_UPLOAD_ENDPOINT"); endpoint != "" {
		cfg.Upload.Endpoint = endpoint
	}

	if token := os.Getenv("WORKSHOT_UPLOAD_TOKEN"); token != "" {
		cfg.Upload.Token = token
	}

	if webHost := os.Getenv("WORKSHOT_WEB_HOST"); webHost != "" {
		cfg.Web.Host = webHost
	}

	if webPort := os.Getenv("WORKSHOT_WEB_PORT"); webPort != "" {
		if port, err := strconv.Atoi(webPort); err == nil && port > 0 && port <= 65535 {
			cfg.Web.Port = port
		}
	}
}

// New creates a new Config with default values, merges the config file if
// one exists, and applies environment overrides.
func New() *Config {
	cfg := Default()
	_ = LoadFile(cfg, "")
	LoadFromEnv(cfg)
	Normalize(cfg)
	return cfg
}

// Normalize fills derived and defaulted fields after all sources merged.
func Normalize(cfg *Config) {
	if cfg.Daemon.PIDFile == "" {
		cfg.Daemon.PIDFile = fmt.Sprintf("/tmp/workshot-%d.pid", os.Getuid())
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, strings.ToLower(trimmed))
		}
	}
	return out
}
