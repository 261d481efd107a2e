package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	Database DatabaseConfig `toml:"database"`

	// Tracker configuration
	Tracker TrackerConfig `toml:"tracker"`

	// Idle classification configuration
	Idle IdleConfig `toml:"idle"`

	// Daemon configuration
	Daemon DaemonConfig `toml:"daemon"`

	// Export configuration
	Export ExportConfig `toml:"export"`

	// Upload configuration
	Upload UploadConfig `toml:"upload"`

	// Web server configuration
	Web WebConfig `toml:"web"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path string `toml:"path"` // Path to SQLite database file
}

// TrackerConfig holds sampling loop configuration
type TrackerConfig struct {
	PollInterval    time.Duration `toml:"-"`
	PollSeconds     int           `toml:"poll_seconds"`
	MinPollInterval time.Duration `toml:"-"`
	MaxPollInterval time.Duration `toml:"-"`
}

// IdleConfig holds the idle classifier tunables. List entries are matched
// as lowercase substrings; an empty list disables that check.
type IdleConfig struct {
	Threshold        time.Duration `toml:"-"`
	ThresholdSeconds int           `toml:"threshold_seconds"`
	GracePeriod      time.Duration `toml:"-"`
	GraceSeconds     int           `toml:"grace_seconds"`

	ExemptApps        []string `toml:"exempt_apps"`
	StreamingKeywords []string `toml:"streaming_keywords"`
	ReadingKeywords   []string `toml:"reading_keywords"`
}

// DaemonConfig holds daemon process configuration
type DaemonConfig struct {
	PIDFile string `toml:"pid_file"` // Path to PID file for daemon management
	LogFile string `toml:"log_file"` // Log file path; empty logs to stderr
}

// ExportConfig holds export output configuration
type ExportConfig struct {
	Dir string `toml:"dir"` // Directory for export files
}

// UploadConfig holds export upload configuration
type UploadConfig struct {
	Endpoint string `toml:"endpoint"` // HTTP endpoint receiving export files
	Token    string `toml:"token"`    // Optional bearer token
}

// WebConfig holds web server configuration
type WebConfig struct {
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	OpenBrowser bool   `toml:"open_browser"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "", // Empty means use default ~/.config/workshot/workshot.db
		},
		Tracker: TrackerConfig{
			PollInterval:    1 * time.Second,
			MinPollInterval: 1 * time.Second,
			MaxPollInterval: 60 * time.Second,
		},
		Idle: IdleConfig{
			Threshold:   45 * time.Second,
			GracePeriod: 180 * time.Second,
			ExemptApps: []string{
				// Video/media players: if the user opened it, they're watching
				"vlc", "mpv", "celluloid", "totem", "kodi", "media player",
				// Music
				"spotify", "rhythmbox", "clementine", "audacious",
				// Communication (video calls)
				"zoom", "teams", "skype", "discord", "slack",
				// Gaming
				"steam", "lutris", "twitch",
			},
			StreamingKeywords: []string{
				// Streaming platforms
				"youtube", "netflix", "prime video", "disney+", "disney plus",
				"hulu", "twitch", "vimeo", "dailymotion", "crunchyroll",
				// Video indicators
				"- playing", "now playing", "video player", "watch", "watching",
				"stream", "streaming", "live", "movies", "movie", "episode",
			},
			ReadingKeywords: []string{
				"pdf", ".pdf", "document", "reader",
				"evince", "okular", "zathura", "kindle", "calibre",
			},
		},
		Daemon: DaemonConfig{
			PIDFile: "", // Empty means /tmp/workshot-<uid>.pid
			LogFile: "",
		},
		Export: ExportConfig{
			Dir: "", // Empty means ~/.config/workshot/exports
		},
		Upload: UploadConfig{},
		Web: WebConfig{
			Host:        "127.0.0.1",
			Port:        8787,
			OpenBrowser: true,
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Tracker.PollInterval < c.Tracker.MinPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be less than minimum (%v)",
			c.Tracker.PollInterval, c.Tracker.MinPollInterval)
	}

	if c.Tracker.PollInterval > c.Tracker.MaxPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be greater than maximum (%v)",
			c.Tracker.PollInterval, c.Tracker.MaxPollInterval)
	}

	if c.Idle.Threshold <= 0 {
		return fmt.Errorf("idle threshold must be positive")
	}

	if c.Idle.GracePeriod < 0 {
		return fmt.Errorf("media grace period cannot be negative")
	}

	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("web port must be between 1 and 65535, got %d", c.Web.Port)
	}

	if c.Web.Host == "" {
		return fmt.Errorf("web host cannot be empty")
	}

	return nil
}

// SetPollInterval sets the poll interval with validation
func (c *Config) SetPollInterval(interval time.Duration) error {
	if interval < c.Tracker.MinPollInterval {
		return fmt.Errorf("poll interval cannot be less than %v", c.Tracker.MinPollInterval)
	}
	if interval > c.Tracker.MaxPollInterval {
		return fmt.Errorf("poll interval cannot be greater than %v", c.Tracker.MaxPollInterval)
	}
	c.Tracker.PollInterval = interval
	return nil
}

// GetPollIntervalSeconds returns the poll interval in seconds
func (c *Config) GetPollIntervalSeconds() int64 {
	return int64(c.Tracker.PollInterval.Seconds())
}

// GetIdleThresholdSeconds returns the idle threshold in seconds
func (c *Config) GetIdleThresholdSeconds() int64 {
	return int64(c.Idle.Threshold.Seconds())
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf(`Configuration:
  Database:
    Path: %s
  Tracker:
    Poll Interval: %v
  Idle:
    Threshold: %v
    Grace Period: %v
    Exempt Apps: %d
    Streaming Keywords: %d
    Reading Keywords: %d
  Daemon:
    PID File: %s
    Log File: %s
  Web:
    Host: %s
    Port: %d`,
		c.Database.Path,
		c.Tracker.PollInterval,
		c.Idle.Threshold,
		c.Idle.GracePeriod,
		len(c.Idle.ExemptApps),
		len(c.Idle.StreamingKeywords),
		len(c.Idle.ReadingKeywords),
		c.Daemon.PIDFile,
		c.Daemon.LogFile,
		c.Web.Host,
		c.Web.Port,
	)
}
