package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 1*time.Second, cfg.Tracker.PollInterval)
	assert.Equal(t, 45*time.Second, cfg.Idle.Threshold)
	assert.Equal(t, 180*time.Second, cfg.Idle.GracePeriod)
	assert.Equal(t, 8787, cfg.Web.Port)
	assert.NotEmpty(t, cfg.Idle.ExemptApps)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"poll below minimum", func(c *Config) { c.Tracker.PollInterval = 100 * time.Millisecond }},
		{"poll above maximum", func(c *Config) { c.Tracker.PollInterval = 2 * time.Minute }},
		{"zero idle threshold", func(c *Config) { c.Idle.Threshold = 0 }},
		{"negative grace", func(c *Config) { c.Idle.GracePeriod = -time.Second }},
		{"port out of range", func(c *Config) { c.Web.Port = 70000 }},
		{"empty host", func(c *Config) { c.Web.Host = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSetPollInterval(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.SetPollInterval(5*time.Second))
	assert.Equal(t, int64(5), cfg.GetPollIntervalSeconds())

	assert.Error(t, cfg.SetPollInterval(100*time.Millisecond))
	assert.Error(t, cfg.SetPollInterval(5*time.Minute))
	assert.Equal(t, 5*time.Second, cfg.Tracker.PollInterval)
}

func TestLoadFileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[database]
path = "/tmp/test.db"

[tracker]
poll_seconds = 5

[idle]
threshold_seconds = 120
exempt_apps = ["obs"]

[web]
port = 9999
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := Default()
	require.NoError(t, LoadFile(cfg, path))

	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	assert.Equal(t, 5*time.Second, cfg.Tracker.PollInterval)
	assert.Equal(t, 120*time.Second, cfg.Idle.Threshold)
	assert.Equal(t, []string{"obs"}, cfg.Idle.ExemptApps)
	assert.Equal(t, 9999, cfg.Web.Port)

	// Untouched sections keep their defaults.
	assert.Equal(t, 180*time.Second, cfg.Idle.GracePeriod)
	assert.Equal(t, "127.0.0.1", cfg.Web.Host)
}

func TestLoadFileMissingIsNoop(t *testing.T) {
	cfg := Default()
	require.NoError(t, LoadFile(cfg, filepath.Join(t.TempDir(), "nope.toml")))
	assert.Equal(t, 1*time.Second, cfg.Tracker.PollInterval)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("WORKSHOT_DB_PATH", "/tmp/env.db")
	t.Setenv("WORKSHOT_POLL_INTERVAL", "10")
	t.Setenv("WORKSHOT_IDLE_THRESHOLD", "90")
	t.Setenv("WORKSHOT_MEDIA_GRACE", "60")
	t.Setenv("WORKSHOT_EXEMPT_APPS", "OBS, Jellyfin ,")
	t.Setenv("WORKSHOT_WEB_PORT", "9000")

	cfg := Default()
	LoadFromEnv(cfg)

	assert.Equal(t, "/tmp/env.db", cfg.Database.Path)
	assert.Equal(t, 10*time.Second, cfg.Tracker.PollInterval)
	assert.Equal(t, 90*time.Second, cfg.Idle.Threshold)
	assert.Equal(t, 60*time.Second, cfg.Idle.GracePeriod)
	assert.Equal(t, []string{"obs", "jellyfin"}, cfg.Idle.ExemptApps)
	assert.Equal(t, 9000, cfg.Web.Port)
}

func TestLoadFromEnvIgnoresInvalid(t *testing.T) {
	t.Setenv("WORKSHOT_POLL_INTERVAL", "nope")
	t.Setenv("WORKSHOT_WEB_PORT", "99999")

	cfg := Default()
	LoadFromEnv(cfg)

	assert.Equal(t, 1*time.Second, cfg.Tracker.PollInterval)
	assert.Equal(t, 8787, cfg.Web.Port)
}

func TestNormalizeDefaultsPIDFile(t *testing.T) {
	cfg := Default()
	Normalize(cfg)
	assert.Contains(t, cfg.Daemon.PIDFile, "/tmp/workshot-")

	cfg.Daemon.PIDFile = "/custom/pid"
	Normalize(cfg)
	assert.Equal(t, "/custom/pid", cfg.Daemon.PIDFile)
}
