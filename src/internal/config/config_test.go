// FILE: src/internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := defaults()

	require.NoError(t, cfg.validate())
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "http://localhost:8080/api/watchdog/log", cfg.Telemetry.Endpoint)
	assert.Equal(t, int64(5000), cfg.Telemetry.FlushIntervalMS)
	assert.Equal(t, 50, cfg.Telemetry.MaxQueueSize)
	assert.True(t, cfg.Telemetry.UseBeacon)
	assert.Equal(t, "static-v1", cfg.Cache.Generation)
	assert.Equal(t, "/static/", cfg.Cache.Prefix)
	assert.Equal(t, "stderr", cfg.Logging.Output)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"EmptyEndpoint", func(c *Config) { c.Telemetry.Endpoint = "" }},
		{"FlushIntervalTooSmall", func(c *Config) { c.Telemetry.FlushIntervalMS = 50 }},
		{"ZeroQueueSize", func(c *Config) { c.Telemetry.MaxQueueSize = 0 }},
		{"EmptyGeneration", func(c *Config) { c.Cache.Generation = "" }},
		{"RelativePrefix", func(c *Config) { c.Cache.Prefix = "static/" }},
		{"RelativeAssetPath", func(c *Config) { c.Cache.Assets = []string{"css/app.css"} }},
		{"UnknownLogOutput", func(c *Config) { c.Logging.Output = "syslog" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaults()
			tc.mutate(cfg)
			assert.Error(t, cfg.validate())
		})
	}
}

func TestLoadWithCLI(t *testing.T) {
	t.Run("DefaultsWhenNoFile", func(t *testing.T) {
		t.Setenv("WATCHDOG_CONFIG_DIR", t.TempDir())

		cfg, err := LoadWithCLI(nil)
		require.NoError(t, err)
		assert.Equal(t, 50, cfg.Telemetry.MaxQueueSize)
	})

	t.Run("FileOverridesDefaults", func(t *testing.T) {
		dir := t.TempDir()
		content := `
[telemetry]
endpoint = "http://ingest.local/api/watchdog/log"
max_queue_size = 25

[cache]
generation = "static-v7"
assets = ["/static/css/app.css"]
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "watchdog.toml"), []byte(content), 0644))
		t.Setenv("WATCHDOG_CONFIG_DIR", dir)

		cfg, err := LoadWithCLI(nil)
		require.NoError(t, err)
		assert.Equal(t, "http://ingest.local/api/watchdog/log", cfg.Telemetry.Endpoint)
		assert.Equal(t, 25, cfg.Telemetry.MaxQueueSize)
		assert.Equal(t, "static-v7", cfg.Cache.Generation)
		assert.Equal(t, []string{"/static/css/app.css"}, cfg.Cache.Assets)
		// Untouched keys keep their defaults
		assert.Equal(t, int64(5000), cfg.Telemetry.FlushIntervalMS)
	})

	t.Run("CLIOverridesFile", func(t *testing.T) {
		dir := t.TempDir()
		content := `
[cache]
generation = "static-v7"
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "watchdog.toml"), []byte(content), 0644))
		t.Setenv("WATCHDOG_CONFIG_DIR", dir)

		cfg, err := LoadWithCLI([]string{"--cache.generation=static-v8"})
		require.NoError(t, err)
		assert.Equal(t, "static-v8", cfg.Cache.Generation)
	})

	t.Run("InvalidFileValueRejected", func(t *testing.T) {
		dir := t.TempDir()
		content := `
[telemetry]
flush_interval_ms = 10
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "watchdog.toml"), []byte(content), 0644))
		t.Setenv("WATCHDOG_CONFIG_DIR", dir)

		_, err := LoadWithCLI(nil)
		assert.Error(t, err)
	})
}

func TestGetConfigPath(t *testing.T) {
	t.Run("ExplicitFileWins", func(t *testing.T) {
		t.Setenv("WATCHDOG_CONFIG_FILE", "/etc/watchdog/custom.toml")
		assert.Equal(t, "/etc/watchdog/custom.toml", GetConfigPath())
	})

	t.Run("RelativeFileJoinedWithDir", func(t *testing.T) {
		t.Setenv("WATCHDOG_CONFIG_FILE", "custom.toml")
		t.Setenv("WATCHDOG_CONFIG_DIR", "/etc/watchdog")
		assert.Equal(t, filepath.Join("/etc/watchdog", "custom.toml"), GetConfigPath())
	})

	t.Run("DirAloneUsesDefaultName", func(t *testing.T) {
		t.Setenv("WATCHDOG_CONFIG_FILE", "")
		t.Setenv("WATCHDOG_CONFIG_DIR", "/etc/watchdog")
		assert.Equal(t, filepath.Join("/etc/watchdog", "watchdog.toml"), GetConfigPath())
	})
}
