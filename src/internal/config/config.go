// FILE: src/internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"watchdog/src/internal/core"

	lconfig "github.com/lixenwraith/config"
)

type Config struct {
	Telemetry TelemetryConfig `toml:"telemetry"`
	Cache     CacheConfig     `toml:"cache"`
	Logging   LoggingConfig   `toml:"logging"`
}

// TelemetryConfig configures the agent and its dispatcher. The capture
// thresholds themselves are compile-time constants in core; only the
// delivery surface is configurable.
type TelemetryConfig struct {
	Enabled         bool   `toml:"enabled"`
	Endpoint        string `toml:"endpoint"`
	FlushIntervalMS int64  `toml:"flush_interval_ms"`
	MaxQueueSize    int    `toml:"max_queue_size"`
	TimeoutSeconds  int64  `toml:"timeout_seconds"`
	UseBeacon       bool   `toml:"use_beacon"`
}

// CacheConfig configures the asset cache worker.
type CacheConfig struct {
	Generation string   `toml:"generation"`
	Prefix     string   `toml:"prefix"`
	Origin     string   `toml:"origin"`
	Assets     []string `toml:"assets"`
	Database   string   `toml:"database"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Output string `toml:"output"` // "stdout", "stderr", or "none"
}

func defaults() *Config {
	return &Config{
		Telemetry: TelemetryConfig{
			Enabled:         true,
			Endpoint:        "http://localhost:8080" + core.DefaultEndpoint,
			FlushIntervalMS: core.FlushInterval.Milliseconds(),
			MaxQueueSize:    core.MaxQueueSize,
			TimeoutSeconds:  10,
			UseBeacon:       true,
		},
		Cache: CacheConfig{
			Generation: "static-v1",
			Prefix:     "/static/",
			Origin:     "http://localhost:8080",
			Assets:     []string{},
			Database:   "watchdog-cache.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: "stderr",
		},
	}
}

func LoadWithCLI(cliArgs []string) (*Config, error) {
	configPath := GetConfigPath()

	cfg, err := lconfig.NewBuilder().
		WithDefaults(defaults()).
		WithEnvPrefix("WATCHDOG_").
		WithFile(configPath).
		WithArgs(cliArgs).
		WithSources(
			lconfig.SourceCLI,
			lconfig.SourceEnv,
			lconfig.SourceFile,
			lconfig.SourceDefault,
		).
		Build()

	if err != nil {
		if !strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	finalConfig := &Config{}
	if err := cfg.Scan(finalConfig); err != nil {
		return nil, fmt.Errorf("failed to scan config: %w", err)
	}

	return finalConfig, finalConfig.validate()
}

func GetConfigPath() string {
	if configFile := os.Getenv("WATCHDOG_CONFIG_FILE"); configFile != "" {
		if filepath.IsAbs(configFile) {
			return configFile
		}
		if configDir := os.Getenv("WATCHDOG_CONFIG_DIR"); configDir != "" {
			return filepath.Join(configDir, configFile)
		}
		return configFile
	}

	if configDir := os.Getenv("WATCHDOG_CONFIG_DIR"); configDir != "" {
		return filepath.Join(configDir, "watchdog.toml")
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config", "watchdog.toml")
	}

	return "watchdog.toml"
}

func (c *Config) validate() error {
	if c.Telemetry.Endpoint == "" {
		return fmt.Errorf("telemetry endpoint not specified")
	}
	if c.Telemetry.FlushIntervalMS < 100 {
		return fmt.Errorf("flush interval too small: %d ms", c.Telemetry.FlushIntervalMS)
	}
	if c.Telemetry.MaxQueueSize < 1 {
		return fmt.Errorf("max queue size must be positive: %d", c.Telemetry.MaxQueueSize)
	}

	if c.Cache.Generation == "" {
		return fmt.Errorf("cache generation not specified")
	}
	if !strings.HasPrefix(c.Cache.Prefix, "/") {
		return fmt.Errorf("cache prefix must be an absolute path: %s", c.Cache.Prefix)
	}
	for _, asset := range c.Cache.Assets {
		if !strings.HasPrefix(asset, "/") {
			return fmt.Errorf("asset path must be absolute: %s", asset)
		}
	}

	switch c.Logging.Output {
	case "stdout", "stderr", "none":
	default:
		return fmt.Errorf("invalid log output mode: %s", c.Logging.Output)
	}

	return nil
}
