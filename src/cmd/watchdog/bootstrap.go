// FILE: src/cmd/watchdog/bootstrap.go
package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"watchdog/src/internal/agent"
	"watchdog/src/internal/assetcache"
	"watchdog/src/internal/config"
	"watchdog/src/internal/fetch"
	"watchdog/src/internal/format"
	"watchdog/src/internal/transport"

	"github.com/lixenwraith/log"
)

// runtime ties together the agent and the asset cache worker for one run.
type runtime struct {
	agent  *agent.Agent
	worker *assetcache.Worker
	store  assetcache.Store
}

// bootstrap builds the dispatcher, agent, cache store, and worker from
// configuration.
func bootstrap(ctx context.Context, cfg *config.Config) (*runtime, error) {
	formatter, err := format.New("json", logger)
	if err != nil {
		return nil, fmt.Errorf("creating formatter: %w", err)
	}

	dispatcher, err := transport.New(transport.Options{
		Endpoint:  cfg.Telemetry.Endpoint,
		Timeout:   time.Duration(cfg.Telemetry.TimeoutSeconds) * time.Second,
		UseBeacon: cfg.Telemetry.UseBeacon,
	}, formatter, logger)
	if err != nil {
		return nil, fmt.Errorf("creating dispatcher: %w", err)
	}

	a := agent.New(agent.Options{
		FlushInterval: time.Duration(cfg.Telemetry.FlushIntervalMS) * time.Millisecond,
		MaxQueueSize:  cfg.Telemetry.MaxQueueSize,
	}, agent.Capabilities{}, dispatcher, logger)
	a.Init()
	a.SetEnabled(cfg.Telemetry.Enabled)

	store, err := assetcache.NewSQLiteStore(cfg.Cache.Database)
	if err != nil {
		return nil, fmt.Errorf("opening cache store: %w", err)
	}

	fetcher := a.WrapFetcher(fetch.NewClient(time.Duration(cfg.Telemetry.TimeoutSeconds) * time.Second))

	worker, err := assetcache.New(assetcache.Options{
		Generation: cfg.Cache.Generation,
		Prefix:     cfg.Cache.Prefix,
		Assets:     cfg.Cache.Assets,
		Origin:     cfg.Cache.Origin,
	}, store, fetcher, logger)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating cache worker: %w", err)
	}

	return &runtime{agent: a, worker: worker, store: store}, nil
}

// maintainCache runs the install/activate cycle for the configured
// generation and records the outcome as telemetry.
func (rt *runtime) maintainCache(ctx context.Context, skipInstall bool) error {
	if !skipInstall {
		if err := rt.worker.Install(ctx); err != nil {
			rt.agent.TrackError("cache install failed", map[string]any{"error": err.Error()})
			return err
		}
		rt.agent.TrackCustomEvent("cache_install", nil)
	}

	if err := rt.worker.Activate(ctx); err != nil {
		rt.agent.TrackError("cache activate failed", map[string]any{"error": err.Error()})
		return err
	}
	rt.agent.TrackCustomEvent("cache_activate", nil)
	return nil
}

func (rt *runtime) shutdown() {
	rt.agent.Stop()
	rt.store.Close()
}

func initializeLogger(cfg *config.Config) error {
	logger = log.NewLogger()

	levelValue, err := parseLogLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	configArgs := []string{fmt.Sprintf("level=%d", levelValue)}

	switch cfg.Logging.Output {
	case "none":
		configArgs = append(configArgs, "disable_file=true", "enable_stdout=false")

	case "stdout":
		configArgs = append(configArgs,
			"disable_file=true",
			"enable_stdout=true",
			"stdout_target=stdout")

	case "stderr":
		configArgs = append(configArgs,
			"disable_file=true",
			"enable_stdout=true",
			"stdout_target=stderr")

	default:
		return fmt.Errorf("invalid log output mode: %s", cfg.Logging.Output)
	}

	return logger.ApplyConfigString(configArgs...)
}

func parseLogLevel(level string) (int, error) {
	switch strings.ToLower(level) {
	case "debug":
		return int(log.LevelDebug), nil
	case "info":
		return int(log.LevelInfo), nil
	case "warn", "warning":
		return int(log.LevelWarn), nil
	case "error":
		return int(log.LevelError), nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", level)
	}
}
