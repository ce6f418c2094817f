// FILE: src/internal/transport/transport.go
package transport

import (
	"fmt"
	"strings"
	"time"

	"watchdog/src/internal/core"
	"watchdog/src/internal/format"

	"github.com/lixenwraith/log"
)

// Dispatcher delivers one encoded batch of log entries to the ingest
// endpoint. Delivery is fire-and-forget: Dispatch returns before any
// network step begins, every failure is swallowed, and there is no retry.
// Telemetry is lossy by design; a dispatcher must never push an error or
// delay back onto the caller.
type Dispatcher interface {
	Dispatch(entries []core.LogEntry)

	// Stats returns delivery counters.
	Stats() Stats

	// Stop releases dispatcher resources. Beacon-style dispatchers leave
	// in-flight sends to finish on their own.
	Stop()
}

// Stats contains delivery counters. FailedBatches is observational only;
// nothing reacts to it.
type Stats struct {
	TotalBatches  uint64
	FailedBatches uint64
	TotalEntries  uint64
}

// Options configures a dispatcher.
type Options struct {
	// Endpoint is the full URL of the ingest endpoint.
	Endpoint string

	// Timeout bounds a single send. Zero means 10 seconds.
	Timeout time.Duration

	// UseBeacon selects the fire-and-forget beacon path. When false the
	// keepalive fallback is used.
	UseBeacon bool
}

// New creates a dispatcher: the beacon path when requested, otherwise the
// keepalive fallback.
func New(opts Options, formatter format.Formatter, logger *log.Logger) (Dispatcher, error) {
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("dispatcher requires an endpoint")
	}
	if !strings.HasPrefix(opts.Endpoint, "http://") && !strings.HasPrefix(opts.Endpoint, "https://") {
		return nil, fmt.Errorf("endpoint must be an absolute http(s) URL: %s", opts.Endpoint)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	if opts.UseBeacon {
		return NewBeaconDispatcher(opts, formatter, logger), nil
	}
	return NewKeepaliveDispatcher(opts, formatter, logger), nil
}
