// FILE: src/internal/transport/beacon.go
package transport

import (
	"sync/atomic"
	"time"

	"watchdog/src/internal/core"
	"watchdog/src/internal/format"
	"watchdog/src/internal/version"

	"github.com/lixenwraith/log"
	"github.com/valyala/fasthttp"
)

// BeaconDispatcher is the preferred delivery path: each batch is encoded
// synchronously, then posted from a detached goroutine with a short
// timeout. The outcome is discarded. Stop does not wait for in-flight
// sends, so a batch handed off during teardown still gets its chance to
// leave.
type BeaconDispatcher struct {
	// Configuration
	endpoint string
	timeout  time.Duration

	// Network
	client *fasthttp.Client

	// Application
	formatter format.Formatter
	logger    *log.Logger

	// Statistics
	totalBatches  atomic.Uint64
	failedBatches atomic.Uint64
	totalEntries  atomic.Uint64
}

// NewBeaconDispatcher creates a beacon dispatcher.
func NewBeaconDispatcher(opts Options, formatter format.Formatter, logger *log.Logger) *BeaconDispatcher {
	return &BeaconDispatcher{
		endpoint:  opts.Endpoint,
		timeout:   opts.Timeout,
		formatter: formatter,
		logger:    logger,
		client: &fasthttp.Client{
			MaxConnsPerHost: 4,
			ReadTimeout:     opts.Timeout,
			WriteTimeout:    opts.Timeout,
		},
	}
}

// Dispatch encodes the batch and hands it to a detached sender. Encoding
// happens before returning so the caller's entries are fully captured; the
// network step never blocks the caller.
func (b *BeaconDispatcher) Dispatch(entries []core.LogEntry) {
	if len(entries) == 0 {
		return
	}

	body, err := b.formatter.FormatBatch(entries)
	if err != nil {
		b.failedBatches.Add(1)
		b.logger.Debug("msg", "Failed to encode batch",
			"component", "beacon_dispatcher",
			"error", err,
			"batch_size", len(entries))
		return
	}

	b.totalBatches.Add(1)
	b.totalEntries.Add(uint64(len(entries)))

	go b.send(body, len(entries))
}

func (b *BeaconDispatcher) send(body []byte, count int) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()

	req.SetRequestURI(b.endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("User-Agent", "Watchdog/"+version.Short())
	req.SetBody(body)

	err := b.client.DoTimeout(req, resp, b.timeout)
	statusCode := resp.StatusCode()

	fasthttp.ReleaseRequest(req)
	fasthttp.ReleaseResponse(resp)

	// Lossy by design: failures are counted and forgotten
	if err != nil || statusCode < 200 || statusCode >= 300 {
		b.failedBatches.Add(1)
		b.logger.Debug("msg", "Batch dropped",
			"component", "beacon_dispatcher",
			"batch_size", count,
			"status_code", statusCode,
			"error", err)
		return
	}

	b.logger.Debug("msg", "Batch sent",
		"component", "beacon_dispatcher",
		"batch_size", count,
		"status_code", statusCode)
}

// Stats returns delivery counters.
func (b *BeaconDispatcher) Stats() Stats {
	return Stats{
		TotalBatches:  b.totalBatches.Load(),
		FailedBatches: b.failedBatches.Load(),
		TotalEntries:  b.totalEntries.Load(),
	}
}

// Stop is a no-op; detached sends finish or time out on their own.
func (b *BeaconDispatcher) Stop() {}
