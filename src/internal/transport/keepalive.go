// FILE: src/internal/transport/keepalive.go
package transport

import (
	"sync"
	"sync/atomic"
	"time"

	"watchdog/src/internal/core"
	"watchdog/src/internal/format"
	"watchdog/src/internal/version"

	"github.com/lixenwraith/log"
	"github.com/valyala/fasthttp"
)

// KeepaliveDispatcher is the fallback delivery path: an asynchronous POST
// over a long-lived connection that is allowed to outlast the caller's
// flush. Unlike the beacon path it tracks in-flight sends so Stop can
// drain them, mirroring the "keep the connection alive past unload"
// semantics of the fallback transport.
type KeepaliveDispatcher struct {
	// Configuration
	endpoint string
	timeout  time.Duration

	// Network
	client *fasthttp.Client

	// Application
	formatter format.Formatter
	logger    *log.Logger

	// Runtime
	wg sync.WaitGroup

	// Statistics
	totalBatches  atomic.Uint64
	failedBatches atomic.Uint64
	totalEntries  atomic.Uint64
}

// NewKeepaliveDispatcher creates a keepalive dispatcher.
func NewKeepaliveDispatcher(opts Options, formatter format.Formatter, logger *log.Logger) *KeepaliveDispatcher {
	return &KeepaliveDispatcher{
		endpoint:  opts.Endpoint,
		timeout:   opts.Timeout,
		formatter: formatter,
		logger:    logger,
		client: &fasthttp.Client{
			MaxConnsPerHost:     4,
			MaxIdleConnDuration: 30 * time.Second,
			ReadTimeout:         opts.Timeout,
			WriteTimeout:        opts.Timeout,
		},
	}
}

// Dispatch encodes the batch and sends it asynchronously. The caller never
// waits on the network step.
func (k *KeepaliveDispatcher) Dispatch(entries []core.LogEntry) {
	if len(entries) == 0 {
		return
	}

	body, err := k.formatter.FormatBatch(entries)
	if err != nil {
		k.failedBatches.Add(1)
		k.logger.Debug("msg", "Failed to encode batch",
			"component", "keepalive_dispatcher",
			"error", err,
			"batch_size", len(entries))
		return
	}

	k.totalBatches.Add(1)
	k.totalEntries.Add(uint64(len(entries)))

	k.wg.Add(1)
	go func() {
		defer k.wg.Done()
		k.send(body, len(entries))
	}()
}

func (k *KeepaliveDispatcher) send(body []byte, count int) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()

	req.SetRequestURI(k.endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("User-Agent", "Watchdog/"+version.Short())
	req.SetBody(body)

	err := k.client.DoTimeout(req, resp, k.timeout)
	statusCode := resp.StatusCode()

	fasthttp.ReleaseRequest(req)
	fasthttp.ReleaseResponse(resp)

	if err != nil || statusCode < 200 || statusCode >= 300 {
		k.failedBatches.Add(1)
		k.logger.Debug("msg", "Batch dropped",
			"component", "keepalive_dispatcher",
			"batch_size", count,
			"status_code", statusCode,
			"error", err)
		return
	}

	k.logger.Debug("msg", "Batch sent",
		"component", "keepalive_dispatcher",
		"batch_size", count,
		"status_code", statusCode)
}

// Stats returns delivery counters.
func (k *KeepaliveDispatcher) Stats() Stats {
	return Stats{
		TotalBatches:  k.totalBatches.Load(),
		FailedBatches: k.failedBatches.Load(),
		TotalEntries:  k.totalEntries.Load(),
	}
}

// Stop waits for in-flight sends to complete.
func (k *KeepaliveDispatcher) Stop() {
	k.wg.Wait()
}
