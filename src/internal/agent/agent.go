// FILE: src/internal/agent/agent.go

// Package agent implements the watchdog telemetry agent: it captures
// diagnostic and behavioral signals from an instrumented host runtime,
// batches them in a bounded FIFO queue, and hands full or timed-out
// batches to a fire-and-forget dispatcher. Capture must never perturb the
// host: no interceptor blocks, throws back, or alters default behavior.
package agent

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"watchdog/src/internal/capability"
	"watchdog/src/internal/core"
	"watchdog/src/internal/session"
	"watchdog/src/internal/transport"

	"github.com/lixenwraith/log"
)

var errNoCapability = errors.New("capability not present")

// Capabilities are the host surfaces the agent subscribes to. Any field
// may be nil; the matching channel is then simply not captured. Console,
// history, and fetch are wrapped instead (WrapConsole, WrapHistory,
// WrapFetcher) and do not appear here.
type Capabilities struct {
	Location     capability.Location
	Errors       capability.ErrorEvents
	Interactions capability.InteractionEvents
	History      capability.History
	Performance  capability.PerformanceObserver
	Timing       capability.PageTiming
	Lifecycle    capability.Lifecycle
}

// Options configures an agent. Zero values fall back to the core
// constants.
type Options struct {
	FlushInterval time.Duration
	MaxQueueSize  int
}

// Agent is the telemetry agent. One instance per host context; create
// with New, then Init exactly once.
type Agent struct {
	// Configuration
	opts Options
	caps Capabilities

	// Application
	dispatcher transport.Dispatcher
	sessions   *session.Manager
	logger     *log.Logger

	// Identity
	sessionID string

	// Queue; mutations are synchronous under queueMu so a flush detaches
	// its entries before any asynchronous step begins
	queueMu sync.Mutex
	queue   []core.LogEntry

	// Runtime
	enabled     atomic.Bool
	initialized atomic.Bool
	stopOnce    sync.Once
	done        chan struct{}
	wg          sync.WaitGroup
	startTime   time.Time

	now func() time.Time

	// Statistics
	totalEntries   atomic.Uint64
	droppedEntries atomic.Uint64
	flushedEntries atomic.Uint64
	totalFlushes   atomic.Uint64
}

// Stats contains agent counters.
type Stats struct {
	SessionID      string
	Enabled        bool
	QueueDepth     int
	TotalEntries   uint64
	DroppedEntries uint64
	FlushedEntries uint64
	TotalFlushes   uint64
	StartTime      time.Time
	Dispatch       transport.Stats
}

// New creates an agent in the uninitialized state.
func New(opts Options, caps Capabilities, dispatcher transport.Dispatcher, logger *log.Logger) *Agent {
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = core.FlushInterval
	}
	if opts.MaxQueueSize <= 0 {
		opts.MaxQueueSize = core.MaxQueueSize
	}

	a := &Agent{
		opts:       opts,
		caps:       caps,
		dispatcher: dispatcher,
		sessions:   session.NewManager(),
		logger:     logger,
		done:       make(chan struct{}),
		startTime:  time.Now(),
		now:        time.Now,
	}
	a.enabled.Store(true)
	return a
}

// Init generates the session, installs every interception point, starts
// the periodic flush loop, and emits the CLIENT_INIT entry. Interceptor
// installation is deferred until the lifecycle reports ready. Calling Init
// again has no effect. Init has no failure path: a broken capability
// disables only its own channel.
func (a *Agent) Init() {
	if !a.initialized.CompareAndSwap(false, true) {
		return
	}

	sess := a.sessions.CreateSession(map[string]any{"page": a.path()})
	a.sessionID = sess.ID

	install := func() {
		a.installErrorHooks()
		a.installInteractionHooks()
		a.installPerformanceHooks()
		a.Log(core.EventClientInit, "watchdog client initialized", map[string]any{
			"flush_interval_ms": a.opts.FlushInterval.Milliseconds(),
			"max_queue_size":    a.opts.MaxQueueSize,
		})
	}

	// Lifecycle flush hooks do not touch the document and install right away
	a.installLifecycleHooks()

	// Interceptors wait for document readiness when the lifecycle can
	// report it; otherwise they install immediately.
	deferred := false
	if a.caps.Lifecycle != nil {
		if err := a.caps.Lifecycle.OnReady(install); err == nil {
			deferred = true
		} else {
			a.logger.Debug("msg", "Ready deferral unavailable",
				"component", "agent",
				"error", err)
		}
	}
	if !deferred {
		install()
	}

	a.wg.Add(1)
	go a.flushLoop()

	a.logger.Info("msg", "Watchdog agent started",
		"component", "agent",
		"session_id", a.sessionID,
		"flush_interval_ms", a.opts.FlushInterval.Milliseconds(),
		"max_queue_size", a.opts.MaxQueueSize)
}

// Log appends one entry to the queue. It never blocks and never returns an
// error; a malformed capture is counted and discarded. Reaching the queue
// capacity triggers an eager flush of exactly that batch.
func (a *Agent) Log(eventType core.EventType, message string, data map[string]any) {
	if !a.enabled.Load() {
		return
	}

	entry, err := core.NewEntry(a.now(), a.sessionID, eventType, message, data, a.path())
	if err != nil {
		a.droppedEntries.Add(1)
		return
	}
	a.totalEntries.Add(1)

	a.queueMu.Lock()
	a.queue = append(a.queue, entry)
	if len(a.queue) >= a.opts.MaxQueueSize {
		batch := a.detachLocked()
		a.queueMu.Unlock()
		a.dispatch(batch)
		return
	}
	a.queueMu.Unlock()
}

// TrackCustomEvent records a named collaborator event.
func (a *Agent) TrackCustomEvent(name string, data map[string]any) {
	a.Log(core.EventCustom, name, data)
}

// TrackError records an error reported explicitly by collaborator code.
func (a *Agent) TrackError(message string, context map[string]any) {
	a.Log(core.EventManualError, message, context)
}

// Flush detaches up to MaxQueueSize entries from the head of the queue and
// hands them to the dispatcher as one batch. The detach happens under the
// queue lock, before any asynchronous step, so a concurrent Log can never
// duplicate or lose entries. An empty queue is a no-op.
func (a *Agent) Flush() {
	a.queueMu.Lock()
	batch := a.detachLocked()
	a.queueMu.Unlock()
	a.dispatch(batch)
}

// Stop emits the synthetic PAGE_UNLOAD entry, flushes whatever is queued,
// and stops the flush loop. Idempotent.
func (a *Agent) Stop() {
	if !a.initialized.Load() {
		return
	}
	a.stopOnce.Do(func() {
		close(a.done)
		a.wg.Wait()

		a.Log(core.EventPageUnload, "page unload", nil)
		a.Flush()
		a.dispatcher.Stop()

		a.logger.Info("msg", "Watchdog agent stopped",
			"component", "agent",
			"session_id", a.sessionID,
			"total_entries", a.totalEntries.Load(),
			"flushed_entries", a.flushedEntries.Load())
	})
}

// SetEnabled toggles capture. Disabled, the agent drops new entries but
// keeps flushing what was already queued.
func (a *Agent) SetEnabled(enabled bool) {
	a.enabled.Store(enabled)
}

// Enabled reports whether capture is on.
func (a *Agent) Enabled() bool {
	return a.enabled.Load()
}

// SessionID returns the session identifier generated by Init. Empty before
// Init.
func (a *Agent) SessionID() string {
	return a.sessionID
}

// GetStats returns the agent's statistics.
func (a *Agent) GetStats() Stats {
	a.queueMu.Lock()
	depth := len(a.queue)
	a.queueMu.Unlock()

	return Stats{
		SessionID:      a.sessionID,
		Enabled:        a.enabled.Load(),
		QueueDepth:     depth,
		TotalEntries:   a.totalEntries.Load(),
		DroppedEntries: a.droppedEntries.Load(),
		FlushedEntries: a.flushedEntries.Load(),
		TotalFlushes:   a.totalFlushes.Load(),
		StartTime:      a.startTime,
		Dispatch:       a.dispatcher.Stats(),
	}
}

// detachLocked removes up to MaxQueueSize entries from the head of the
// queue. Caller holds queueMu.
func (a *Agent) detachLocked() []core.LogEntry {
	if len(a.queue) == 0 {
		return nil
	}
	n := len(a.queue)
	if n > a.opts.MaxQueueSize {
		n = a.opts.MaxQueueSize
	}
	batch := a.queue[:n:n]
	a.queue = append([]core.LogEntry(nil), a.queue[n:]...)
	return batch
}

func (a *Agent) dispatch(batch []core.LogEntry) {
	if len(batch) == 0 {
		return
	}
	a.totalFlushes.Add(1)
	a.flushedEntries.Add(uint64(len(batch)))
	a.dispatcher.Dispatch(batch)
}

// flushLoop periodically flushes the queue.
func (a *Agent) flushLoop() {
	defer a.wg.Done()

	ticker := time.NewTicker(a.opts.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.Flush()
		case <-a.done:
			return
		}
	}
}

// installLifecycleHooks forces a flush on the teardown-adjacent lifecycle
// transitions. Best-effort: an abrupt kill fires neither, and that loss is
// accepted.
func (a *Agent) installLifecycleHooks() {
	if a.caps.Lifecycle == nil {
		return
	}
	a.guard("before_unload", func() error {
		return a.caps.Lifecycle.OnBeforeUnload(func() {
			a.Log(core.EventPageUnload, "page unload", nil)
			a.Flush()
		})
	})
	a.guard("hidden", func() error {
		return a.caps.Lifecycle.OnHidden(func() {
			a.Flush()
		})
	})
}

// guard runs one interceptor installer and contains any failure, so one
// absent or broken capability never disables the others.
func (a *Agent) guard(name string, install func() error) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Debug("msg", "Interceptor installation panicked",
				"component", "agent",
				"interceptor", name,
				"panic", fmt.Sprint(r))
		}
	}()

	if err := install(); err != nil {
		a.logger.Debug("msg", "Interceptor unavailable",
			"component", "agent",
			"interceptor", name,
			"error", err)
	}
}

func (a *Agent) path() string {
	if a.caps.Location == nil {
		return ""
	}
	return a.caps.Location.Path()
}
