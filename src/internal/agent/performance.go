// FILE: src/internal/agent/performance.go
package agent

import (
	"fmt"

	"watchdog/src/internal/capability"
	"watchdog/src/internal/core"
)

// installPerformanceHooks subscribes to the host's performance observer,
// when one exists, and to load completion timing.
func (a *Agent) installPerformanceHooks() {
	a.guard("performance_observer", func() error {
		if a.caps.Performance == nil {
			return errNoCapability
		}
		kinds := []capability.PerfKind{capability.PerfLongTask, capability.PerfResource}
		return a.caps.Performance.Observe(kinds, a.handlePerfEntry)
	})

	a.guard("page_load", func() error {
		if a.caps.Lifecycle == nil || a.caps.Timing == nil {
			return errNoCapability
		}
		return a.caps.Lifecycle.OnLoad(a.handlePageLoad)
	})
}

func (a *Agent) handlePerfEntry(entry capability.PerfEntry) {
	switch entry.Kind {
	case capability.PerfLongTask:
		if entry.Duration > core.LongTaskThreshold {
			a.Log(core.EventLongTask, core.Truncate(entry.Name, core.MaxLabelLen), map[string]any{
				"duration_ms": entry.Duration.Milliseconds(),
			})
		}
	case capability.PerfResource:
		if entry.Duration > core.SlowResourceThreshold {
			a.Log(core.EventSlowResource, core.Truncate(entry.Name, core.MaxTargetLen), map[string]any{
				"duration_ms": entry.Duration.Milliseconds(),
			})
		}
	}
}

func (a *Agent) handlePageLoad() {
	load := a.caps.Timing.LoadTime()
	ready := a.caps.Timing.DOMReadyTime()
	data := map[string]any{
		"load_ms":      load.Milliseconds(),
		"dom_ready_ms": ready.Milliseconds(),
	}

	a.Log(core.EventPageLoad, "page load complete", data)

	if load > core.SlowPageLoadThreshold {
		a.Log(core.EventSlowPageLoad, fmt.Sprintf("page load took %dms", load.Milliseconds()), data)
	}
}
