// FILE: src/internal/agent/errors.go
package agent

import (
	"watchdog/src/internal/capability"
	"watchdog/src/internal/core"
)

// installErrorHooks subscribes to the host's uncaught-error and
// unhandled-rejection channels. The callbacks only observe; default error
// reporting in the host is untouched.
func (a *Agent) installErrorHooks() {
	a.guard("js_error", func() error {
		if a.caps.Errors == nil {
			return errNoCapability
		}
		return a.caps.Errors.OnError(func(ev capability.ErrorEvent) {
			a.Log(core.EventJSError, ev.Message, map[string]any{
				"source": core.Truncate(ev.Source, core.MaxTargetLen),
				"line":   ev.Line,
				"column": ev.Column,
				"stack":  core.Truncate(ev.Stack, core.MaxMessageLen),
			})
		})
	})

	a.guard("promise_rejection", func() error {
		if a.caps.Errors == nil {
			return errNoCapability
		}
		return a.caps.Errors.OnRejection(func(ev capability.RejectionEvent) {
			reason := ev.Reason
			if reason == "" {
				reason = "unhandled rejection"
			}
			a.Log(core.EventPromiseRejection, reason, map[string]any{
				"stack": core.Truncate(ev.Stack, core.MaxMessageLen),
			})
		})
	})
}
