// FILE: src/internal/agent/console.go
package agent

import (
	"fmt"
	"strings"

	"watchdog/src/internal/capability"
	"watchdog/src/internal/core"
)

// WrapConsole returns a console that records error and warning calls as
// telemetry, then forwards every call to orig unchanged. Developer-visible
// output is never lost or duplicated.
func (a *Agent) WrapConsole(orig capability.Console) capability.Console {
	return &wrappedConsole{agent: a, orig: orig}
}

type wrappedConsole struct {
	agent *Agent
	orig  capability.Console
}

func (c *wrappedConsole) Error(args ...any) {
	c.agent.Log(core.EventConsoleError, consoleMessage(args), nil)
	c.orig.Error(args...)
}

func (c *wrappedConsole) Warn(args ...any) {
	c.agent.Log(core.EventConsoleWarn, consoleMessage(args), nil)
	c.orig.Warn(args...)
}

// consoleMessage joins console arguments into one bounded string.
// Best-effort coercion: anything unprintable becomes its fmt rendering.
func consoleMessage(args []any) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, fmt.Sprint(arg))
	}
	return core.Truncate(strings.Join(parts, " "), core.MaxMessageLen)
}
