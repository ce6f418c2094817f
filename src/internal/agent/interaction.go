// FILE: src/internal/agent/interaction.go
package agent

import (
	"strings"

	"watchdog/src/internal/capability"
	"watchdog/src/internal/core"
)

// installInteractionHooks subscribes to clicks, form submissions, and
// back/forward navigation. All listeners are passive.
func (a *Agent) installInteractionHooks() {
	a.guard("user_click", func() error {
		if a.caps.Interactions == nil {
			return errNoCapability
		}
		return a.caps.Interactions.OnClick(a.handleClick)
	})

	a.guard("form_submit", func() error {
		if a.caps.Interactions == nil {
			return errNoCapability
		}
		return a.caps.Interactions.OnSubmit(a.handleSubmit)
	})

	a.guard("navigation", func() error {
		if a.caps.History == nil {
			return errNoCapability
		}
		return a.caps.History.OnPop(func(path string) {
			a.Log(core.EventNavigation, path, map[string]any{"kind": "pop"})
		})
	})
}

// WrapHistory returns a history that records programmatic navigations
// before delegating to orig.
func (a *Agent) WrapHistory(orig capability.History) capability.History {
	return &wrappedHistory{agent: a, orig: orig}
}

type wrappedHistory struct {
	agent *Agent
	orig  capability.History
}

func (h *wrappedHistory) Push(path string) {
	h.agent.Log(core.EventNavigation, path, map[string]any{"kind": "push"})
	h.orig.Push(path)
}

func (h *wrappedHistory) OnPop(fn func(path string)) error {
	return h.orig.OnPop(fn)
}

func (a *Agent) handleClick(ev capability.ClickEvent) {
	target, ok := interactiveTarget(ev)
	if !ok {
		return
	}
	a.Log(core.EventUserClick, clickLabel(target), map[string]any{
		"tag":   strings.ToLower(target.Tag),
		"id":    target.ID,
		"class": core.Truncate(target.Class, core.MaxLabelLen),
	})
}

func (a *Agent) handleSubmit(ev capability.SubmitEvent) {
	label := ev.FormID
	if label == "" {
		label = ev.FormName
	}
	if label == "" {
		label = "form"
	}
	a.Log(core.EventFormSubmit, core.Truncate(label, core.MaxLabelLen), map[string]any{
		"action": core.Truncate(ev.Action, core.MaxTargetLen),
		"method": strings.ToUpper(ev.Method),
	})
}

// interactiveTarget returns the element a click is attributed to: the
// target itself when it is interactive, otherwise the nearest button-like
// container. Clicks on anything else are not recorded.
func interactiveTarget(ev capability.ClickEvent) (capability.Element, bool) {
	if isInteractive(ev.Target) {
		return ev.Target, true
	}
	if ev.Container != nil && isButtonLike(*ev.Container) {
		return *ev.Container, true
	}
	return capability.Element{}, false
}

func isInteractive(el capability.Element) bool {
	switch strings.ToLower(el.Tag) {
	case "button", "a", "input", "select", "textarea":
		return true
	}
	return el.Action != ""
}

func isButtonLike(el capability.Element) bool {
	switch strings.ToLower(el.Tag) {
	case "button", "a":
		return true
	}
	return el.Action != ""
}

// clickLabel picks the most descriptive identity available, in priority
// order: explicit action marker, name attribute, id, trimmed text content.
func clickLabel(el capability.Element) string {
	switch {
	case el.Action != "":
		return core.Truncate(el.Action, core.MaxLabelLen)
	case el.Name != "":
		return core.Truncate(el.Name, core.MaxLabelLen)
	case el.ID != "":
		return core.Truncate(el.ID, core.MaxLabelLen)
	}
	return core.Truncate(strings.TrimSpace(el.Text), core.MaxLabelLen)
}
