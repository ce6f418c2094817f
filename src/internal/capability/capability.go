// Package capability declares the host-runtime surfaces the watchdog agent
// instruments. Each surface is handed to the agent as an explicit value:
// subscription-shaped interfaces for channels the host emits on its own
// (errors, interactions, lifecycle), plain interfaces for capabilities the
// agent wraps and hands back (console, history, fetch). A nil capability or
// a registration error means the surface is absent; the agent skips that
// channel and keeps the rest.
package capability

import "time"

// ErrorEvent describes an uncaught synchronous error in the host runtime.
type ErrorEvent struct {
	Message string
	Source  string
	Line    int
	Column  int
	Stack   string
}

// RejectionEvent describes an unhandled asynchronous rejection. Reason is a
// best-effort string rendering; Stack may be empty.
type RejectionEvent struct {
	Reason string
	Stack  string
}

// ErrorEvents delivers uncaught error and rejection notifications.
// Registered callbacks must not suppress the host's own default reporting.
type ErrorEvents interface {
	OnError(func(ErrorEvent)) error
	OnRejection(func(RejectionEvent)) error
}

// Console is the host console the agent wraps.
type Console interface {
	Error(args ...any)
	Warn(args ...any)
}

// Element identifies the target of a user interaction.
type Element struct {
	Tag    string
	ID     string
	Name   string
	Action string // explicit action marker, when the host tags the element
	Text   string
	Class  string
}

// ClickEvent is one click notification. Container is the nearest
// button-like ancestor when the target itself is not interactive, nil
// otherwise.
type ClickEvent struct {
	Target    Element
	Container *Element
}

// SubmitEvent is one form submission notification.
type SubmitEvent struct {
	FormID   string
	FormName string
	Action   string
	Method   string
}

// InteractionEvents delivers user-interaction notifications. Callbacks are
// passive observers; they run after the host's own handling and cannot
// alter it.
type InteractionEvents interface {
	OnClick(func(ClickEvent)) error
	OnSubmit(func(SubmitEvent)) error
}

// History is the host navigation history. Push performs a programmatic
// navigation to a new path; OnPop delivers back/forward navigations.
type History interface {
	Push(path string)
	OnPop(func(path string)) error
}

// PerfKind selects a class of performance measurement.
type PerfKind string

const (
	PerfLongTask PerfKind = "longtask"
	PerfResource PerfKind = "resource"
)

// PerfEntry is one observed performance measurement.
type PerfEntry struct {
	Kind     PerfKind
	Name     string
	Duration time.Duration
}

// PerformanceObserver delivers performance measurements of the requested
// kinds. Hosts without performance observation return an error from
// Observe.
type PerformanceObserver interface {
	Observe(kinds []PerfKind, fn func(PerfEntry)) error
}

// PageTiming reports page load milestones. Values are valid once Lifecycle
// has fired its load callback.
type PageTiming interface {
	LoadTime() time.Duration
	DOMReadyTime() time.Duration
}

// Lifecycle delivers page lifecycle transitions.
type Lifecycle interface {
	// OnReady runs fn once the document is ready to be instrumented.
	// When it already is, fn runs immediately.
	OnReady(fn func()) error
	OnLoad(fn func()) error
	OnBeforeUnload(fn func()) error
	OnHidden(fn func()) error
}

// Location reports the path component of the current page location.
type Location interface {
	Path() string
}
