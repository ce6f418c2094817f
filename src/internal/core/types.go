package core

// EventType tags a LogEntry with the channel that produced it. The set is
// fixed; the ingest endpoint rejects anything else.
type EventType string

const (
	EventClientInit       EventType = "CLIENT_INIT"
	EventJSError          EventType = "JS_ERROR"
	EventPromiseRejection EventType = "PROMISE_REJECTION"
	EventConsoleError     EventType = "CONSOLE_ERROR"
	EventConsoleWarn      EventType = "CONSOLE_WARN"
	EventUserClick        EventType = "USER_CLICK"
	EventFormSubmit       EventType = "FORM_SUBMIT"
	EventNavigation       EventType = "NAVIGATION"
	EventLongTask         EventType = "LONG_TASK"
	EventSlowResource     EventType = "SLOW_RESOURCE"
	EventPageLoad         EventType = "PAGE_LOAD"
	EventSlowPageLoad     EventType = "SLOW_PAGE_LOAD"
	EventSlowFetch        EventType = "SLOW_FETCH"
	EventFetchError       EventType = "FETCH_ERROR"
	EventNetworkError     EventType = "NETWORK_ERROR"
	EventPageUnload       EventType = "PAGE_UNLOAD"
	EventCustom           EventType = "CUSTOM_EVENT"
	EventManualError      EventType = "MANUAL_ERROR"
)

var eventTypes = map[EventType]struct{}{
	EventClientInit:       {},
	EventJSError:          {},
	EventPromiseRejection: {},
	EventConsoleError:     {},
	EventConsoleWarn:      {},
	EventUserClick:        {},
	EventFormSubmit:       {},
	EventNavigation:       {},
	EventLongTask:         {},
	EventSlowResource:     {},
	EventPageLoad:         {},
	EventSlowPageLoad:     {},
	EventSlowFetch:        {},
	EventFetchError:       {},
	EventNetworkError:     {},
	EventPageUnload:       {},
	EventCustom:           {},
	EventManualError:      {},
}

// Valid reports whether t belongs to the fixed event type set.
func (t EventType) Valid() bool {
	_, ok := eventTypes[t]
	return ok
}
