package core

import (
	"errors"
	"sort"
	"time"
)

var (
	ErrEmptySessionID = errors.New("log entry requires a session id")
	ErrEmptyEventType = errors.New("log entry requires an event type")
)

// LogEntry is one captured telemetry record. Entries are immutable once
// created; NewEntry copies the data map so later caller mutation cannot
// leak into a queued entry.
type LogEntry struct {
	// Timestamp is the capture time in Unix milliseconds.
	Timestamp int64          `json:"timestamp"`
	SessionID string         `json:"sessionId"`
	EventType EventType      `json:"eventType"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data"`
	URL       string         `json:"url"`
}

// NewEntry builds a LogEntry captured at the given time. The message is
// truncated to MaxMessageLen and the data map is bounded the same way the
// ingest endpoint bounds it, so nothing is silently rewritten server-side.
// A nil data map becomes an empty one.
func NewEntry(at time.Time, sessionID string, eventType EventType, message string, data map[string]any, url string) (LogEntry, error) {
	if sessionID == "" {
		return LogEntry{}, ErrEmptySessionID
	}
	if eventType == "" {
		return LogEntry{}, ErrEmptyEventType
	}

	return LogEntry{
		Timestamp: at.UnixMilli(),
		SessionID: sessionID,
		EventType: eventType,
		Message:   Truncate(message, MaxMessageLen),
		Data:      sanitizeData(data),
		URL:       url,
	}, nil
}

// sanitizeData copies data, keeping at most MaxDataKeys entries (smallest
// keys first, for determinism) and truncating string values.
func sanitizeData(data map[string]any) map[string]any {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	if len(keys) > MaxDataKeys {
		sort.Strings(keys)
		keys = keys[:MaxDataKeys]
	}

	copied := make(map[string]any, len(keys))
	for _, k := range keys {
		v := data[k]
		if s, ok := v.(string); ok {
			v = Truncate(s, MaxDataValueLen)
		}
		copied[k] = v
	}
	return copied
}

// Truncate bounds a string sourced from unconstrained content.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max]
}
