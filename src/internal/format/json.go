// FILE: src/internal/format/json.go
package format

import (
	"encoding/json"
	"fmt"

	"watchdog/src/internal/core"

	"github.com/lixenwraith/log"
)

// JSONFormatter encodes entries as JSON and batches as the ingest
// endpoint's envelope: an object with a single ordered "logs" array.
type JSONFormatter struct {
	logger *log.Logger
}

type batchEnvelope struct {
	Logs []core.LogEntry `json:"logs"`
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(logger *log.Logger) *JSONFormatter {
	return &JSONFormatter{logger: logger}
}

// Format transforms a single LogEntry into a JSON byte slice.
func (f *JSONFormatter) Format(entry core.LogEntry) ([]byte, error) {
	result, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return result, nil
}

// FormatBatch wraps the entries, in order, into the {"logs": [...]}
// envelope.
func (f *JSONFormatter) FormatBatch(entries []core.LogEntry) ([]byte, error) {
	if entries == nil {
		entries = []core.LogEntry{}
	}
	result, err := json.Marshal(batchEnvelope{Logs: entries})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal batch: %w", err)
	}
	return result, nil
}

// Name returns the formatter's type name.
func (f *JSONFormatter) Name() string {
	return "json"
}
