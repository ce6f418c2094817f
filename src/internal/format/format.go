// FILE: src/internal/format/format.go
package format

import (
	"fmt"

	"watchdog/src/internal/core"

	"github.com/lixenwraith/log"
)

// Formatter transforms log entries into wire bytes.
type Formatter interface {
	// Format encodes a single entry.
	Format(entry core.LogEntry) ([]byte, error)

	// FormatBatch encodes an ordered batch into the ingest payload,
	// preserving input order.
	FormatBatch(entries []core.LogEntry) ([]byte, error)

	// Name returns the formatter type name
	Name() string
}

// New creates a new Formatter based on the provided name.
func New(name string, logger *log.Logger) (Formatter, error) {
	// Default to json if no format specified
	if name == "" {
		name = "json"
	}

	switch name {
	case "json":
		return NewJSONFormatter(logger), nil
	default:
		return nil, fmt.Errorf("unknown formatter type: %s", name)
	}
}
