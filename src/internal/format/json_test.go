// FILE: src/internal/format/json_test.go
package format

import (
	"encoding/json"
	"testing"
	"time"

	"watchdog/src/internal/core"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntry(t *testing.T, eventType core.EventType, message string) core.LogEntry {
	t.Helper()
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entry, err := core.NewEntry(at, "sess-1", eventType, message, map[string]any{"k": "v"}, "/hotels")
	require.NoError(t, err)
	return entry
}

func TestJSONFormat(t *testing.T) {
	f := NewJSONFormatter(log.NewLogger())

	out, err := f.Format(testEntry(t, core.EventJSError, "boom"))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "sess-1", decoded["sessionId"])
	assert.Equal(t, "JS_ERROR", decoded["eventType"])
	assert.Equal(t, "boom", decoded["message"])
	assert.Equal(t, "/hotels", decoded["url"])
	assert.EqualValues(t, 1748779200000, decoded["timestamp"])
}

func TestJSONFormatBatch(t *testing.T) {
	f := NewJSONFormatter(log.NewLogger())

	t.Run("EnvelopePreservesOrder", func(t *testing.T) {
		batch := []core.LogEntry{
			testEntry(t, core.EventUserClick, "first"),
			testEntry(t, core.EventUserClick, "second"),
			testEntry(t, core.EventUserClick, "third"),
		}
		out, err := f.FormatBatch(batch)
		require.NoError(t, err)

		var decoded struct {
			Logs []core.LogEntry `json:"logs"`
		}
		require.NoError(t, json.Unmarshal(out, &decoded))
		require.Len(t, decoded.Logs, 3)
		assert.Equal(t, "first", decoded.Logs[0].Message)
		assert.Equal(t, "second", decoded.Logs[1].Message)
		assert.Equal(t, "third", decoded.Logs[2].Message)
	})

	t.Run("NilBatchEncodesEmptyArray", func(t *testing.T) {
		out, err := f.FormatBatch(nil)
		require.NoError(t, err)
		assert.JSONEq(t, `{"logs":[]}`, string(out))
	})
}

func TestNew(t *testing.T) {
	logger := log.NewLogger()

	t.Run("DefaultsToJSON", func(t *testing.T) {
		f, err := New("", logger)
		require.NoError(t, err)
		assert.Equal(t, "json", f.Name())
	})

	t.Run("UnknownName", func(t *testing.T) {
		_, err := New("xml", logger)
		assert.Error(t, err)
	})
}
