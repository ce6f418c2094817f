// FILE: src/internal/transport/transport_test.go
package transport

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"watchdog/src/internal/core"
	"watchdog/src/internal/format"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ingestServer records every request body the dispatcher delivers.
type ingestServer struct {
	*httptest.Server

	mu     sync.Mutex
	bodies [][]byte
	status int
}

func newIngestServer(t *testing.T, status int) *ingestServer {
	t.Helper()
	s := &ingestServer{status: status}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		s.mu.Lock()
		s.bodies = append(s.bodies, body)
		s.mu.Unlock()
		w.WriteHeader(s.status)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *ingestServer) received() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.bodies))
	copy(out, s.bodies)
	return out
}

func testBatch(t *testing.T, n int) []core.LogEntry {
	t.Helper()
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	batch := make([]core.LogEntry, 0, n)
	for i := 0; i < n; i++ {
		entry, err := core.NewEntry(at, "sess-1", core.EventCustom, "event", nil, "/")
		require.NoError(t, err)
		batch = append(batch, entry)
	}
	return batch
}

func newTestFormatter(t *testing.T) format.Formatter {
	t.Helper()
	f, err := format.New("json", log.NewLogger())
	require.NoError(t, err)
	return f
}

func TestNew(t *testing.T) {
	formatter := newTestFormatter(t)
	logger := log.NewLogger()

	t.Run("RequiresEndpoint", func(t *testing.T) {
		_, err := New(Options{}, formatter, logger)
		assert.Error(t, err)
	})

	t.Run("RejectsRelativeEndpoint", func(t *testing.T) {
		_, err := New(Options{Endpoint: "/api/watchdog/log"}, formatter, logger)
		assert.Error(t, err)
	})

	t.Run("SelectsBeacon", func(t *testing.T) {
		d, err := New(Options{Endpoint: "http://localhost:9", UseBeacon: true}, formatter, logger)
		require.NoError(t, err)
		assert.IsType(t, &BeaconDispatcher{}, d)
	})

	t.Run("SelectsKeepaliveFallback", func(t *testing.T) {
		d, err := New(Options{Endpoint: "http://localhost:9"}, formatter, logger)
		require.NoError(t, err)
		assert.IsType(t, &KeepaliveDispatcher{}, d)
	})
}

func TestKeepaliveDispatch(t *testing.T) {
	t.Run("DeliversEnvelope", func(t *testing.T) {
		server := newIngestServer(t, http.StatusOK)
		d := NewKeepaliveDispatcher(Options{Endpoint: server.URL, Timeout: 5 * time.Second},
			newTestFormatter(t), log.NewLogger())

		d.Dispatch(testBatch(t, 3))
		d.Stop()

		bodies := server.received()
		require.Len(t, bodies, 1)

		var decoded struct {
			Logs []core.LogEntry `json:"logs"`
		}
		require.NoError(t, json.Unmarshal(bodies[0], &decoded))
		assert.Len(t, decoded.Logs, 3)

		stats := d.Stats()
		assert.Equal(t, uint64(1), stats.TotalBatches)
		assert.Equal(t, uint64(3), stats.TotalEntries)
		assert.Equal(t, uint64(0), stats.FailedBatches)
	})

	t.Run("EmptyBatchIsNoop", func(t *testing.T) {
		server := newIngestServer(t, http.StatusOK)
		d := NewKeepaliveDispatcher(Options{Endpoint: server.URL, Timeout: 5 * time.Second},
			newTestFormatter(t), log.NewLogger())

		d.Dispatch(nil)
		d.Stop()

		assert.Empty(t, server.received())
		assert.Equal(t, uint64(0), d.Stats().TotalBatches)
	})

	t.Run("ServerErrorCountedNotRetried", func(t *testing.T) {
		server := newIngestServer(t, http.StatusInternalServerError)
		d := NewKeepaliveDispatcher(Options{Endpoint: server.URL, Timeout: 5 * time.Second},
			newTestFormatter(t), log.NewLogger())

		d.Dispatch(testBatch(t, 2))
		d.Stop()

		require.Len(t, server.received(), 1, "a failed batch is dropped, never resent")
		assert.Equal(t, uint64(1), d.Stats().FailedBatches)
	})

	t.Run("UnreachableEndpointCounted", func(t *testing.T) {
		d := NewKeepaliveDispatcher(Options{Endpoint: "http://127.0.0.1:1", Timeout: time.Second},
			newTestFormatter(t), log.NewLogger())

		d.Dispatch(testBatch(t, 1))
		d.Stop()

		assert.Equal(t, uint64(1), d.Stats().FailedBatches)
	})
}

func TestBeaconDispatch(t *testing.T) {
	server := newIngestServer(t, http.StatusNoContent)
	d := NewBeaconDispatcher(Options{Endpoint: server.URL, Timeout: 5 * time.Second},
		newTestFormatter(t), log.NewLogger())
	defer d.Stop()

	d.Dispatch(testBatch(t, 2))

	// The beacon path detaches the send; poll for arrival.
	require.Eventually(t, func() bool {
		return len(server.received()) == 1
	}, 5*time.Second, 10*time.Millisecond)

	stats := d.Stats()
	assert.Equal(t, uint64(1), stats.TotalBatches)
	assert.Equal(t, uint64(2), stats.TotalEntries)
}
