// FILE: src/internal/agent/fetchwrap_test.go
package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"watchdog/src/internal/core"
	"watchdog/src/internal/fetch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedFetcher returns a fixed result and can advance a fake clock to
// simulate request duration.
type scriptedFetcher struct {
	resp    *fetch.Response
	err     error
	elapsed time.Duration
	clock   *fakeClock
	calls   int
}

func (f *scriptedFetcher) Do(ctx context.Context, req fetch.Request) (*fetch.Response, error) {
	f.calls++
	if f.clock != nil {
		f.clock.advance(f.elapsed)
	}
	return f.resp, f.err
}

func newFetchTestAgent(t *testing.T) (*Agent, *fakeDispatcher, *fakeClock) {
	t.Helper()
	a, dispatcher := newTestAgent(t, Options{}, Capabilities{})
	clock := newFakeClock()
	a.now = clock.Now
	return a, dispatcher, clock
}

func (d *fakeDispatcher) flushed(t *testing.T, a *Agent) []core.LogEntry {
	t.Helper()
	a.Flush()
	var entries []core.LogEntry
	for _, batch := range d.all() {
		entries = append(entries, batch...)
	}
	return entries
}

func TestWrapFetcher(t *testing.T) {
	t.Run("FastSuccessProducesNothing", func(t *testing.T) {
		a, dispatcher, clock := newFetchTestAgent(t)
		inner := &scriptedFetcher{resp: &fetch.Response{StatusCode: 200}, elapsed: 50 * time.Millisecond, clock: clock}

		resp, err := a.WrapFetcher(inner).Do(context.Background(), fetch.Request{URL: "http://app/api/data"})

		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Empty(t, dispatcher.flushed(t, a))
	})

	t.Run("NonSuccessStatusProducesOneFetchError", func(t *testing.T) {
		a, dispatcher, clock := newFetchTestAgent(t)
		inner := &scriptedFetcher{resp: &fetch.Response{StatusCode: 503}, elapsed: 10 * time.Millisecond, clock: clock}

		resp, err := a.WrapFetcher(inner).Do(context.Background(), fetch.Request{URL: "http://app/api/data"})

		require.NoError(t, err)
		assert.Equal(t, 503, resp.StatusCode, "original response returned unchanged")

		entries := dispatcher.flushed(t, a)
		require.Len(t, entries, 1)
		assert.Equal(t, core.EventFetchError, entries[0].EventType)
		assert.Equal(t, 503, entries[0].Data["status"])
	})

	t.Run("SlowFetchAboveThreshold", func(t *testing.T) {
		a, dispatcher, clock := newFetchTestAgent(t)
		inner := &scriptedFetcher{resp: &fetch.Response{StatusCode: 200}, elapsed: core.SlowFetchThreshold + time.Second, clock: clock}

		_, err := a.WrapFetcher(inner).Do(context.Background(), fetch.Request{URL: "http://app/api/slow"})

		require.NoError(t, err)
		entries := dispatcher.flushed(t, a)
		require.Len(t, entries, 1)
		assert.Equal(t, core.EventSlowFetch, entries[0].EventType)
		assert.Equal(t, int64(6000), entries[0].Data["duration_ms"])
	})

	t.Run("SlowFetchUnderThreshold", func(t *testing.T) {
		a, dispatcher, clock := newFetchTestAgent(t)
		inner := &scriptedFetcher{resp: &fetch.Response{StatusCode: 200}, elapsed: core.SlowFetchThreshold - time.Second, clock: clock}

		_, err := a.WrapFetcher(inner).Do(context.Background(), fetch.Request{URL: "http://app/api/ok"})

		require.NoError(t, err)
		assert.Empty(t, dispatcher.flushed(t, a))
	})

	t.Run("TransportFailureProducesNetworkError", func(t *testing.T) {
		a, dispatcher, clock := newFetchTestAgent(t)
		innerErr := errors.New("connection refused")
		inner := &scriptedFetcher{err: innerErr, elapsed: 10 * time.Millisecond, clock: clock}

		resp, err := a.WrapFetcher(inner).Do(context.Background(), fetch.Request{URL: "http://app/api/down"})

		assert.Nil(t, resp)
		assert.Same(t, innerErr, err, "original error returned unchanged")

		entries := dispatcher.flushed(t, a)
		require.Len(t, entries, 1)
		assert.Equal(t, core.EventNetworkError, entries[0].EventType)
		assert.Equal(t, "connection refused", entries[0].Message)
	})
}
