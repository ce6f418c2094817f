// FILE: src/internal/agent/fetchwrap.go
package agent

import (
	"context"
	"fmt"

	"watchdog/src/internal/core"
	"watchdog/src/internal/fetch"
)

// WrapFetcher returns a fetcher that measures every request and records
// slow or failed outcomes. The inner result — response or error — is
// always returned unchanged.
func (a *Agent) WrapFetcher(next fetch.Fetcher) fetch.Fetcher {
	return &wrappedFetcher{agent: a, next: next}
}

type wrappedFetcher struct {
	agent *Agent
	next  fetch.Fetcher
}

func (f *wrappedFetcher) Do(ctx context.Context, req fetch.Request) (*fetch.Response, error) {
	start := f.agent.now()
	resp, err := f.next.Do(ctx, req)
	elapsed := f.agent.now().Sub(start)

	method := req.Method
	if method == "" {
		method = "GET"
	}
	url := core.Truncate(req.URL, core.MaxTargetLen)
	data := map[string]any{
		"method":      method,
		"url":         url,
		"duration_ms": elapsed.Milliseconds(),
	}

	switch {
	case err != nil:
		f.agent.Log(core.EventNetworkError, core.Truncate(err.Error(), core.MaxMessageLen), data)
	case !resp.OK():
		data["status"] = resp.StatusCode
		f.agent.Log(core.EventFetchError, fmt.Sprintf("%s returned %d", url, resp.StatusCode), data)
	case elapsed > core.SlowFetchThreshold:
		f.agent.Log(core.EventSlowFetch, url, data)
	}

	return resp, err
}
