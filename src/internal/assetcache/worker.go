// FILE: src/internal/assetcache/worker.go
package assetcache

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"watchdog/src/internal/fetch"

	"github.com/lixenwraith/log"
)

// Options configures a Worker.
type Options struct {
	// Generation names the cache generation this worker serves, e.g.
	// "static-v3".
	Generation string

	// Prefix is the path prefix identifying cacheable assets, e.g.
	// "/static/". Requests outside it pass through untouched.
	Prefix string

	// Assets are the paths precached at install time. They are stored
	// under their path, the same key Handle looks up.
	Assets []string

	// Origin is the base URL prepended to asset paths when fetching.
	// Empty means the asset entries are already absolute URLs.
	Origin string
}

// Worker serves static assets cache-first out of a named generation.
type Worker struct {
	// Configuration
	opts Options

	// Application
	store   Store
	fetcher fetch.Fetcher
	logger  *log.Logger

	// claim runs after activation purge, standing in for taking over
	// already-open clients
	claim func()
}

// New creates a worker over the given store and network fetcher.
func New(opts Options, store Store, fetcher fetch.Fetcher, logger *log.Logger) (*Worker, error) {
	if opts.Generation == "" {
		return nil, fmt.Errorf("asset cache worker requires a generation name")
	}
	if opts.Prefix == "" {
		return nil, fmt.Errorf("asset cache worker requires a static prefix")
	}
	return &Worker{
		opts:    opts,
		store:   store,
		fetcher: fetcher,
		logger:  logger,
	}, nil
}

// OnActivate registers fn to run after the activation purge completes.
func (w *Worker) OnActivate(fn func()) {
	w.claim = fn
}

// Install populates the worker's generation with every enumerated asset.
// Population is all-or-nothing: every asset is fetched before anything is
// written, and any failure drops the generation and returns the error. A
// partially populated cache is worse than none.
func (w *Worker) Install(ctx context.Context) error {
	fetched := make(map[string]*CachedResponse, len(w.opts.Assets))
	for _, asset := range w.opts.Assets {
		resp, err := w.fetcher.Do(ctx, fetch.Request{URL: w.assetURL(asset)})
		if err != nil {
			w.store.Drop(w.opts.Generation)
			return fmt.Errorf("precaching %s: %w", asset, err)
		}
		if !resp.OK() {
			w.store.Drop(w.opts.Generation)
			return fmt.Errorf("precaching %s: status %d", asset, resp.StatusCode)
		}
		fetched[asset] = &CachedResponse{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       resp.Body,
			StoredAt:   time.Now(),
		}
	}

	for asset, cached := range fetched {
		if err := w.store.Put(w.opts.Generation, asset, cached); err != nil {
			w.store.Drop(w.opts.Generation)
			return fmt.Errorf("storing %s: %w", asset, err)
		}
	}

	w.logger.Info("msg", "Cache generation installed",
		"component", "asset_cache",
		"generation", w.opts.Generation,
		"assets", len(w.opts.Assets))
	return nil
}

// Activate drops every generation other than the current one, then claims
// open clients. Deletion is idempotent, so activating twice is safe.
func (w *Worker) Activate(ctx context.Context) error {
	generations, err := w.store.Generations()
	if err != nil {
		return fmt.Errorf("listing cache generations: %w", err)
	}

	for _, generation := range generations {
		if generation == w.opts.Generation {
			continue
		}
		if err := w.store.Drop(generation); err != nil {
			return fmt.Errorf("dropping stale generation %s: %w", generation, err)
		}
		w.logger.Info("msg", "Stale cache generation dropped",
			"component", "asset_cache",
			"generation", generation)
	}

	if w.claim != nil {
		w.claim()
	}
	return nil
}

// Handle serves one request through the cache. The second return value
// reports whether the worker intercepted the request at all: non-GET
// requests and paths outside the static prefix pass through untouched. On
// a miss the network response is returned as-is and a copy is stored only
// when it indicates success.
func (w *Worker) Handle(ctx context.Context, req fetch.Request) (*fetch.Response, bool, error) {
	if req.Method != "" && req.Method != "GET" {
		return nil, false, nil
	}
	path := pathOf(req.URL)
	if !strings.HasPrefix(path, w.opts.Prefix) {
		return nil, false, nil
	}

	cached, hit, err := w.store.Match(w.opts.Generation, path)
	if err != nil {
		// A broken lookup degrades to the network path
		w.logger.Warn("msg", "Cache lookup failed",
			"component", "asset_cache",
			"path", path,
			"error", err)
	} else if hit {
		return &fetch.Response{
			StatusCode: cached.StatusCode,
			Header:     cached.Header,
			Body:       cached.Body,
		}, true, nil
	}

	resp, err := w.fetcher.Do(ctx, req)
	if err != nil {
		return nil, true, err
	}

	if resp.OK() {
		stored := &CachedResponse{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       resp.Body,
			StoredAt:   time.Now(),
		}
		if err := w.store.Put(w.opts.Generation, path, stored); err != nil {
			// Cache write failure never fails the response
			w.logger.Warn("msg", "Cache store failed",
				"component", "asset_cache",
				"path", path,
				"error", err)
		}
	}
	return resp, true, nil
}

func (w *Worker) assetURL(asset string) string {
	if w.opts.Origin == "" {
		return asset
	}
	return strings.TrimRight(w.opts.Origin, "/") + asset
}

// pathOf extracts the path component from a raw URL, tolerating bare
// paths.
func pathOf(raw string) string {
	if parsed, err := url.Parse(raw); err == nil && parsed.Path != "" {
		return parsed.Path
	}
	return raw
}
