// FILE: src/internal/assetcache/store.go

// Package assetcache implements the asset cache worker: generation-named
// caches of static asset responses, populated all-or-nothing at install,
// purged wholesale at activation, and consulted before the network for
// every GET under the static prefix.
package assetcache

import "time"

// CachedResponse is a captured asset response: status, headers, body.
type CachedResponse struct {
	StatusCode int
	Header     map[string]string
	Body       []byte
	StoredAt   time.Time
}

// Store holds named cache generations. Implementations must make Drop
// idempotent: deleting an absent generation is not an error.
type Store interface {
	// Put stores a response under (generation, url), replacing any
	// previous copy.
	Put(generation, url string, resp *CachedResponse) error

	// Match returns the response cached under (generation, url).
	Match(generation, url string) (*CachedResponse, bool, error)

	// Generations lists every generation present in the store.
	Generations() ([]string, error)

	// Drop deletes a whole generation.
	Drop(generation string) error

	Close() error
}

func cloneResponse(resp *CachedResponse) *CachedResponse {
	header := make(map[string]string, len(resp.Header))
	for k, v := range resp.Header {
		header[k] = v
	}
	body := make([]byte, len(resp.Body))
	copy(body, resp.Body)
	return &CachedResponse{
		StatusCode: resp.StatusCode,
		Header:     header,
		Body:       body,
		StoredAt:   resp.StoredAt,
	}
}
