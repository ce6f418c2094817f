// FILE: src/internal/assetcache/memory.go
package assetcache

import "sync"

// MemoryStore is an in-process Store for ephemeral use and tests.
type MemoryStore struct {
	mu          sync.RWMutex
	generations map[string]map[string]*CachedResponse
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		generations: make(map[string]map[string]*CachedResponse),
	}
}

// Put stores a copy of the response under (generation, url).
func (m *MemoryStore) Put(generation, url string, resp *CachedResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cache, ok := m.generations[generation]
	if !ok {
		cache = make(map[string]*CachedResponse)
		m.generations[generation] = cache
	}
	cache[url] = cloneResponse(resp)
	return nil
}

// Match returns a copy of the response cached under (generation, url).
func (m *MemoryStore) Match(generation, url string) (*CachedResponse, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cache, ok := m.generations[generation]
	if !ok {
		return nil, false, nil
	}
	resp, ok := cache[url]
	if !ok {
		return nil, false, nil
	}
	return cloneResponse(resp), true, nil
}

// Generations lists every generation present in the store.
func (m *MemoryStore) Generations() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.generations))
	for name := range m.generations {
		names = append(names, name)
	}
	return names, nil
}

// Drop deletes a whole generation. Idempotent.
func (m *MemoryStore) Drop(generation string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.generations, generation)
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
