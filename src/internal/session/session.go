// FILE: src/internal/session/session.go
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session identifies one agent lifetime. The ID is generated once at
// creation and never reused; nothing is persisted across restarts.
type Session struct {
	ID           string         // Unique session identifier
	CreatedAt    time.Time      // Session creation time
	LastActivity time.Time      // Last activity timestamp
	Metadata     map[string]any // Optional metadata (page path, user agent)
}

// Manager handles the lifecycle of sessions.
type Manager struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

// NewManager creates a new session manager.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

// CreateSession creates and stores a new session.
func (m *Manager) CreateSession(metadata map[string]any) *Session {
	session := &Session{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now(),
		LastActivity: time.Now(),
		Metadata:     metadata,
	}
	if metadata == nil {
		session.Metadata = make(map[string]any)
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()
	return session
}

// GetSession retrieves a session by ID.
func (m *Manager) GetSession(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, exists := m.sessions[id]
	return session, exists
}

// UpdateActivity refreshes a session's last activity timestamp.
func (m *Manager) UpdateActivity(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session, exists := m.sessions[id]; exists {
		session.LastActivity = time.Now()
	}
}

// RemoveSession deletes a session from the manager.
func (m *Manager) RemoveSession(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
