package game

import (
	"context"
	"sync"
	"time"
)

// SessionStore is the storage collaborator the manager persists through.
// Load returns (nil, nil) when the id does not resolve; errors are
// reserved for backend failures. Save is an idempotent whole-record
// upsert; ttl is an advisory eviction hint, not a correctness concern.
type SessionStore interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session, ttl time.Duration) error
}

// MemoryStore is a development fallback used when no external store is
// configured. Entries expire lazily on Load.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
}

type memoryEntry struct {
	session  Session
	deadline time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memoryEntry)}
}

func (m *MemoryStore) Load(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if !e.deadline.IsZero() && time.Now().After(e.deadline) {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return nil, nil
	}
	copy := e.session
	return &copy, nil
}

func (m *MemoryStore) Save(ctx context.Context, s *Session, ttl time.Duration) error {
	e := memoryEntry{session: *s}
	if ttl > 0 {
		e.deadline = time.Now().Add(ttl)
	}
	m.mu.Lock()
	m.sessions[s.ID] = e
	m.mu.Unlock()
	return nil
}
