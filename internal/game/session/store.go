package session

import (
	"errors"
	"fmt"
	"sync"
)

// ErrSessionNotFound signals a lookup for an unknown session id, typically
// a desynchronized caller. The correct response is to reject the single
// command, not to tear anything down.
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionExists signals a Create with an id already in use.
var ErrSessionExists = errors.New("session already exists")

// Store is the registry of active sessions. It is injected into every
// consumer; there is no process-wide singleton.
type Store interface {
	// Create registers a new session.
	//
	// Postcondition: Returns ErrSessionExists if the id is taken.
	Create(s *Session) error
	// Get returns the session with the given id.
	//
	// Postcondition: Returns ErrSessionNotFound for unknown ids.
	Get(id string) (*Session, error)
	// Delete removes the session with the given id. Deleting an unknown id
	// is a no-op.
	Delete(id string)
	// Range calls fn for each session until fn returns false.
	Range(fn func(s *Session) bool)
}

// MemoryStore is the in-memory Store implementation.
// All methods are safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

// Create registers s under its ID.
//
// Precondition: s must be non-nil with a non-empty ID.
// Postcondition: Returns ErrSessionExists if the id is already registered.
func (m *MemoryStore) Create(s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[s.ID]; exists {
		return fmt.Errorf("session %q: %w", s.ID, ErrSessionExists)
	}
	m.sessions[s.ID] = s
	return nil
}

// Get returns the session registered under id.
func (m *MemoryStore) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %q: %w", id, ErrSessionNotFound)
	}
	return s, nil
}

// Delete removes the session registered under id.
func (m *MemoryStore) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Range calls fn for each session until fn returns false. The iteration
// order is unspecified.
func (m *MemoryStore) Range(fn func(s *Session) bool) {
	m.mu.RLock()
	snapshot := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		snapshot = append(snapshot, s)
	}
	m.mu.RUnlock()

	for _, s := range snapshot {
		if !fn(s) {
			return
		}
	}
}

// Count returns the number of active sessions.
func (m *MemoryStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
