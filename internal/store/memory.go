// Package store holds the session stores: in-memory ones for a single
// process, Postgres for admin sessions and Redis for checkout sessions.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/pamsartech/ldv-admin-panel-sub001/internal/auth"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/checkout"
)

// MemorySessionStore keeps admin sessions in a map.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]auth.Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]auth.Session)}
}

func (m *MemorySessionStore) Save(_ context.Context, s *auth.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = *s
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (*auth.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, auth.ErrSessionNotFound
	}
	return &s, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return auth.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

// DeleteExpired removes sessions that expired before now.
func (m *MemorySessionStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

var _ auth.SessionStore = (*MemorySessionStore)(nil)

type checkoutEntry struct {
	session  checkout.Session
	deadline time.Time
}

// MemoryCheckoutStore keeps checkout sessions in a map. Entries past their
// TTL are treated as missing and dropped on access.
type MemoryCheckoutStore struct {
	mu      sync.Mutex
	entries map[string]checkoutEntry
	now     func() time.Time
}

func NewMemoryCheckoutStore() *MemoryCheckoutStore {
	return &MemoryCheckoutStore{entries: make(map[string]checkoutEntry), now: time.Now}
}

func (m *MemoryCheckoutStore) Save(_ context.Context, s *checkout.Session, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[s.ID] = checkoutEntry{session: *s, deadline: m.now().Add(ttl)}
	return nil
}

func (m *MemoryCheckoutStore) Get(_ context.Context, id string) (*checkout.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, checkout.ErrSessionNotFound
	}
	if !m.now().Before(e.deadline) {
		delete(m.entries, id)
		return nil, checkout.ErrSessionNotFound
	}
	s := e.session
	return &s, nil
}

func (m *MemoryCheckoutStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return checkout.ErrSessionNotFound
	}
	delete(m.entries, id)
	return nil
}

// Sweep drops every expired entry and returns how many were removed.
func (m *MemoryCheckoutStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	n := 0
	for id, e := range m.entries {
		if !now.Before(e.deadline) {
			delete(m.entries, id)
			n++
		}
	}
	return n
}

var _ checkout.Store = (*MemoryCheckoutStore)(nil)
