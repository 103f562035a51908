package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps opaque session tokens. Resolve returns ErrSessionNotFound
// for unknown or expired tokens.
type SessionStore interface {
	Create(ctx context.Context, identity Identity, ttl time.Duration) (string, error)
	Resolve(ctx context.Context, token string) (Identity, error)
	Revoke(ctx context.Context, token string) error
}

func newToken() string {
	return uuid.NewString()
}

type memoryEntry struct {
	identity  Identity
	expiresAt time.Time
}

type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: map[string]memoryEntry{},
		now:      time.Now,
	}
}

func (m *MemorySessionStore) Create(ctx context.Context, identity Identity, ttl time.Duration) (string, error) {
	token := newToken()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweep()
	m.sessions[token] = memoryEntry{identity: identity, expiresAt: m.now().Add(ttl)}
	return token, nil
}

func (m *MemorySessionStore) Resolve(ctx context.Context, token string) (Identity, error) {
	m.mu.RLock()
	entry, ok := m.sessions[token]
	m.mu.RUnlock()

	if !ok || !m.now().Before(entry.expiresAt) {
		return Identity{}, ErrSessionNotFound
	}
	return entry.identity, nil
}

func (m *MemorySessionStore) Revoke(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

// caller holds mu
func (m *MemorySessionStore) sweep() {
	now := m.now()
	for token, entry := range m.sessions {
		if !now.Before(entry.expiresAt) {
			delete(m.sessions, token)
		}
	}
}
