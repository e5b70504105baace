package cache

import (
	"context"
	"sync"
	"time"

	"github.com/amirasaad/usdtgate/pkg/deposit"
)

const defaultCleanupInterval = 5 * time.Minute

// MemorySessionStore implements deposit.Store using in-memory storage
type MemorySessionStore struct {
	sessions map[string]*sessionEntry
	mu       sync.RWMutex
	now      func() time.Time
	done     chan struct{}
	stopOnce sync.Once
}

type sessionEntry struct {
	session   deposit.Session
	expiresAt time.Time
}

// NewMemorySessionStore creates a new in-memory store and starts its
// cleanup goroutine. Call Close to stop it.
func NewMemorySessionStore() *MemorySessionStore {
	return NewMemorySessionStoreWithInterval(defaultCleanupInterval, time.Now)
}

// NewMemorySessionStoreWithInterval is NewMemorySessionStore with an explicit
// sweep interval and clock.
func NewMemorySessionStoreWithInterval(interval time.Duration, now func() time.Time) *MemorySessionStore {
	s := &MemorySessionStore{
		sessions: make(map[string]*sessionEntry),
		now:      now,
		done:     make(chan struct{}),
	}
	go s.cleanup(interval)
	return s
}

// Save stores a copy of session. A non-positive ttl never expires.
func (s *MemorySessionStore) Save(_ context.Context, session *deposit.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := &sessionEntry{session: *session}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.sessions[session.ID] = entry
	return nil
}

// Get returns a copy of the stored session.
func (s *MemorySessionStore) Get(_ context.Context, id string) (*deposit.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.sessions[id]
	if !exists || entry.expired(s.now()) {
		return nil, deposit.ErrSessionNotFound
	}
	session := entry.session
	return &session, nil
}

// Delete removes a session.
func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// Len returns the number of entries, expired ones included until swept.
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes expired entries.
func (s *MemorySessionStore) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, entry := range s.sessions {
		if entry.expired(now) {
			delete(s.sessions, id)
		}
	}
}

// Close stops the cleanup goroutine.
func (s *MemorySessionStore) Close() error {
	s.stopOnce.Do(func() { close(s.done) })
	return nil
}

func (s *MemorySessionStore) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (e *sessionEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}
