package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shopfront/backend/internal/domain/checkout"
	"github.com/shopfront/backend/internal/domain/shared"
)

// sessionEntry holds a serialized session with expiration
type sessionEntry struct {
	data      []byte
	expiresAt time.Time
}

// InMemorySessionStore implements checkout.SessionStore using an in-memory
// map. This is suitable for single-instance deployments and testing.
// Sessions are stored serialized, so callers get their own copy on Get the
// same way the Redis store behaves.
type InMemorySessionStore struct {
	mu        sync.RWMutex
	entries   map[uuid.UUID]sessionEntry
	ttl       time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemorySessionStore creates a new in-memory session store.
// It starts a background goroutine to clean up expired entries.
func NewInMemorySessionStore(ttl time.Duration) *InMemorySessionStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	store := &InMemorySessionStore{
		entries:  make(map[uuid.UUID]sessionEntry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// Get loads the customer's checkout session
func (s *InMemorySessionStore) Get(ctx context.Context, customerID uuid.UUID) (*checkout.Session, error) {
	s.mu.RLock()
	e, exists := s.entries[customerID]
	s.mu.RUnlock()

	if !exists || time.Now().After(e.expiresAt) {
		return nil, shared.ErrNotFound
	}

	var session checkout.Session
	if err := json.Unmarshal(e.data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Put stores the session and refreshes its TTL
func (s *InMemorySessionStore) Put(ctx context.Context, session *checkout.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.entries[session.CustomerID] = sessionEntry{
		data:      data,
		expiresAt: time.Now().Add(s.ttl),
	}
	s.mu.Unlock()
	return nil
}

// Delete removes the customer's session
func (s *InMemorySessionStore) Delete(ctx context.Context, customerID uuid.UUID) error {
	s.mu.Lock()
	delete(s.entries, customerID)
	s.mu.Unlock()
	return nil
}

// Close stops the cleanup goroutine
func (s *InMemorySessionStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired entries
func (s *InMemorySessionStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.removeExpired()
		case <-s.stopChan:
			return
		}
	}
}

func (s *InMemorySessionStore) removeExpired() {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, id)
		}
	}
}

// Ensure InMemorySessionStore implements checkout.SessionStore
var _ checkout.SessionStore = (*InMemorySessionStore)(nil)
