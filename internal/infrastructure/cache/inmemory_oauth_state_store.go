package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gbpdash/backend/internal/domain/integration"
)

type stateEntry struct {
	value     integration.OAuthState
	expiresAt time.Time
}

// InMemoryOAuthStateStore keeps OAuth states in a map.
// Suitable for single-instance deployments and tests.
type InMemoryOAuthStateStore struct {
	mu        sync.Mutex
	entries   map[string]stateEntry
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryOAuthStateStore creates the store and starts its sweeper
func NewInMemoryOAuthStateStore() *InMemoryOAuthStateStore {
	s := &InMemoryOAuthStateStore{
		entries:  make(map[string]stateEntry),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.cleanupLoop(time.Minute)
	return s
}

// Save stores the state for ttl
func (s *InMemoryOAuthStateStore) Save(_ context.Context, state string, value integration.OAuthState, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.entries[state]; ok && now.Before(e.expiresAt) {
		return fmt.Errorf("oauth state already exists")
	}
	s.entries[state] = stateEntry{value: value, expiresAt: now.Add(ttl)}
	return nil
}

// Consume returns and removes the state. Entries past their TTL are gone,
// matching Redis expiry.
func (s *InMemoryOAuthStateStore) Consume(_ context.Context, state string) (*integration.OAuthState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[state]
	if !ok {
		return nil, integration.ErrOAuthStateNotFound
	}
	delete(s.entries, state)
	if !s.now().Before(e.expiresAt) {
		return nil, integration.ErrOAuthStateNotFound
	}
	value := e.value
	return &value, nil
}

// Len returns the number of stored states
func (s *InMemoryOAuthStateStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close stops the sweeper. Safe to call more than once.
func (s *InMemoryOAuthStateStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryOAuthStateStore) cleanupLoop(every time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *InMemoryOAuthStateStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, k)
		}
	}
}

var _ integration.OAuthStateStore = (*InMemoryOAuthStateStore)(nil)
