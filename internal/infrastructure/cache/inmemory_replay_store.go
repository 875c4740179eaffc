package cache

import (
	"context"
	"sync"
	"time"

	"github.com/shopassist/backend/internal/domain/shared"
)

type entry struct {
	expiresAt time.Time
}

// InMemoryReplayStore implements DeliveryReplayStore with a plain map.
// Suitable for single-instance deployments and testing; a multi-instance
// deployment needs the Redis store so all instances share replay state.
type InMemoryReplayStore struct {
	mu        sync.RWMutex
	entries   map[string]entry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryReplayStore creates an in-memory replay store and starts a
// background goroutine that evicts expired entries.
func NewInMemoryReplayStore() *InMemoryReplayStore {
	store := &InMemoryReplayStore{
		entries:  make(map[string]entry),
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// MarkSeen records a delivery identifier for the TTL window.
// Returns true if the identifier was newly recorded, false if a live entry
// already existed, which means the delivery is a replay.
func (s *InMemoryReplayStore) MarkSeen(ctx context.Context, deliveryID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, exists := s.entries[deliveryID]; exists {
		if time.Now().Before(e.expiresAt) {
			return false, nil
		}
		// Expired entry, overwrite below
	}

	s.entries[deliveryID] = entry{
		expiresAt: time.Now().Add(ttl),
	}
	return true, nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *InMemoryReplayStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryReplayStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *InMemoryReplayStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for deliveryID, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, deliveryID)
		}
	}
}

// Size returns the number of entries in the store (for testing/monitoring)
func (s *InMemoryReplayStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

var _ shared.DeliveryReplayStore = (*InMemoryReplayStore)(nil)
