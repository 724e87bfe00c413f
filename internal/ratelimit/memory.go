package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultStoreSize bounds the number of tracked sources in memory.
const DefaultStoreSize = 10000

type attempt struct {
	count   int
	expires time.Time
}

// MemoryStore is a process-local AttemptStore with a fixed capacity. Old
// entries expire after the window and the least recently used source is
// evicted when full.
type MemoryStore struct {
	mu      sync.Mutex
	entries *expirable.LRU[string, attempt]
	window  time.Duration
	now     func() time.Time
}

var _ AttemptStore = (*MemoryStore)(nil)

// NewMemoryStore creates an in-memory attempt store.
func NewMemoryStore(size int, window time.Duration) *MemoryStore {
	if size <= 0 {
		size = DefaultStoreSize
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &MemoryStore{
		entries: expirable.NewLRU[string, attempt](size, nil, window),
		window:  window,
		now:     time.Now,
	}
}

// Failures returns the failures of key in the current window.
func (s *MemoryStore) Failures(_ context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.current(key)
	if !ok {
		return 0, nil
	}
	return a.count, nil
}

// RecordFailure increments the failures of key.
func (s *MemoryStore) RecordFailure(_ context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.current(key)
	if !ok {
		a = attempt{expires: s.now().Add(s.window)}
	}
	a.count++
	s.entries.Add(key, a)
	return a.count, nil
}

// Reset forgets key.
func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries.Remove(key)
	return nil
}

// Len returns the number of tracked sources.
func (s *MemoryStore) Len() int {
	return s.entries.Len()
}

// current returns the live entry for key. Caller holds mu.
func (s *MemoryStore) current(key string) (attempt, bool) {
	a, ok := s.entries.Get(key)
	if !ok {
		return attempt{}, false
	}
	if !s.now().Before(a.expires) {
		s.entries.Remove(key)
		return attempt{}, false
	}
	return a, true
}
