package events

import (
	"context"
	"sync"
)

// Store is the append-only event journal.
type Store interface {
	Append(ctx context.Context, ev Event) error
	Recent(ctx context.Context, limit int) ([]Event, error)
}

// InMemoryStore keeps a bounded window of recent events. Older entries are
// discarded once the capacity is reached; the durable journal lives in
// postgres (or kafka) in real deployments.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
	cap    int
}

// NewInMemoryStore creates a store retaining at most capacity events.
func NewInMemoryStore(capacity int) *InMemoryStore {
	if capacity <= 0 {
		capacity = 1024
	}
	return &InMemoryStore{cap: capacity}
}

func (s *InMemoryStore) Append(_ context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, ev)
	if len(s.events) > s.cap {
		s.events = s.events[len(s.events)-s.cap:]
	}
	return nil
}

// Recent returns up to limit events, newest last.
func (s *InMemoryStore) Recent(_ context.Context, limit int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.events) {
		limit = len(s.events)
	}
	out := make([]Event, limit)
	copy(out, s.events[len(s.events)-limit:])
	return out, nil
}
