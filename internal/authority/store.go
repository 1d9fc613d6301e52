package authority

import (
	"context"
	"sync"

	"crossledger/pkg/domain"
)

// Store persists the single owner principal. The null principal means the
// ownership has been renounced (or never initialized).
type Store interface {
	// InitializeOwner seeds the owner exactly once; later calls (process
	// restarts against a persistent store) report false and change nothing.
	InitializeOwner(ctx context.Context, owner domain.Principal) (bool, error)

	Owner(ctx context.Context) (domain.Principal, error)
	SetOwner(ctx context.Context, owner domain.Principal) error
}

// InMemoryStore keeps the owner in process memory.
type InMemoryStore struct {
	mu          sync.RWMutex
	owner       domain.Principal
	initialized bool
}

// NewInMemoryStore creates an uninitialized owner store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) InitializeOwner(_ context.Context, owner domain.Principal) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return false, nil
	}
	s.initialized = true
	s.owner = owner
	return true, nil
}

func (s *InMemoryStore) Owner(_ context.Context) (domain.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.owner, nil
}

func (s *InMemoryStore) SetOwner(_ context.Context, owner domain.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owner = owner
	return nil
}
