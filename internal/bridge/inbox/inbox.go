// Package inbox tracks bridge message ids that have already been applied, so
// a redelivered message produces no second mint or burn. The gate itself does
// not deduplicate; the inbox sits at the delivery edge in front of it.
package inbox

import (
	"context"
	"sync"
	"time"
)

// Inbox records message delivery. MarkDelivered returns true the first time
// a message id is seen and false on every redelivery. Release undoes a mark
// when the operation behind it failed, so redelivery can retry.
type Inbox interface {
	MarkDelivered(ctx context.Context, messageID string) (bool, error)
	Release(ctx context.Context, messageID string) error
}

// InMemory is a process-local inbox. Suitable for a single instance or tests.
type InMemory struct {
	mu   sync.Mutex
	seen map[string]time.Time
}

func NewInMemory() *InMemory {
	return &InMemory{seen: make(map[string]time.Time)}
}

func (i *InMemory) MarkDelivered(_ context.Context, messageID string) (bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, ok := i.seen[messageID]; ok {
		return false, nil
	}
	i.seen[messageID] = time.Now()
	return true, nil
}

func (i *InMemory) Release(_ context.Context, messageID string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.seen, messageID)
	return nil
}
