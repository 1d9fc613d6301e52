package inbox

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "bridge:msg:"

// DefaultRetention bounds how long a message id is remembered. Redelivery of
// bridge messages happens within minutes; a generous window keeps the keyspace
// from growing without bound.
const DefaultRetention = 7 * 24 * time.Hour

// Redis is a shared inbox backed by SET NX, safe across instances.
type Redis struct {
	client    redis.UniversalClient
	retention time.Duration
}

func NewRedis(client redis.UniversalClient, retention time.Duration) *Redis {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Redis{client: client, retention: retention}
}

func (r *Redis) MarkDelivered(ctx context.Context, messageID string) (bool, error) {
	ok, err := r.client.SetNX(ctx, keyPrefix+messageID, 1, r.retention).Result()
	if err != nil {
		return false, fmt.Errorf("inbox mark delivered: %w", err)
	}
	return ok, nil
}

func (r *Redis) Release(ctx context.Context, messageID string) error {
	if err := r.client.Del(ctx, keyPrefix+messageID).Err(); err != nil {
		return fmt.Errorf("inbox release: %w", err)
	}
	return nil
}
