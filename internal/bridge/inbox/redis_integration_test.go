//go:build integration

package inbox_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crossledger/internal/bridge/inbox"
	"crossledger/pkg/testutil/containers"
)

func TestRedisInbox(t *testing.T) {
	ctx := context.Background()
	rc := containers.GetManager().GetRedis(t)
	require.NoError(t, rc.FlushAll(ctx))

	ib := inbox.NewRedis(rc.Client, time.Minute)

	first, err := ib.MarkDelivered(ctx, "msg-1")
	require.NoError(t, err)
	assert.True(t, first)

	again, err := ib.MarkDelivered(ctx, "msg-1")
	require.NoError(t, err)
	assert.False(t, again)

	other, err := ib.MarkDelivered(ctx, "msg-2")
	require.NoError(t, err)
	assert.True(t, other)

	require.NoError(t, ib.Release(ctx, "msg-1"))
	retry, err := ib.MarkDelivered(ctx, "msg-1")
	require.NoError(t, err)
	assert.True(t, retry)
}

func TestRedisInboxRetentionExpiry(t *testing.T) {
	ctx := context.Background()
	rc := containers.GetManager().GetRedis(t)
	require.NoError(t, rc.FlushAll(ctx))

	ib := inbox.NewRedis(rc.Client, time.Second)

	first, err := ib.MarkDelivered(ctx, "short-lived")
	require.NoError(t, err)
	assert.True(t, first)

	assert.Eventually(t, func() bool {
		ok, err := ib.MarkDelivered(ctx, "short-lived")
		return err == nil && ok
	}, 5*time.Second, 200*time.Millisecond, "key should expire after retention")
}
