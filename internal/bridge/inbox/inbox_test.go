package inbox

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryMarkDelivered(t *testing.T) {
	ctx := context.Background()
	ib := NewInMemory()

	first, err := ib.MarkDelivered(ctx, "msg-1")
	require.NoError(t, err)
	assert.True(t, first)

	again, err := ib.MarkDelivered(ctx, "msg-1")
	require.NoError(t, err)
	assert.False(t, again)

	other, err := ib.MarkDelivered(ctx, "msg-2")
	require.NoError(t, err)
	assert.True(t, other)
}

func TestInMemoryRelease(t *testing.T) {
	ctx := context.Background()
	ib := NewInMemory()

	first, err := ib.MarkDelivered(ctx, "msg-1")
	require.NoError(t, err)
	assert.True(t, first)

	require.NoError(t, ib.Release(ctx, "msg-1"))

	retry, err := ib.MarkDelivered(ctx, "msg-1")
	require.NoError(t, err)
	assert.True(t, retry, "released id must be deliverable again")
}

func TestInMemoryConcurrentDelivery(t *testing.T) {
	ctx := context.Background()
	ib := NewInMemory()

	const workers = 32
	var wg sync.WaitGroup
	firsts := make(chan bool, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := ib.MarkDelivered(ctx, "contested")
			require.NoError(t, err)
			firsts <- ok
		}()
	}
	wg.Wait()
	close(firsts)

	won := 0
	for ok := range firsts {
		if ok {
			won++
		}
	}
	assert.Equal(t, 1, won, "exactly one delivery must win")
}

func TestInMemoryIndependentIDs(t *testing.T) {
	ctx := context.Background()
	ib := NewInMemory()

	for i := 0; i < 100; i++ {
		ok, err := ib.MarkDelivered(ctx, fmt.Sprintf("msg-%d", i))
		require.NoError(t, err)
		assert.True(t, ok)
	}
}
