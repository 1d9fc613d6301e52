package authority

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crossledger/internal/events"
	"crossledger/pkg/domain"
	pkgerrors "crossledger/pkg/errors"
)

const (
	founder  = domain.Principal("founder")
	newOwner = domain.Principal("successor")
	outsider = domain.Principal("outsider")
)

func newService(t *testing.T) (*Service, *events.Bus) {
	t.Helper()
	bus := events.NewBus(16, zerolog.Nop(), events.NewMetricsWith(prometheus.NewRegistry()))
	svc, err := New(context.Background(), NewInMemoryStore(), founder, bus, 1, zerolog.Nop())
	require.NoError(t, err)
	return svc, bus
}

func TestOwnerSeededOnce(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	bus := events.NewBus(16, zerolog.Nop(), events.NewMetricsWith(prometheus.NewRegistry()))

	_, err := New(ctx, store, founder, bus, 1, zerolog.Nop())
	require.NoError(t, err)

	// A second construction over the same store must not reset the owner.
	svc, err := New(ctx, store, outsider, bus, 1, zerolog.Nop())
	require.NoError(t, err)

	owner, err := svc.Owner(ctx)
	require.NoError(t, err)
	assert.Equal(t, founder, owner)
}

func TestTransferOwnership(t *testing.T) {
	ctx := context.Background()

	t.Run("owner can transfer", func(t *testing.T) {
		svc, bus := newService(t)
		require.NoError(t, svc.TransferOwnership(ctx, founder, newOwner))

		owner, err := svc.Owner(ctx)
		require.NoError(t, err)
		assert.Equal(t, newOwner, owner)

		ev := <-bus.Events()
		assert.Equal(t, events.KindOwnershipTransferred, ev.Kind)
		assert.Equal(t, founder, ev.PreviousOwner)
		assert.Equal(t, newOwner, ev.NewOwner)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		svc, _ := newService(t)
		err := svc.TransferOwnership(ctx, outsider, newOwner)
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized))
	})

	t.Run("null new owner is rejected", func(t *testing.T) {
		svc, _ := newService(t)
		err := svc.TransferOwnership(ctx, founder, domain.Zero)
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInvalidRecipient))

		owner, err2 := svc.Owner(ctx)
		require.NoError(t, err2)
		assert.Equal(t, founder, owner)
	})
}

func TestRenounceOwnership(t *testing.T) {
	ctx := context.Background()
	svc, bus := newService(t)

	require.NoError(t, svc.RenounceOwnership(ctx, founder))

	owner, err := svc.Owner(ctx)
	require.NoError(t, err)
	assert.True(t, owner.IsZero())

	ev := <-bus.Events()
	assert.Equal(t, events.KindOwnershipTransferred, ev.Kind)
	assert.Equal(t, founder, ev.PreviousOwner)
	assert.True(t, ev.NewOwner.IsZero())

	// Renounce is terminal: no principal, including the previous owner,
	// passes the ownership gate afterwards.
	assert.True(t, pkgerrors.HasCode(
		svc.TransferOwnership(ctx, founder, newOwner), pkgerrors.CodeUnauthorized))
	assert.True(t, pkgerrors.HasCode(
		svc.RenounceOwnership(ctx, founder), pkgerrors.CodeUnauthorized))
	assert.True(t, pkgerrors.HasCode(
		svc.TransferOwnership(ctx, domain.Zero, newOwner), pkgerrors.CodeUnauthorized))
}
