package bridge

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crossledger/internal/events"
	"crossledger/internal/ledger/store/memory"
	"crossledger/pkg/domain"
	pkgerrors "crossledger/pkg/errors"
)

const (
	messenger = domain.Principal("l1-messenger")
	alice     = domain.Principal("alice")
	intruder  = domain.Principal("intruder")
)

func newGate(t *testing.T) (*Gate, *memory.InMemoryStore, *events.Bus) {
	t.Helper()
	st := memory.New()
	bus := events.NewBus(16, zerolog.Nop(), events.NewMetricsWith(prometheus.NewRegistry()))
	gate := NewGate(messenger, st, bus, 2, NewMetricsWith(prometheus.NewRegistry()), zerolog.Nop())
	return gate, st, bus
}

func TestGateMint(t *testing.T) {
	ctx := context.Background()

	t.Run("bridge identity mints and grows supply", func(t *testing.T) {
		gate, st, bus := newGate(t)
		require.NoError(t, gate.Mint(ctx, messenger, alice, uint256.NewInt(700), "msg-1"))

		balance, err := st.Balance(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, uint256.NewInt(700), balance)

		supply, err := st.TotalSupply(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint256.NewInt(700), supply)

		ev := <-bus.Events()
		assert.Equal(t, events.KindBridgeMint, ev.Kind)
		assert.Equal(t, "msg-1", ev.MessageID)
	})

	t.Run("any other caller is rejected with supply unchanged", func(t *testing.T) {
		gate, st, _ := newGate(t)
		err := gate.Mint(ctx, intruder, alice, uint256.NewInt(700), "msg-2")
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized))

		supply, err2 := st.TotalSupply(ctx)
		require.NoError(t, err2)
		assert.True(t, supply.IsZero())
	})

	t.Run("null recipient rejected", func(t *testing.T) {
		gate, _, _ := newGate(t)
		err := gate.Mint(ctx, messenger, domain.Zero, uint256.NewInt(1), "msg-3")
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInvalidRecipient))
	})
}

func TestGateBurn(t *testing.T) {
	ctx := context.Background()

	t.Run("bridge identity burns and shrinks supply", func(t *testing.T) {
		gate, st, bus := newGate(t)
		require.NoError(t, gate.Mint(ctx, messenger, alice, uint256.NewInt(100), "msg-1"))
		<-bus.Events()

		require.NoError(t, gate.Burn(ctx, messenger, alice, uint256.NewInt(40), "msg-2"))

		supply, err := st.TotalSupply(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint256.NewInt(60), supply)

		ev := <-bus.Events()
		assert.Equal(t, events.KindBridgeBurn, ev.Kind)
		assert.Equal(t, alice, ev.From)
	})

	t.Run("any other caller is rejected, including the owner of funds", func(t *testing.T) {
		gate, st, _ := newGate(t)
		require.NoError(t, gate.Mint(ctx, messenger, alice, uint256.NewInt(100), "msg-1"))

		err := gate.Burn(ctx, alice, alice, uint256.NewInt(40), "msg-2")
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized))

		supply, err2 := st.TotalSupply(ctx)
		require.NoError(t, err2)
		assert.Equal(t, uint256.NewInt(100), supply)
	})

	t.Run("burn above balance fails with normal rule", func(t *testing.T) {
		gate, _, _ := newGate(t)
		require.NoError(t, gate.Mint(ctx, messenger, alice, uint256.NewInt(10), "msg-1"))

		err := gate.Burn(ctx, messenger, alice, uint256.NewInt(11), "msg-2")
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInsufficientBalance))
	})
}

// TestClusterConservation simulates a two-domain cluster moving value back
// and forth through the gates: Σ totalSupply over both domains is invariant
// across any sequence of completed cross-domain transfers.
func TestClusterConservation(t *testing.T) {
	ctx := context.Background()

	origin := memory.New()
	_, err := origin.InitializeSupply(ctx, alice, uint256.NewInt(1_000))
	require.NoError(t, err)
	remote := memory.New()

	busA := events.NewBus(64, zerolog.Nop(), events.NewMetricsWith(prometheus.NewRegistry()))
	busB := events.NewBus(64, zerolog.Nop(), events.NewMetricsWith(prometheus.NewRegistry()))
	gateA := NewGate(messenger, origin, busA, 1, NewMetricsWith(prometheus.NewRegistry()), zerolog.Nop())
	gateB := NewGate(messenger, remote, busB, 2, NewMetricsWith(prometheus.NewRegistry()), zerolog.Nop())

	clusterSupply := func() *uint256.Int {
		a, err := origin.TotalSupply(ctx)
		require.NoError(t, err)
		b, err := remote.TotalSupply(ctx)
		require.NoError(t, err)
		return new(uint256.Int).Add(a, b)
	}

	// alice moves 300 from domain 1 to domain 2, then 100 back.
	require.NoError(t, gateA.Burn(ctx, messenger, alice, uint256.NewInt(300), "xfer-1"))
	require.NoError(t, gateB.Mint(ctx, messenger, alice, uint256.NewInt(300), "xfer-1"))
	assert.Equal(t, uint256.NewInt(1_000), clusterSupply())

	require.NoError(t, gateB.Burn(ctx, messenger, alice, uint256.NewInt(100), "xfer-2"))
	require.NoError(t, gateA.Mint(ctx, messenger, alice, uint256.NewInt(100), "xfer-2"))
	assert.Equal(t, uint256.NewInt(1_000), clusterSupply())

	balance, err := remote.Balance(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(200), balance)
}
