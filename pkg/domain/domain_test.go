package domain

import (
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "crossledger/pkg/errors"
)

// TestParsePrincipal_Invariants validates the parsing invariant:
// principals are non-empty and bounded in size.
func TestParsePrincipal_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParsePrincipal("")
		require.Error(t, err)
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInvalidInput))
	})

	t.Run("rejects oversized value", func(t *testing.T) {
		_, err := ParsePrincipal(strings.Repeat("a", maxPrincipalLen+1))
		require.Error(t, err)
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInvalidInput))
	})

	t.Run("accepts opaque address", func(t *testing.T) {
		p, err := ParsePrincipal("0xabc123")
		require.NoError(t, err)
		assert.Equal(t, Principal("0xabc123"), p)
		assert.False(t, p.IsZero())
	})
}

func TestZeroPrincipal(t *testing.T) {
	assert.True(t, Zero.IsZero())
	assert.False(t, Principal("alice").IsZero())
}

func TestParseAmount(t *testing.T) {
	t.Run("rejects empty", func(t *testing.T) {
		_, err := ParseAmount("")
		require.Error(t, err)
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInvalidInput))
	})

	t.Run("rejects negative", func(t *testing.T) {
		_, err := ParseAmount("-1")
		require.Error(t, err)
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInvalidInput))
	})

	t.Run("rejects values above 2^256-1", func(t *testing.T) {
		over := "115792089237316195423570985008687907853269984665640564039457584007913129639936" // 2^256
		_, err := ParseAmount(over)
		require.Error(t, err)
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInvalidInput))
	})

	t.Run("round-trips decimal form", func(t *testing.T) {
		a, err := ParseAmount("1000000000")
		require.NoError(t, err)
		assert.Equal(t, "1000000000", FormatAmount(a))
	})
}

func TestUnlimitedSentinel(t *testing.T) {
	max := "115792089237316195423570985008687907853269984665640564039457584007913129639935" // 2^256-1

	assert.True(t, IsUnlimited(Unlimited()))
	assert.Equal(t, max, FormatAmount(Unlimited()))

	parsed, err := ParseAmount(max)
	require.NoError(t, err)
	assert.True(t, IsUnlimited(parsed))

	assert.False(t, IsUnlimited(uint256.NewInt(42)))
	assert.False(t, IsUnlimited(nil))

	// Unlimited returns a copy; mutating it must not poison the sentinel.
	u := Unlimited()
	u.SubUint64(u, 1)
	assert.True(t, IsUnlimited(Unlimited()))
}
