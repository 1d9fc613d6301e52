package domain

import (
	"github.com/holiman/uint256"

	pkgerrors "crossledger/pkg/errors"
)

// Amounts are 256-bit unsigned integers. The all-ones value is reserved as
// the unlimited-allowance sentinel and is checked explicitly before any
// allowance decrement; balance arithmetic never reaches it because total
// supply is fixed below the sentinel at construction.

var unlimited = new(uint256.Int).SetAllOne()

// Unlimited returns a fresh copy of the unlimited-allowance sentinel.
func Unlimited() *uint256.Int {
	return new(uint256.Int).SetAllOne()
}

// IsUnlimited reports whether a is the unlimited-allowance sentinel.
func IsUnlimited(a *uint256.Int) bool {
	return a != nil && a.Eq(unlimited)
}

// ParseAmount constructs an amount from its decimal string form.
//
// Errors: returns CodeInvalidInput for empty, non-decimal, or >2^256-1
// input; no other errors are expected.
func ParseAmount(s string) (*uint256.Int, error) {
	if s == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidInput, "amount cannot be empty")
	}
	a, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidInput, "amount must be an unsigned decimal integer")
	}
	return a, nil
}

// FormatAmount renders an amount in the decimal form ParseAmount accepts.
func FormatAmount(a *uint256.Int) string {
	if a == nil {
		return "0"
	}
	return a.Dec()
}
