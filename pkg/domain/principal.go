package domain

import (
	pkgerrors "crossledger/pkg/errors"
)

// Principal is an opaque, domain-local identity capable of holding balance
// and authorizing operations. No two principals alias.
//
// Usage: construct via ParsePrincipal at trust boundaries; direct casting
// bypasses validation.
type Principal string

// Zero is the null principal. It can never hold balance, receive a transfer,
// or own the instance; it doubles as the "owner renounced" marker.
const Zero Principal = ""

const maxPrincipalLen = 255

func (p Principal) String() string { return string(p) }

// IsZero reports whether p is the null principal.
func (p Principal) IsZero() bool { return p == Zero }

// ParsePrincipal constructs a Principal from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or oversized; no
// other errors are expected.
func ParsePrincipal(s string) (Principal, error) {
	if s == "" {
		return Zero, pkgerrors.New(pkgerrors.CodeInvalidInput, "principal cannot be empty")
	}
	if len(s) > maxPrincipalLen {
		return Zero, pkgerrors.New(pkgerrors.CodeInvalidInput, "principal too long")
	}
	return Principal(s), nil
}

// DomainID identifies an isolated execution domain hosting one ledger
// instance. Captured at construction and never compared again afterwards.
type DomainID uint64
