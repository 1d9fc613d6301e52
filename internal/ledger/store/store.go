package store

import (
	"context"

	"github.com/holiman/uint256"

	"crossledger/pkg/domain"
)

// Store is the per-domain ledger state: the balance table, the allowance
// table, and the total supply. Every mutating operation is atomic
// check-then-commit, so a failing check leaves all tables untouched and the
// invariant Σ balances == total supply holds at every observation point.
//
// Implementations return coded errors from pkg/errors:
// CodeInsufficientBalance, CodeInsufficientAllowance, CodeInvalidRecipient.
type Store interface {
	// InitializeSupply runs the one-time genesis: it records the domain's
	// total supply and credits the owner when amount is positive. The first
	// call wins; later calls (process restarts against a persistent store)
	// report false and change nothing.
	InitializeSupply(ctx context.Context, owner domain.Principal, amount *uint256.Int) (bool, error)

	Balance(ctx context.Context, p domain.Principal) (*uint256.Int, error)
	TotalSupply(ctx context.Context) (*uint256.Int, error)
	Allowance(ctx context.Context, owner, spender domain.Principal) (*uint256.Int, error)

	// Transfer moves amount from one principal to another.
	Transfer(ctx context.Context, from, to domain.Principal, amount *uint256.Int) error

	// TransferFrom moves amount on behalf of from, consuming spender's
	// allowance unless it is the unlimited sentinel, which is left unchanged.
	TransferFrom(ctx context.Context, spender, from, to domain.Principal, amount *uint256.Int) error

	// SetAllowance overwrites (never adds to) the (owner, spender) entry.
	SetAllowance(ctx context.Context, owner, spender domain.Principal, amount *uint256.Int) error

	// Mint and Burn are reserved for the bridge gate; they are the only
	// operations that change total supply after construction.
	Mint(ctx context.Context, to domain.Principal, amount *uint256.Int) error
	Burn(ctx context.Context, from domain.Principal, amount *uint256.Int) error
}
