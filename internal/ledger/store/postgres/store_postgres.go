package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"crossledger/pkg/domain"
	pkgerrors "crossledger/pkg/errors"
)

const ledgerSchema = `
CREATE TABLE IF NOT EXISTS ledger_supply (
	singleton BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
	total NUMERIC(78,0) NOT NULL CHECK (total >= 0)
);
CREATE TABLE IF NOT EXISTS ledger_balances (
	principal TEXT PRIMARY KEY,
	balance NUMERIC(78,0) NOT NULL CHECK (balance >= 0)
);
CREATE TABLE IF NOT EXISTS ledger_allowances (
	owner TEXT NOT NULL,
	spender TEXT NOT NULL,
	amount NUMERIC(78,0) NOT NULL CHECK (amount >= 0),
	PRIMARY KEY (owner, spender)
);
`

// PostgresStore persists the ledger in PostgreSQL. Each operation runs in a
// single transaction with row locks taken in deterministic order, so a
// failing invariant check rolls back without partial effects and concurrent
// operations serialize without deadlocking.
//
// Amounts travel as NUMERIC(78,0) and cross the wire in decimal string form
// to keep full 256-bit precision.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// New constructs a PostgreSQL-backed ledger store.
func New(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the ledger tables when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, ledgerSchema); err != nil {
		return fmt.Errorf("ensure ledger schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) InitializeSupply(ctx context.Context, owner domain.Principal, amount *uint256.Int) (bool, error) {
	if amount == nil {
		amount = uint256.NewInt(0)
	}
	var initialized bool
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`INSERT INTO ledger_supply (singleton, total) VALUES (TRUE, $1::numeric)
			 ON CONFLICT (singleton) DO NOTHING`,
			amount.Dec(),
		)
		if err != nil {
			return fmt.Errorf("insert supply row: %w", err)
		}
		initialized = tag.RowsAffected() == 1
		if !initialized || amount.IsZero() {
			return nil
		}
		return setBalance(ctx, tx, owner, amount)
	})
	if err != nil {
		return false, err
	}
	return initialized, nil
}

func (s *PostgresStore) Balance(ctx context.Context, p domain.Principal) (*uint256.Int, error) {
	var dec string
	err := s.pool.QueryRow(ctx,
		`SELECT balance::text FROM ledger_balances WHERE principal = $1`, p.String(),
	).Scan(&dec)
	if errors.Is(err, pgx.ErrNoRows) {
		return uint256.NewInt(0), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read balance: %w", err)
	}
	return parseAmount(dec)
}

func (s *PostgresStore) TotalSupply(ctx context.Context) (*uint256.Int, error) {
	var dec string
	err := s.pool.QueryRow(ctx, `SELECT total::text FROM ledger_supply`).Scan(&dec)
	if errors.Is(err, pgx.ErrNoRows) {
		return uint256.NewInt(0), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read total supply: %w", err)
	}
	return parseAmount(dec)
}

func (s *PostgresStore) Allowance(ctx context.Context, owner, spender domain.Principal) (*uint256.Int, error) {
	var dec string
	err := s.pool.QueryRow(ctx,
		`SELECT amount::text FROM ledger_allowances WHERE owner = $1 AND spender = $2`,
		owner.String(), spender.String(),
	).Scan(&dec)
	if errors.Is(err, pgx.ErrNoRows) {
		return uint256.NewInt(0), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read allowance: %w", err)
	}
	return parseAmount(dec)
}

func (s *PostgresStore) Transfer(ctx context.Context, from, to domain.Principal, amount *uint256.Int) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return transferTx(ctx, tx, from, to, amount)
	})
}

func (s *PostgresStore) TransferFrom(ctx context.Context, spender, from, to domain.Principal, amount *uint256.Int) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		allowance, found, err := lockAllowance(ctx, tx, from, spender)
		if err != nil {
			return err
		}
		unlimited := domain.IsUnlimited(allowance)
		if !unlimited && allowance.Lt(amount) {
			return pkgerrors.New(pkgerrors.CodeInsufficientAllowance, "allowance below requested amount")
		}

		if err := transferTx(ctx, tx, from, to, amount); err != nil {
			return err
		}

		// The unlimited sentinel is never consumed; finite allowances are.
		if unlimited {
			return nil
		}
		remaining := new(uint256.Int).Sub(allowance, amount)
		return setAllowance(ctx, tx, from, spender, remaining, found)
	})
}

func (s *PostgresStore) SetAllowance(ctx context.Context, owner, spender domain.Principal, amount *uint256.Int) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		_, found, err := lockAllowance(ctx, tx, owner, spender)
		if err != nil {
			return err
		}
		return setAllowance(ctx, tx, owner, spender, amount, found)
	})
}

func (s *PostgresStore) Mint(ctx context.Context, to domain.Principal, amount *uint256.Int) error {
	if to.IsZero() {
		return pkgerrors.New(pkgerrors.CodeInvalidRecipient, "cannot mint to the null principal")
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		supply, err := lockSupply(ctx, tx)
		if err != nil {
			return err
		}
		next, overflow := new(uint256.Int).AddOverflow(supply, amount)
		if overflow {
			return pkgerrors.New(pkgerrors.CodeInvalidInput, "mint overflows total supply")
		}
		if err := setSupply(ctx, tx, next); err != nil {
			return err
		}

		balance, err := lockBalance(ctx, tx, to)
		if err != nil {
			return err
		}
		return setBalance(ctx, tx, to, new(uint256.Int).Add(balance, amount))
	})
}

func (s *PostgresStore) Burn(ctx context.Context, from domain.Principal, amount *uint256.Int) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		supply, err := lockSupply(ctx, tx)
		if err != nil {
			return err
		}
		balance, err := lockBalance(ctx, tx, from)
		if err != nil {
			return err
		}
		if balance.Lt(amount) {
			return pkgerrors.New(pkgerrors.CodeInsufficientBalance, "burn amount exceeds balance")
		}
		if err := setSupply(ctx, tx, new(uint256.Int).Sub(supply, amount)); err != nil {
			return err
		}
		return setBalance(ctx, tx, from, new(uint256.Int).Sub(balance, amount))
	})
}

// transferTx holds the balance-move rules shared by Transfer and
// TransferFrom. Balance rows lock in lexicographic order so concurrent
// opposite-direction transfers cannot deadlock.
func transferTx(ctx context.Context, tx pgx.Tx, from, to domain.Principal, amount *uint256.Int) error {
	if to.IsZero() {
		return pkgerrors.New(pkgerrors.CodeInvalidRecipient, "cannot transfer to the null principal")
	}

	first, second := from, to
	if second < first {
		first, second = second, first
	}
	locked := make(map[domain.Principal]*uint256.Int, 2)
	for _, p := range []domain.Principal{first, second} {
		if _, ok := locked[p]; ok {
			continue
		}
		b, err := lockBalance(ctx, tx, p)
		if err != nil {
			return err
		}
		locked[p] = b
	}

	fromBalance := locked[from]
	if fromBalance.Lt(amount) {
		return pkgerrors.New(pkgerrors.CodeInsufficientBalance, "balance below requested amount")
	}
	if from == to || amount.IsZero() {
		return nil
	}

	if err := setBalance(ctx, tx, from, new(uint256.Int).Sub(fromBalance, amount)); err != nil {
		return err
	}
	return setBalance(ctx, tx, to, new(uint256.Int).Add(locked[to], amount))
}

func lockBalance(ctx context.Context, tx pgx.Tx, p domain.Principal) (*uint256.Int, error) {
	var dec string
	err := tx.QueryRow(ctx,
		`SELECT balance::text FROM ledger_balances WHERE principal = $1 FOR UPDATE`, p.String(),
	).Scan(&dec)
	if errors.Is(err, pgx.ErrNoRows) {
		return uint256.NewInt(0), nil
	}
	if err != nil {
		return nil, fmt.Errorf("lock balance: %w", err)
	}
	return parseAmount(dec)
}

func setBalance(ctx context.Context, tx pgx.Tx, p domain.Principal, amount *uint256.Int) error {
	// Zero balance is equivalent to absence; drop the row instead of storing it.
	if amount.IsZero() {
		if _, err := tx.Exec(ctx, `DELETE FROM ledger_balances WHERE principal = $1`, p.String()); err != nil {
			return fmt.Errorf("delete balance: %w", err)
		}
		return nil
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO ledger_balances (principal, balance) VALUES ($1, $2::numeric)
		 ON CONFLICT (principal) DO UPDATE SET balance = EXCLUDED.balance`,
		p.String(), amount.Dec(),
	)
	if err != nil {
		return fmt.Errorf("write balance: %w", err)
	}
	return nil
}

func lockAllowance(ctx context.Context, tx pgx.Tx, owner, spender domain.Principal) (*uint256.Int, bool, error) {
	var dec string
	err := tx.QueryRow(ctx,
		`SELECT amount::text FROM ledger_allowances WHERE owner = $1 AND spender = $2 FOR UPDATE`,
		owner.String(), spender.String(),
	).Scan(&dec)
	if errors.Is(err, pgx.ErrNoRows) {
		return uint256.NewInt(0), false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("lock allowance: %w", err)
	}
	a, err := parseAmount(dec)
	return a, true, err
}

func setAllowance(ctx context.Context, tx pgx.Tx, owner, spender domain.Principal, amount *uint256.Int, exists bool) error {
	if amount.IsZero() {
		if !exists {
			return nil
		}
		_, err := tx.Exec(ctx,
			`DELETE FROM ledger_allowances WHERE owner = $1 AND spender = $2`,
			owner.String(), spender.String(),
		)
		if err != nil {
			return fmt.Errorf("delete allowance: %w", err)
		}
		return nil
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO ledger_allowances (owner, spender, amount) VALUES ($1, $2, $3::numeric)
		 ON CONFLICT (owner, spender) DO UPDATE SET amount = EXCLUDED.amount`,
		owner.String(), spender.String(), amount.Dec(),
	)
	if err != nil {
		return fmt.Errorf("write allowance: %w", err)
	}
	return nil
}

func lockSupply(ctx context.Context, tx pgx.Tx) (*uint256.Int, error) {
	var dec string
	err := tx.QueryRow(ctx, `SELECT total::text FROM ledger_supply FOR UPDATE`).Scan(&dec)
	if errors.Is(err, pgx.ErrNoRows) {
		return uint256.NewInt(0), nil
	}
	if err != nil {
		return nil, fmt.Errorf("lock supply: %w", err)
	}
	return parseAmount(dec)
}

func setSupply(ctx context.Context, tx pgx.Tx, total *uint256.Int) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO ledger_supply (singleton, total) VALUES (TRUE, $1::numeric)
		 ON CONFLICT (singleton) DO UPDATE SET total = EXCLUDED.total`,
		total.Dec(),
	)
	if err != nil {
		return fmt.Errorf("write supply: %w", err)
	}
	return nil
}

func parseAmount(dec string) (*uint256.Int, error) {
	a, err := uint256.FromDecimal(dec)
	if err != nil {
		return nil, fmt.Errorf("parse stored amount %q: %w", dec, err)
	}
	return a, nil
}
