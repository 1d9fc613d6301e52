package authority

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"crossledger/pkg/domain"
)

const ownerSchema = `
CREATE TABLE IF NOT EXISTS ledger_owner (
	singleton BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
	owner TEXT NOT NULL
);
`

// PostgresStore persists the owner principal in PostgreSQL. The renounced
// state is an empty owner column, kept distinct from an absent row so a
// restart cannot resurrect ownership by re-seeding.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed owner store.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the owner table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, ownerSchema); err != nil {
		return fmt.Errorf("ensure owner schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) InitializeOwner(ctx context.Context, owner domain.Principal) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO ledger_owner (singleton, owner) VALUES (TRUE, $1)
		 ON CONFLICT (singleton) DO NOTHING`,
		owner.String(),
	)
	if err != nil {
		return false, fmt.Errorf("initialize owner: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PostgresStore) Owner(ctx context.Context) (domain.Principal, error) {
	var owner string
	err := s.pool.QueryRow(ctx, `SELECT owner FROM ledger_owner`).Scan(&owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Zero, nil
	}
	if err != nil {
		return domain.Zero, fmt.Errorf("read owner: %w", err)
	}
	return domain.Principal(owner), nil
}

func (s *PostgresStore) SetOwner(ctx context.Context, owner domain.Principal) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO ledger_owner (singleton, owner) VALUES (TRUE, $1)
		 ON CONFLICT (singleton) DO UPDATE SET owner = EXCLUDED.owner`,
		owner.String(),
	)
	if err != nil {
		return fmt.Errorf("write owner: %w", err)
	}
	return nil
}
