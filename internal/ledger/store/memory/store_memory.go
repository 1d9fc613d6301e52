package memory

import (
	"context"
	"sync"

	"github.com/holiman/uint256"

	"crossledger/pkg/domain"
	pkgerrors "crossledger/pkg/errors"
)

// InMemoryStore implements the ledger store over plain maps. A single mutex
// serializes all operations, which matches the execution model: every
// operation is an indivisible state transition with no intra-domain
// concurrent mutation.
//
// Zero balances and zero allowances are deleted rather than stored; absence
// and zero are equivalent.
type InMemoryStore struct {
	mu          sync.RWMutex
	balances    map[domain.Principal]*uint256.Int
	allowances  map[domain.Principal]map[domain.Principal]*uint256.Int
	supply      *uint256.Int
	initialized bool
}

// New creates an empty ledger store.
func New() *InMemoryStore {
	return &InMemoryStore{
		balances:   make(map[domain.Principal]*uint256.Int),
		allowances: make(map[domain.Principal]map[domain.Principal]*uint256.Int),
		supply:     uint256.NewInt(0),
	}
}

func (s *InMemoryStore) InitializeSupply(_ context.Context, owner domain.Principal, amount *uint256.Int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return false, nil
	}
	s.initialized = true
	if amount != nil && !amount.IsZero() {
		s.supply = amount.Clone()
		s.balances[owner] = amount.Clone()
	}
	return true, nil
}

func (s *InMemoryStore) Balance(_ context.Context, p domain.Principal) (*uint256.Int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balanceLocked(p), nil
}

func (s *InMemoryStore) TotalSupply(_ context.Context) (*uint256.Int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.supply.Clone(), nil
}

func (s *InMemoryStore) Allowance(_ context.Context, owner, spender domain.Principal) (*uint256.Int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allowanceLocked(owner, spender), nil
}

func (s *InMemoryStore) Transfer(_ context.Context, from, to domain.Principal, amount *uint256.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transferLocked(from, to, amount)
}

func (s *InMemoryStore) TransferFrom(_ context.Context, spender, from, to domain.Principal, amount *uint256.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	allowance := s.allowanceLocked(from, spender)
	unlimited := domain.IsUnlimited(allowance)
	if !unlimited && allowance.Lt(amount) {
		return pkgerrors.New(pkgerrors.CodeInsufficientAllowance, "allowance below requested amount")
	}

	if err := s.transferLocked(from, to, amount); err != nil {
		return err
	}

	// The unlimited sentinel is never consumed; finite allowances are.
	if !unlimited {
		s.setAllowanceLocked(from, spender, new(uint256.Int).Sub(allowance, amount))
	}
	return nil
}

func (s *InMemoryStore) SetAllowance(_ context.Context, owner, spender domain.Principal, amount *uint256.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setAllowanceLocked(owner, spender, amount.Clone())
	return nil
}

func (s *InMemoryStore) Mint(_ context.Context, to domain.Principal, amount *uint256.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if to.IsZero() {
		return pkgerrors.New(pkgerrors.CodeInvalidRecipient, "cannot mint to the null principal")
	}
	supply, overflow := new(uint256.Int).AddOverflow(s.supply, amount)
	if overflow {
		return pkgerrors.New(pkgerrors.CodeInvalidInput, "mint overflows total supply")
	}
	s.supply = supply
	s.creditLocked(to, amount)
	return nil
}

func (s *InMemoryStore) Burn(_ context.Context, from domain.Principal, amount *uint256.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	balance := s.balanceLocked(from)
	if balance.Lt(amount) {
		return pkgerrors.New(pkgerrors.CodeInsufficientBalance, "burn amount exceeds balance")
	}
	s.supply = new(uint256.Int).Sub(s.supply, amount)
	s.debitLocked(from, balance, amount)
	return nil
}

// transferLocked holds the balance-move rules shared by Transfer and
// TransferFrom. Must be called while holding s.mu.
func (s *InMemoryStore) transferLocked(from, to domain.Principal, amount *uint256.Int) error {
	if to.IsZero() {
		return pkgerrors.New(pkgerrors.CodeInvalidRecipient, "cannot transfer to the null principal")
	}
	balance := s.balanceLocked(from)
	if balance.Lt(amount) {
		return pkgerrors.New(pkgerrors.CodeInsufficientBalance, "balance below requested amount")
	}
	s.debitLocked(from, balance, amount)
	s.creditLocked(to, amount)
	return nil
}

func (s *InMemoryStore) balanceLocked(p domain.Principal) *uint256.Int {
	if b, ok := s.balances[p]; ok {
		return b.Clone()
	}
	return uint256.NewInt(0)
}

func (s *InMemoryStore) allowanceLocked(owner, spender domain.Principal) *uint256.Int {
	if row, ok := s.allowances[owner]; ok {
		if a, ok := row[spender]; ok {
			return a.Clone()
		}
	}
	return uint256.NewInt(0)
}

func (s *InMemoryStore) creditLocked(p domain.Principal, amount *uint256.Int) {
	if amount.IsZero() {
		return
	}
	if b, ok := s.balances[p]; ok {
		s.balances[p] = new(uint256.Int).Add(b, amount)
		return
	}
	s.balances[p] = amount.Clone()
}

// debitLocked subtracts amount from p's balance; callers have already proven
// balance >= amount.
func (s *InMemoryStore) debitLocked(p domain.Principal, balance, amount *uint256.Int) {
	remaining := new(uint256.Int).Sub(balance, amount)
	if remaining.IsZero() {
		delete(s.balances, p)
		return
	}
	s.balances[p] = remaining
}

func (s *InMemoryStore) setAllowanceLocked(owner, spender domain.Principal, amount *uint256.Int) {
	if amount.IsZero() {
		if row, ok := s.allowances[owner]; ok {
			delete(row, spender)
			if len(row) == 0 {
				delete(s.allowances, owner)
			}
		}
		return
	}
	row, ok := s.allowances[owner]
	if !ok {
		row = make(map[domain.Principal]*uint256.Int)
		s.allowances[owner] = row
	}
	row[spender] = amount
}
