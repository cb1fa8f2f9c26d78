package repository

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/darisadam/bankist-server/internal/domain/account"
	"github.com/google/uuid"
)

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrLoanNotCovered    = errors.New("no movement covers the requested loan")
)

// AccountRepository holds the ordered account list. Every mutation runs to
// completion under one lock, and values handed out are copies.
type AccountRepository interface {
	Create(acc *account.Account) error
	GetByID(id uuid.UUID) (*account.Account, error)
	GetByUsername(username string) (*account.Account, error)
	List() []*account.Account
	Count() int

	// Atomic ledger operations. Preconditions that depend on the ledger are
	// re-checked under the lock.
	ExecuteTransfer(fromID, toID uuid.UUID, amount float64) (*account.Account, error)
	ExecuteLoan(id uuid.UUID, amount float64) (*account.Account, error)
	Delete(id uuid.UUID) error
}

type accountRepository struct {
	mu       sync.RWMutex
	accounts []*account.Account
}

func NewAccountRepository() AccountRepository {
	return &accountRepository{}
}

func (r *accountRepository) Create(acc *account.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if a.ID == acc.ID {
			return fmt.Errorf("account %s already exists", acc.ID)
		}
		if a.Username == acc.Username {
			return fmt.Errorf("%w: %q", ErrDuplicateUsername, acc.Username)
		}
	}

	r.accounts = append(r.accounts, acc.Clone())
	return nil
}

func (r *accountRepository) GetByID(id uuid.UUID) (*account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acc, _ := r.find(id)
	if acc == nil {
		return nil, ErrAccountNotFound
	}
	return acc.Clone(), nil
}

// GetByUsername returns the first account in list order with that username.
func (r *accountRepository) GetByUsername(username string) (*account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.Username == username {
			return a.Clone(), nil
		}
	}
	return nil, ErrAccountNotFound
}

func (r *accountRepository) List() []*account.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*account.Account, len(r.accounts))
	for i, a := range r.accounts {
		out[i] = a.Clone()
	}
	return out
}

func (r *accountRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts)
}

func (r *accountRepository) ExecuteTransfer(fromID, toID uuid.UUID, amount float64) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	from, _ := r.find(fromID)
	to, _ := r.find(toID)
	if from == nil || to == nil {
		return nil, ErrAccountNotFound
	}
	if from.Balance() < amount {
		return nil, ErrInsufficientFunds
	}

	// Both sides are posted together or not at all.
	from.Movements = append(from.Movements, -amount)
	to.Movements = append(to.Movements, amount)

	return from.Clone(), nil
}

func (r *accountRepository) ExecuteLoan(id uuid.UUID, amount float64) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, _ := r.find(id)
	if acc == nil {
		return nil, ErrAccountNotFound
	}
	if !acc.QualifiesForLoan(amount) {
		return nil, ErrLoanNotCovered
	}

	acc.Movements = append(acc.Movements, amount)
	return acc.Clone(), nil
}

// Delete removes exactly the entry whose id matches.
func (r *accountRepository) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, idx := r.find(id)
	if idx < 0 {
		return ErrAccountNotFound
	}
	r.accounts = slices.Delete(r.accounts, idx, idx+1)
	return nil
}

func (r *accountRepository) find(id uuid.UUID) (*account.Account, int) {
	for i, a := range r.accounts {
		if a.ID == id {
			return a, i
		}
	}
	return nil, -1
}
