// Package memory keeps accounts in process memory. It backs development
// runs and tests; data is lost on restart.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/authkeeper/internal/model"
)

var _ model.AccountStore = (*AccountRepository)(nil)

type AccountRepository struct {
	mu       sync.RWMutex
	txMu     sync.Mutex
	accounts map[string]model.Account
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: make(map[string]model.Account),
	}
}

func (r *AccountRepository) GetByEmail(_ context.Context, email string) (model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[email]
	if !ok {
		return model.Account{}, model.ErrNotFound
	}
	return account, nil
}

func (r *AccountRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.accounts)), nil
}

func (r *AccountRepository) Create(_ context.Context, account model.Account) (model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[account.Email]; ok {
		return model.Account{}, model.ErrDuplicateEmail
	}

	account.ID = uuid.New()
	r.accounts[account.Email] = account

	return account, nil
}

// WithinTx serializes fn with other WithinTx callers. Reads and writes
// made by fn are not rolled back if it fails.
func (r *AccountRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, store model.AccountStore) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	return fn(ctx, r)
}
