package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/authkeeper/internal/model"
)

var _ model.AccountStore = (*AccountRepository)(nil)

// registrationLockKey is the advisory lock serializing count-then-create
// across every registration, whichever process runs it.
const registrationLockKey int64 = 0x61757468

type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txBeginner interface {
	querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

type AccountRepository struct {
	accountQueries
	db txBeginner
}

func NewAccountRepository(db txBeginner) *AccountRepository {
	return &AccountRepository{
		accountQueries: accountQueries{q: db},
		db:             db,
	}
}

// WithinTx runs fn inside a transaction holding the registration advisory
// lock. The transaction is rolled back when fn fails.
func (r *AccountRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, store model.AccountStore) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, registrationLockKey); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("failed to acquire registration lock: %w", err)
	}

	if err := fn(ctx, txAccountRepository{accountQueries{q: tx}}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

type txAccountRepository struct {
	accountQueries
}

// WithinTx reuses the enclosing transaction.
func (r txAccountRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, store model.AccountStore) error) error {
	return fn(ctx, r)
}

type accountQueries struct {
	q querier
}

func (r accountQueries) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	var (
		account model.Account
		role    string
	)
	query := `SELECT id, name, email, password_hash, role, created_at, updated_at
			  FROM accounts WHERE email = $1`

	err := r.q.QueryRow(ctx, query, email).Scan(
		&account.ID, &account.Name, &account.Email, &account.PasswordHash, &role,
		&account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to get account by email: %w", err)
	}
	account.Role = model.Role(role)

	return account, nil
}

func (r accountQueries) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}

func (r accountQueries) Create(ctx context.Context, account model.Account) (model.Account, error) {
	query := `INSERT INTO accounts (name, email, password_hash, role, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`

	err := r.q.QueryRow(ctx, query,
		account.Name, account.Email, account.PasswordHash, string(account.Role),
		account.CreatedAt, account.UpdatedAt,
	).Scan(&account.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.Account{}, model.ErrDuplicateEmail
		}
		return model.Account{}, fmt.Errorf("failed to create account: %w", err)
	}

	return account, nil
}
