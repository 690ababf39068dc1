package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role is the privilege level of an account.
type Role string

const (
	// RoleAdmin is granted automatically to the first account ever registered.
	RoleAdmin Role = "admin"
	// RoleUser is the standard member role.
	RoleUser Role = "user"
)

// AccountStore defines persistence operations for accounts.
type AccountStore interface {
	GetByEmail(ctx context.Context, email string) (Account, error)
	Count(ctx context.Context) (int64, error)
	// Create persists the account and returns it with the store-assigned ID.
	// It returns ErrDuplicateEmail when the email is already registered.
	Create(ctx context.Context, account Account) (Account, error)
	// WithinTx runs fn against a store whose Count and Create are serialized
	// with every other WithinTx caller, so role bootstrap cannot race.
	WithinTx(ctx context.Context, fn func(ctx context.Context, store AccountStore) error) error
}

// Account represents a registered identity.
type Account struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
