// Package password stores and checks account passwords with bcrypt.
package password

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/authkeeper/internal/model"
)

var _ model.PasswordHasher = (*Bcrypt)(nil)

// DefaultCost matches the work factor of bcrypt.DefaultCost.
const DefaultCost = bcrypt.DefaultCost

// MaxPasswordBytes is the longest password bcrypt reads in full.
const MaxPasswordBytes = 72

// Bcrypt implements PasswordHasher. At most concurrency hash or compare
// operations run at once; callers beyond that wait for a slot or for ctx.
type Bcrypt struct {
	cost  int
	slots chan struct{}
}

// NewBcrypt creates a hasher with the given cost. A concurrency below one
// means runtime.NumCPU().
func NewBcrypt(cost, concurrency int) (*Bcrypt, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if concurrency < 1 {
		concurrency = runtime.NumCPU()
	}

	return &Bcrypt{
		cost:  cost,
		slots: make(chan struct{}, concurrency),
	}, nil
}

// Hash returns a salted bcrypt hash. Every call draws a fresh salt.
func (b *Bcrypt) Hash(ctx context.Context, password string) (string, error) {
	if err := b.acquire(ctx); err != nil {
		return "", err
	}
	defer b.release()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", model.ErrPasswordTooLong
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// Verify compares password against hash in constant time. Passwords longer
// than MaxPasswordBytes never match: bcrypt would compare only their prefix.
func (b *Bcrypt) Verify(ctx context.Context, password, hash string) (bool, error) {
	if len(password) > MaxPasswordBytes {
		return false, nil
	}

	if err := b.acquire(ctx); err != nil {
		return false, err
	}
	defer b.release()

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", model.ErrInvalidHash, err)
	}
}

// Cost returns the work factor used for new hashes.
func (b *Bcrypt) Cost() int {
	return b.cost
}

func (b *Bcrypt) acquire(ctx context.Context) error {
	select {
	case b.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for hashing slot: %w", ctx.Err())
	}
}

func (b *Bcrypt) release() {
	<-b.slots
}
