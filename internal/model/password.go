package model

import "context"

// PasswordHasher turns plaintext passwords into salted one-way hashes and
// checks candidates against them.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	// Verify returns (false, nil) on mismatch and an error only when the
	// stored hash is unusable.
	Verify(ctx context.Context, password, hash string) (bool, error)
}
