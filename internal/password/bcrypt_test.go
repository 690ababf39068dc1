package password

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/authkeeper/internal/model"
)

func newTestHasher(t *testing.T) *Bcrypt {
	t.Helper()
	h, err := NewBcrypt(bcrypt.MinCost, 2)
	require.NoError(t, err)
	return h
}

func TestNewBcrypt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cost    int
		wantErr bool
	}{
		{name: "default cost", cost: DefaultCost},
		{name: "min cost", cost: bcrypt.MinCost},
		{name: "max cost", cost: bcrypt.MaxCost},
		{name: "below min", cost: bcrypt.MinCost - 1, wantErr: true},
		{name: "above max", cost: bcrypt.MaxCost + 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, err := NewBcrypt(tt.cost, 0)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cost, h.Cost())
			assert.Positive(t, cap(h.slots))
		})
	}
}

func TestBcrypt_HashVerifyRoundTrip(t *testing.T) {
	t.Parallel()
	h := newTestHasher(t)
	ctx := context.Background()

	for _, pw := range []string{"pw1", "correct horse battery staple", "пароль", " "} {
		hash, err := h.Hash(ctx, pw)
		require.NoError(t, err)
		assert.NotEqual(t, pw, hash)

		ok, err := h.Verify(ctx, pw, hash)
		require.NoError(t, err)
		assert.True(t, ok, "password %q should verify", pw)
	}
}

func TestBcrypt_HashIsSalted(t *testing.T) {
	t.Parallel()
	h := newTestHasher(t)
	ctx := context.Background()

	first, err := h.Hash(ctx, "same")
	require.NoError(t, err)
	second, err := h.Hash(ctx, "same")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestBcrypt_VerifyMismatch(t *testing.T) {
	t.Parallel()
	h := newTestHasher(t)
	ctx := context.Background()

	hash, err := h.Hash(ctx, "pw2")
	require.NoError(t, err)

	ok, err := h.Verify(ctx, "pw1", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBcrypt_VerifyCorruptedHash(t *testing.T) {
	t.Parallel()
	h := newTestHasher(t)

	for _, stored := range []string{"", "not-a-hash", "$2a$99$abcdefghijklmnopqrstuvwxyz0123456789abcdefghijklmnopq"} {
		ok, err := h.Verify(context.Background(), "pw", stored)
		assert.False(t, ok)
		assert.ErrorIs(t, err, model.ErrInvalidHash)
	}
}

func TestBcrypt_HashTooLong(t *testing.T) {
	t.Parallel()
	h := newTestHasher(t)

	_, err := h.Hash(context.Background(), strings.Repeat("a", 73))
	assert.ErrorIs(t, err, model.ErrPasswordTooLong)
}

func TestBcrypt_VerifyRejectsPasswordPastLimit(t *testing.T) {
	t.Parallel()
	h := newTestHasher(t)
	ctx := context.Background()

	stored := strings.Repeat("a", MaxPasswordBytes)
	hash, err := h.Hash(ctx, stored)
	require.NoError(t, err)

	ok, err := h.Verify(ctx, stored, hash)
	require.NoError(t, err)
	assert.True(t, ok)

	for _, extra := range []string{"b", "EXTRA"} {
		ok, err = h.Verify(ctx, stored+extra, hash)
		require.NoError(t, err)
		assert.False(t, ok, "a longer password sharing the stored prefix must not match")
	}
}

func TestBcrypt_CancelledWhileWaiting(t *testing.T) {
	t.Parallel()
	h, err := NewBcrypt(bcrypt.MinCost, 1)
	require.NoError(t, err)

	h.slots <- struct{}{}
	defer h.release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = h.Hash(ctx, "pw")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = h.Verify(ctx, "pw", "hash")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBcrypt_ConcurrentUse(t *testing.T) {
	t.Parallel()
	h := newTestHasher(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hash, err := h.Hash(ctx, "concurrent")
			assert.NoError(t, err)
			ok, err := h.Verify(ctx, "concurrent", hash)
			assert.NoError(t, err)
			assert.True(t, ok)
		}()
	}
	wg.Wait()
	assert.Len(t, h.slots, 0)
}
