package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/authkeeper/internal/model"
)

var (
	selectByEmailSQL = regexp.QuoteMeta(`SELECT id, name, email, password_hash, role, created_at, updated_at`)
	countSQL         = regexp.QuoteMeta(`SELECT COUNT(*) FROM accounts`)
	insertSQL        = regexp.QuoteMeta(`INSERT INTO accounts`)
	lockSQL          = regexp.QuoteMeta(`SELECT pg_advisory_xact_lock($1)`)
)

func TestAccountRepository_GetByEmail(t *testing.T) {
	id := uuid.New()
	now := time.Now()

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		want      model.Account
		wantErr   error
		errMsg    string
	}{
		{
			name: "found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "created_at", "updated_at"}).
					AddRow(id, "A", "a@x.com", "hash", "admin", now, now)
				mock.ExpectQuery(selectByEmailSQL).WithArgs("a@x.com").WillReturnRows(rows)
			},
			want: model.Account{ID: id, Name: "A", Email: "a@x.com", PasswordHash: "hash", Role: model.RoleAdmin, CreatedAt: now, UpdatedAt: now},
		},
		{
			name: "not found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(selectByEmailSQL).WithArgs("a@x.com").WillReturnError(pgx.ErrNoRows)
			},
			wantErr: model.ErrNotFound,
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(selectByEmailSQL).WithArgs("a@x.com").WillReturnError(assert.AnError)
			},
			wantErr: assert.AnError,
			errMsg:  "failed to get account by email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewAccountRepository(mock)
			got, err := repo.GetByEmail(context.Background(), "a@x.com")

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestAccountRepository_Count(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(countSQL).WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))
	mock.ExpectQuery(countSQL).WillReturnError(assert.AnError)

	repo := NewAccountRepository(mock)

	got, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), got)

	_, err = repo.Count(context.Background())
	require.ErrorIs(t, err, assert.AnError)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Create(t *testing.T) {
	id := uuid.New()
	account := model.Account{Name: "A", Email: "a@x.com", PasswordHash: "hash", Role: model.RoleAdmin, CreatedAt: time.Now(), UpdatedAt: time.Now()}

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "store assigns id",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(insertSQL).
					WithArgs("A", "a@x.com", "hash", "admin", pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(id))
			},
		},
		{
			name: "unique violation maps to duplicate email",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(insertSQL).
					WithArgs("A", "a@x.com", "hash", "admin", pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "accounts_email_key"})
			},
			wantErr: model.ErrDuplicateEmail,
		},
		{
			name: "other error is wrapped",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(insertSQL).
					WithArgs("A", "a@x.com", "hash", "admin", pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnError(assert.AnError)
			},
			wantErr: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewAccountRepository(mock)
			got, err := repo.Create(context.Background(), account)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, id, got.ID)
				assert.Equal(t, account.Email, got.Email)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAccountRepository_WithinTx(t *testing.T) {
	t.Run("commits on success", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectExec(lockSQL).WithArgs(registrationLockKey).WillReturnResult(pgxmock.NewResult("SELECT", 1))
		mock.ExpectQuery(countSQL).WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
		mock.ExpectQuery(insertSQL).
			WithArgs("A", "a@x.com", "hash", "admin", pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(uuid.New()))
		mock.ExpectCommit()

		repo := NewAccountRepository(mock)
		err = repo.WithinTx(context.Background(), func(ctx context.Context, store model.AccountStore) error {
			n, err := store.Count(ctx)
			if err != nil {
				return err
			}
			assert.Zero(t, n)
			_, err = store.Create(ctx, model.Account{Name: "A", Email: "a@x.com", PasswordHash: "hash", Role: model.RoleAdmin})
			return err
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when fn fails", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectExec(lockSQL).WithArgs(registrationLockKey).WillReturnResult(pgxmock.NewResult("SELECT", 1))
		mock.ExpectRollback()

		repo := NewAccountRepository(mock)
		err = repo.WithinTx(context.Background(), func(context.Context, model.AccountStore) error {
			return assert.AnError
		})
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lock failure rolls back", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectExec(lockSQL).WithArgs(registrationLockKey).WillReturnError(assert.AnError)
		mock.ExpectRollback()

		repo := NewAccountRepository(mock)
		err = repo.WithinTx(context.Background(), func(context.Context, model.AccountStore) error {
			t.Fatal("fn must not run without the lock")
			return nil
		})
		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "registration lock")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin().WillReturnError(assert.AnError)

		repo := NewAccountRepository(mock)
		err = repo.WithinTx(context.Background(), func(context.Context, model.AccountStore) error { return nil })
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNewAccountRepository(t *testing.T) {
	db := &Connection{}
	repo := NewAccountRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}
