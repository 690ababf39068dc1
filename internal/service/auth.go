package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dtroode/authkeeper/internal/apierrors"
	"github.com/dtroode/authkeeper/internal/logger"
	"github.com/dtroode/authkeeper/internal/model"
)

// SessionTTL is how long an issued session stays valid.
const SessionTTL = 24 * time.Hour

const (
	MsgRegisterFieldsRequired = "Name, email, and password are required."
	MsgLoginFieldsRequired    = "Email and password are required."
	MsgPasswordTooLong        = "Password must be at most 72 bytes."

	// decoyPassword is hashed once and compared against on logins for
	// unknown emails, so both failure paths cost one hash comparison.
	decoyPassword = "authkeeper-decoy-password"
)

type Auth struct {
	accounts model.AccountStore
	hasher   model.PasswordHasher
	tokens   model.TokenManager
	logger   *logger.Logger
	now      func() time.Time

	decoyMu   sync.Mutex
	decoyHash string
}

func NewAuth(
	accounts model.AccountStore,
	hasher model.PasswordHasher,
	tokens model.TokenManager,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
		now:      time.Now,
	}
}

// Register creates an account. The first account in an empty store becomes
// admin; every later one is a standard user.
func (a *Auth) Register(ctx context.Context, params model.RegisterParams) error {
	a.logger.Debug("Auth service: starting account registration",
		"email", params.Email)

	if params.Name == "" || params.Email == "" || params.Password == "" {
		return apierrors.NewErrMissingFields(MsgRegisterFieldsRequired)
	}

	// Checked before hashing so a doomed request does not pay for bcrypt.
	// Create still reports duplicates, which covers concurrent registrations.
	_, err := a.accounts.GetByEmail(ctx, params.Email)
	if err == nil {
		a.logger.Info("Auth service: email already registered",
			"email", params.Email)
		return apierrors.NewErrEmailIsTaken(params.Email)
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get account by email",
			"email", params.Email,
			"error", err.Error())
		return apierrors.NewErrInternalServerError(fmt.Errorf("failed to get account by email: %w", err))
	}

	hash, err := a.hasher.Hash(ctx, params.Password)
	if err != nil {
		if errors.Is(err, model.ErrPasswordTooLong) {
			return apierrors.NewErrInvalidInput(MsgPasswordTooLong, err)
		}
		a.logger.Error("Auth service: failed to hash password",
			"email", params.Email,
			"error", err.Error())
		return apierrors.NewErrHashing(err)
	}

	var created model.Account
	err = a.accounts.WithinTx(ctx, func(ctx context.Context, store model.AccountStore) error {
		count, err := store.Count(ctx)
		if err != nil {
			return fmt.Errorf("failed to count accounts: %w", err)
		}

		now := a.now()
		created, err = store.Create(ctx, model.Account{
			Name:         params.Name,
			Email:        params.Email,
			PasswordHash: hash,
			Role:         DecideRole(count),
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrDuplicateEmail) {
			a.logger.Info("Auth service: email registered concurrently",
				"email", params.Email)
			return apierrors.NewErrEmailIsTaken(params.Email)
		}
		a.logger.Error("Auth service: failed to persist account",
			"email", params.Email,
			"error", err.Error())
		return apierrors.NewErrInternalServerError(err)
	}

	a.logger.Info("Auth service: account registration completed",
		"account_id", created.ID,
		"role", created.Role)

	return nil
}

// Login checks credentials and issues a session. Unknown emails and wrong
// passwords fail with the same error.
func (a *Auth) Login(ctx context.Context, params model.LoginParams) (model.LoginResult, error) {
	a.logger.Debug("Auth service: starting login",
		"email", params.Email)

	if params.Email == "" || params.Password == "" {
		return model.LoginResult{}, apierrors.NewErrMissingFields(MsgLoginFieldsRequired)
	}

	account, err := a.accounts.GetByEmail(ctx, params.Email)
	if errors.Is(err, model.ErrNotFound) {
		a.burnDecoy(ctx, params.Password)
		a.logger.Info("Auth service: login rejected",
			"email", params.Email)
		return model.LoginResult{}, apierrors.NewErrInvalidCredentials()
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get account by email",
			"email", params.Email,
			"error", err.Error())
		return model.LoginResult{}, apierrors.NewErrInternalServerError(fmt.Errorf("failed to get account by email: %w", err))
	}

	ok, err := a.hasher.Verify(ctx, params.Password, account.PasswordHash)
	if err != nil {
		a.logger.Error("Auth service: failed to verify password",
			"account_id", account.ID,
			"error", err.Error())
		return model.LoginResult{}, apierrors.NewErrHashing(err)
	}
	if !ok {
		a.logger.Info("Auth service: login rejected",
			"email", params.Email)
		return model.LoginResult{}, apierrors.NewErrInvalidCredentials()
	}

	session, err := a.tokens.Issue(account.ID, account.Role, account.Name, SessionTTL)
	if err != nil {
		a.logger.Error("Auth service: failed to issue session",
			"account_id", account.ID,
			"error", err.Error())
		return model.LoginResult{}, apierrors.NewErrIssuance(err)
	}

	a.logger.Info("Auth service: login completed",
		"account_id", account.ID,
		"expires_at", session.ExpiresAt)

	return model.LoginResult{Name: account.Name, Session: session}, nil
}

// Logout returns the placeholder that replaces the session cookie. It is
// already expired. Issued tokens stay valid until their own expiry.
func (a *Auth) Logout(_ context.Context) model.Session {
	now := a.now()
	return model.Session{
		Token:     model.LogoutToken,
		IssuedAt:  now,
		ExpiresAt: now,
	}
}

// WarmUp prepares the decoy hash compared against on logins for unknown
// emails. Call it before serving so the first such login costs one
// comparison, like a wrong password does.
func (a *Auth) WarmUp(ctx context.Context) error {
	if _, err := a.decoy(ctx); err != nil {
		return fmt.Errorf("failed to prepare decoy hash: %w", err)
	}
	return nil
}

func (a *Auth) decoy(ctx context.Context) (string, error) {
	a.decoyMu.Lock()
	defer a.decoyMu.Unlock()

	if a.decoyHash != "" {
		return a.decoyHash, nil
	}

	hash, err := a.hasher.Hash(ctx, decoyPassword)
	if err != nil {
		return "", err
	}
	a.decoyHash = hash
	return hash, nil
}

func (a *Auth) burnDecoy(ctx context.Context, password string) {
	hash, err := a.decoy(context.WithoutCancel(ctx))
	if err != nil {
		a.logger.Warn("Auth service: failed to prepare decoy hash",
			"error", err.Error())
		return
	}
	_, _ = a.hasher.Verify(ctx, password, hash)
}
