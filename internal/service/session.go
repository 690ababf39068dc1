package service

import (
	"context"

	"github.com/dtroode/authkeeper/internal/apierrors"
	"github.com/dtroode/authkeeper/internal/logger"
	"github.com/dtroode/authkeeper/internal/model"
)

// Sessions verifies session tokens presented on protected requests. It
// accepts exactly what Auth.Login issues, signed with the same secret.
type Sessions struct {
	tokens model.TokenManager
	logger *logger.Logger
}

func NewSessions(tokens model.TokenManager, logger *logger.Logger) *Sessions {
	return &Sessions{tokens: tokens, logger: logger}
}

// Verify returns the identity asserted by token. The logout placeholder and
// expired or forged tokens are rejected as unauthenticated.
func (s *Sessions) Verify(_ context.Context, token string) (model.SessionClaims, error) {
	if token == "" {
		return model.SessionClaims{}, apierrors.NewErrMissingAuthorizationToken()
	}
	if token == model.LogoutToken {
		return model.SessionClaims{}, apierrors.NewErrInvalidAuthorizationToken(model.ErrLoggedOutSession)
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		s.logger.Debug("Session service: token rejected",
			"error", err.Error())
		return model.SessionClaims{}, apierrors.NewErrInvalidAuthorizationToken(err)
	}

	return claims, nil
}
