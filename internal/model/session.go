package model

import (
	"time"

	"github.com/google/uuid"
)

// LogoutToken replaces the session cookie value on logout.
const LogoutToken = "logout"

// TokenManager issues and parses signed session assertions.
type TokenManager interface {
	Issue(subject uuid.UUID, role Role, name string, ttl time.Duration) (Session, error)
	Parse(token string) (SessionClaims, error)
}

// Session is an issued session assertion together with its validity window.
type Session struct {
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// SessionClaims is what a verified session assertion says about its bearer.
type SessionClaims struct {
	Subject   uuid.UUID
	Role      Role
	Name      string
	ExpiresAt time.Time
}
