package model

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")

	ErrInvalidHash      = errors.New("stored password hash is invalid")
	ErrPasswordTooLong  = errors.New("password exceeds 72 bytes")
	ErrMissingSecret    = errors.New("signing secret is not configured")
	ErrInvalidToken     = errors.New("session token is invalid")
	ErrTokenExpired     = errors.New("session token expired")
	ErrLoggedOutSession = errors.New("session was logged out")
)
