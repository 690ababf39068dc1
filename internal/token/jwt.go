package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/authkeeper/internal/model"
)

var _ model.TokenManager = (*JWT)(nil)

// Claims is the payload of a session token. Field names are shared with
// every service that verifies these tokens.
type Claims struct {
	jwt.RegisteredClaims
	UserID   uuid.UUID  `json:"userId"`
	Role     model.Role `json:"role"`
	Username string     `json:"username"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey string
	now       func() time.Time
}

// NewJWT creates a new JWT token manager with the provided secret key.
func NewJWT(secretKey string) *JWT {
	return &JWT{secretKey: secretKey, now: time.Now}
}

// Issue signs a session token for subject that expires ttl from now.
func (j *JWT) Issue(subject uuid.UUID, role model.Role, name string, ttl time.Duration) (model.Session, error) {
	if j.secretKey == "" {
		return model.Session{}, model.ErrMissingSecret
	}

	// NumericDate has second precision, so the returned window is truncated
	// to match what the token itself says.
	issuedAt := j.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:   subject,
		Role:     role,
		Username: name,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return model.Session{
		Token:     tokenString,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// Parse validates signature and expiry and returns what the token asserts.
func (j *JWT) Parse(tokenString string) (model.SessionClaims, error) {
	if j.secretKey == "" {
		return model.SessionClaims{}, model.ErrMissingSecret
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(j.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.SessionClaims{}, model.ErrTokenExpired
		}
		return model.SessionClaims{}, fmt.Errorf("%w: %v", model.ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == uuid.Nil {
		return model.SessionClaims{}, model.ErrInvalidToken
	}

	return model.SessionClaims{
		Subject:   claims.UserID,
		Role:      claims.Role,
		Name:      claims.Username,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
