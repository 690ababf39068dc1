package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/authkeeper/internal/api/http/handler"
	"github.com/dtroode/authkeeper/internal/apierrors"
	"github.com/dtroode/authkeeper/internal/logger"
	"github.com/dtroode/authkeeper/internal/model"
)

// SessionVerifier resolves a session token into the identity it asserts.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (model.SessionClaims, error)
}

// ContextManager stores the verified identity on the request.
type ContextManager interface {
	SetSession(c *gin.Context, claims model.SessionClaims)
}

// Authenticate validates session tokens and injects the identity into the
// request context.
type Authenticate struct {
	verifier       SessionVerifier
	contextManager ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(verifier SessionVerifier, contextManager ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{verifier: verifier, contextManager: contextManager, logger: logger}
}

// Handle reads the session cookie, falling back to a bearer Authorization
// header when the cookie is absent or holds the logout placeholder, and
// aborts with 401 when no valid session is presented.
func (m *Authenticate) Handle(c *gin.Context) {
	claims, err := m.verifier.Verify(c.Request.Context(), tokenFromRequest(c))
	if err != nil {
		m.logger.Debug("Authenticate middleware: request rejected",
			"path", c.FullPath(),
			"error", err.Error())
		code, msg := apierrors.ToHTTP(err)
		c.AbortWithStatusJSON(code, gin.H{"msg": msg})
		return
	}

	m.contextManager.SetSession(c, claims)
	c.Next()
}

func tokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(handler.SessionCookie); err == nil && token != "" && token != model.LogoutToken {
		return token
	}

	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	return ""
}
