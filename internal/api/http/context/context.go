package context

import (
	"github.com/gin-gonic/gin"

	"github.com/dtroode/authkeeper/internal/model"
)

// sessionKey is the gin context key holding the verified session claims.
const sessionKey = "authkeeper.session"

// Manager stores and retrieves the authenticated identity of a request.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetSession attaches verified session claims to the request context.
func (m *Manager) SetSession(c *gin.Context, claims model.SessionClaims) {
	c.Set(sessionKey, claims)
}

// GetSession returns the session claims set by the authentication
// middleware. The boolean is false on routes that are not protected.
func (m *Manager) GetSession(c *gin.Context) (model.SessionClaims, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return model.SessionClaims{}, false
	}

	claims, ok := v.(model.SessionClaims)
	return claims, ok
}
