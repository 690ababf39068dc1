package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/authkeeper/internal/apierrors"
	"github.com/dtroode/authkeeper/internal/logger"
	"github.com/dtroode/authkeeper/internal/model"
	"github.com/dtroode/authkeeper/internal/service"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "token"

const (
	msgRegistered = "User registered successfully."
	msgLoggedOut  = "User logged out successfully."
	msgWelcome    = "Welcome back, "
)

// AuthService defines account registration and session operations.
type AuthService interface {
	Register(ctx context.Context, params model.RegisterParams) error
	Login(ctx context.Context, params model.LoginParams) (model.LoginResult, error)
	Logout(ctx context.Context) model.Session
}

// ContextManager reads the identity stored by the authentication middleware.
type ContextManager interface {
	GetSession(c *gin.Context) (model.SessionClaims, bool)
}

// Observer records the outcome of auth operations.
type Observer interface {
	ObserveRegister(err error)
	ObserveLogin(err error)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type messageResponse struct {
	Msg string `json:"msg"`
}

type loginResponse struct {
	Msg   string `json:"msg"`
	Token string `json:"token"`
}

type meResponse struct {
	UserID string     `json:"userId"`
	Role   model.Role `json:"role"`
	Name   string     `json:"name"`
}

// Auth handles HTTP endpoints for authentication.
type Auth struct {
	authService    AuthService
	contextManager ContextManager
	observer       Observer
	secureCookie   bool
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler. secureCookie sets the Secure flag on
// the session cookie and is enabled in production.
func NewAuth(
	authService AuthService,
	contextManager ContextManager,
	observer Observer,
	secureCookie bool,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		observer:       observer,
		secureCookie:   secureCookie,
		logger:         logger,
	}
}

// Register creates an account. A body that is not a JSON object is treated
// as one with no fields.
func (h *Auth) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Auth handler: malformed registration body",
			"error", err.Error())
		err = apierrors.NewErrMissingFields(service.MsgRegisterFieldsRequired)
		h.observer.ObserveRegister(err)
		handleError(c, err)
		return
	}

	err := h.authService.Register(c.Request.Context(), model.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	h.observer.ObserveRegister(err)
	if err != nil {
		h.logger.Info("Auth handler: registration failed",
			"email", req.Email,
			"kind", apierrors.KindOf(err).String())
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, messageResponse{Msg: msgRegistered})
}

// Login checks credentials, sets the session cookie and returns the token in
// the body as well.
func (h *Auth) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Auth handler: malformed login body",
			"error", err.Error())
		err = apierrors.NewErrMissingFields(service.MsgLoginFieldsRequired)
		h.observer.ObserveLogin(err)
		handleError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), model.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	h.observer.ObserveLogin(err)
	if err != nil {
		h.logger.Info("Auth handler: login failed",
			"email", req.Email,
			"kind", apierrors.KindOf(err).String())
		handleError(c, err)
		return
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookie,
		Value:    result.Session.Token,
		Path:     "/",
		Expires:  result.Session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteNoneMode,
	})

	c.JSON(http.StatusOK, loginResponse{
		Msg:   msgWelcome + result.Name,
		Token: result.Session.Token,
	})
}

// Logout replaces the session cookie with an expired placeholder. It carries
// the login cookie attributes so cross-site clients accept the replacement.
func (h *Auth) Logout(c *gin.Context) {
	session := h.authService.Logout(c.Request.Context())

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteNoneMode,
	})

	c.JSON(http.StatusOK, messageResponse{Msg: msgLoggedOut})
}

// Me returns the identity of the authenticated caller.
func (h *Auth) Me(c *gin.Context) {
	claims, ok := h.contextManager.GetSession(c)
	if !ok {
		handleError(c, apierrors.NewErrMissingAuthorizationToken())
		return
	}

	c.JSON(http.StatusOK, meResponse{
		UserID: claims.Subject.String(),
		Role:   claims.Role,
		Name:   claims.Name,
	})
}
