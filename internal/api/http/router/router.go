package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpcontext "github.com/dtroode/authkeeper/internal/api/http/context"
	"github.com/dtroode/authkeeper/internal/api/http/handler"
	"github.com/dtroode/authkeeper/internal/api/http/middleware"
	"github.com/dtroode/authkeeper/internal/logger"
	"github.com/dtroode/authkeeper/internal/metrics"
)

// Options controls browser-facing behaviour of the routes.
type Options struct {
	// AllowedOrigins lists origins allowed to call the API with credentials.
	AllowedOrigins []string
	// SecureCookie sets the Secure flag on the session cookie.
	SecureCookie bool
}

// Router wires handlers and middleware into a gin engine.
type Router struct {
	authService    handler.AuthService
	sessions       middleware.SessionVerifier
	metrics        *metrics.Metrics
	contextManager *httpcontext.Manager
	options        Options
	logger         *logger.Logger
}

// New creates new Router instance.
func New(
	authService handler.AuthService,
	sessions middleware.SessionVerifier,
	metrics *metrics.Metrics,
	options Options,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		sessions:       sessions,
		metrics:        metrics,
		contextManager: httpcontext.NewManager(),
		options:        options,
		logger:         logger,
	}
}

// Register builds the engine with every route and middleware.
func (r *Router) Register() *gin.Engine {
	logging := middleware.NewLogging(r.logger)
	requestMetrics := middleware.NewMetrics(r.metrics)

	e := gin.New()
	e.Use(
		gin.Recovery(),
		logging.Handle,
		requestMetrics.Handle,
		cors.New(cors.Config{
			AllowOrigins:     r.options.AllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)

	e.GET("/health", handler.Health)
	e.GET("/metrics", gin.WrapH(r.metrics.Handler()))

	r.registerAuthRoutes(e)

	return e
}

func (r *Router) registerAuthRoutes(e *gin.Engine) {
	authHandler := handler.NewAuth(r.authService, r.contextManager, r.metrics, r.options.SecureCookie, r.logger)
	authenticate := middleware.NewAuthenticate(r.sessions, r.contextManager, r.logger)

	auth := e.Group("/api/v1/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/logout", authHandler.Logout)
	auth.GET("/me", authenticate.Handle, authHandler.Me)
}
