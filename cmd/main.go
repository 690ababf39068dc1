package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/authkeeper/internal/api/http/router"
	"github.com/dtroode/authkeeper/internal/config"
	"github.com/dtroode/authkeeper/internal/logger"
	"github.com/dtroode/authkeeper/internal/metrics"
	"github.com/dtroode/authkeeper/internal/model"
	"github.com/dtroode/authkeeper/internal/password"
	"github.com/dtroode/authkeeper/internal/repository/memory"
	"github.com/dtroode/authkeeper/internal/repository/postgres"
	"github.com/dtroode/authkeeper/internal/server"
	"github.com/dtroode/authkeeper/internal/service"
	"github.com/dtroode/authkeeper/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel, logger.Format(cfg.LogFormat)).With("version", buildVersion)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	accounts, closeStore, err := newAccountStore(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize account store", "driver", cfg.Database.Driver, "error", err)
	}
	defer closeStore()

	hasher, err := password.NewBcrypt(cfg.Hash.Cost, cfg.Hash.Concurrency)
	if err != nil {
		logger.Fatal("failed to initialize password hasher", "error", err)
	}
	logger.Info("password hasher ready", "cost", hasher.Cost(), "concurrency", cfg.Hash.Concurrency)
	tokenManager := token.NewJWT(cfg.JWT.Secret)

	authService := service.NewAuth(accounts, hasher, tokenManager, logger)
	if err := authService.WarmUp(ctx); err != nil {
		logger.Fatal("failed to warm up auth service", "error", err)
	}
	sessionService := service.NewSessions(tokenManager, logger)

	r := router.New(authService, sessionService, metrics.New(), router.Options{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		SecureCookie:   cfg.IsProduction(),
	}, logger)

	httpServer := server.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port), cfg.HTTP.ReadTimeout, cfg.HTTP.WriteTimeout)
	sl := server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("Starting server on", "address", httpServer.Address(), "https", cfg.HTTP.EnableHTTPS)
		if err := httpServer.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}()

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func newAccountStore(ctx context.Context, cfg *config.Config) (model.AccountStore, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewAccountRepository(db), func() { _ = db.Close() }, nil
	default:
		return memory.NewAccountRepository(), func() {}, nil
	}
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
