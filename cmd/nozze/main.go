package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/nozze-app/nozze/internal/apiproxy"
	"github.com/nozze-app/nozze/internal/apitoken"
	"github.com/nozze-app/nozze/internal/app"
	"github.com/nozze-app/nozze/internal/grants"
	"github.com/nozze-app/nozze/internal/invitations"
	"github.com/nozze-app/nozze/internal/observability"
	"github.com/nozze-app/nozze/internal/platform/cache"
	"github.com/nozze-app/nozze/internal/platform/db"
	"github.com/nozze-app/nozze/internal/shared"
	"github.com/nozze-app/nozze/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, grant cache disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	tokenRepo := apitoken.NewRepository(pool)
	authenticator := apitoken.NewService(tokenRepo, logger)

	grantRepo := grants.NewRepository(pool)
	grantCache := grants.NewCache(redisClient, cfg.GrantCacheTTL, grantRepo)
	authorizer := grants.NewService(grantCache)

	auditLogger := shared.NewAuditLogger(pool)
	executor := apiproxy.NewExecutor(pool)
	proxyHandler := apiproxy.NewHandler(logger, authenticator, authorizer, executor, auditLogger)

	jobClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	invitationRepo := invitations.NewPGRepository(pool)
	invitationService := invitations.NewService(invitationRepo, jobClient, logger)
	invitationHandler := invitations.NewHandler(logger, authenticator, authorizer, invitationService)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		ProxyHandler:       proxyHandler,
		InvitationsHandler: invitationHandler,
		Pool:               pool,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
