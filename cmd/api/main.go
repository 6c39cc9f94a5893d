// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

// Command api is the entry point for the Vendora HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire the security stack (tokens, rate limiting, captcha, CSRF).
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vendorahq/vendora/internal/api"
	"github.com/vendorahq/vendora/internal/content/post"
	"github.com/vendorahq/vendora/internal/form"
	"github.com/vendorahq/vendora/internal/platform/config"
	"github.com/vendorahq/vendora/internal/platform/constants"
	"github.com/vendorahq/vendora/internal/platform/migration"
	pgstore "github.com/vendorahq/vendora/internal/platform/postgres"
	redisstore "github.com/vendorahq/vendora/internal/platform/redis"
	"github.com/vendorahq/vendora/internal/platform/sec"
	"github.com/vendorahq/vendora/internal/security/captcha"
	"github.com/vendorahq/vendora/internal/security/csrf"
	"github.com/vendorahq/vendora/internal/security/ratelimit"
	"github.com/vendorahq/vendora/internal/security/token"
	"github.com/vendorahq/vendora/internal/users/account"
	"github.com/vendorahq/vendora/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "vendora"))
	slog.SetDefault(log)

	log.Info("[Vendora] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "vendora"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Long-lived context for background work owned by the server (rate limit
	// visitor cleanup). Cancelled once main returns.
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Security Stack ─────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	appTokens, err := token.NewService(cfg.AppSecret)
	must(log, err, "initialize token service")

	limiter := ratelimit.NewService(ratelimit.NewPostgresRepository(pool), nil)

	// The limiter doubles as the captcha failure counter: challenges appear
	// once an identifier accumulates failures, before the hard lockout.
	captchaService := captcha.NewService(captcha.Config{
		Enabled:        cfg.CaptchaEnabled,
		SiteKey:        cfg.CaptchaSiteKey,
		Secret:         cfg.CaptchaSecret,
		Version:        cfg.CaptchaVersion,
		ScoreThreshold: cfg.CaptchaScoreThreshold,
	}, limiter)
	log.Info("captcha_configured", slog.String("adapter", captchaService.String()))

	csrfGuard := csrf.NewGuard(appTokens)

	processor := form.NewHandler(form.NewRegistry(), captchaService)
	processor.Observe(func(f *form.Form, accepted bool) {
		if !accepted {
			log.Debug("form_rejected",
				slog.String("form", f.Name()),
				slog.Int("error_count", len(f.Errors())),
			)
		}
	})

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	authService := auth.NewService(
		auth.NewUserRepository(pool),
		auth.NewSessionRepository(pool),
		auth.NewResetTokenRepository(rdb),
		auth.NewVerificationTokenRepository(rdb),
		jwtSvc,
		limiter,
		appTokens,
	)
	authHandler := auth.NewHandler(authService, auth.NewFormSet(captchaService), processor, csrfGuard)

	accountService := account.NewService(account.NewAccountRepository(pool), account.NewSessionRepository(pool), log)
	accountHandler := account.NewHandler(accountService, processor, csrfGuard)

	postService := post.NewService(post.NewPostgresRepository(pool), appTokens, log)
	postHandler := post.NewHandler(postService, processor, csrfGuard)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Account:   accountHandler,
		Post:      postHandler,
	}

	server := api.NewServer(serverCtx, cfg, log, jwtSvc, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
