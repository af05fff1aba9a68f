// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

// Command api is the entry point for the NICAA alumni HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
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

	"github.com/nicaa/alumni-api/internal/api"
	"github.com/nicaa/alumni-api/internal/email"
	"github.com/nicaa/alumni-api/internal/event"
	"github.com/nicaa/alumni-api/internal/faq"
	"github.com/nicaa/alumni-api/internal/jubilee"
	"github.com/nicaa/alumni-api/internal/platform/config"
	"github.com/nicaa/alumni-api/internal/platform/constants"
	"github.com/nicaa/alumni-api/internal/platform/migration"
	pgstore "github.com/nicaa/alumni-api/internal/platform/postgres"
	redisstore "github.com/nicaa/alumni-api/internal/platform/redis"
	"github.com/nicaa/alumni-api/internal/platform/sec"
	"github.com/nicaa/alumni-api/internal/representative"
	"github.com/nicaa/alumni-api/internal/souvenir"
	"github.com/nicaa/alumni-api/internal/users/account"
	"github.com/nicaa/alumni-api/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[NICAA] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
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

	// ── 6. Token Issuer ───────────────────────────────────────────────────
	tokenIssuer, err := sec.NewTokenIssuer(
		cfg.JWTAccessSecret, cfg.JWTRefreshSecret, constants.AuthIssuer,
		cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	must(log, err, "initialize token issuer")

	// ── 7. Outbound Mail ──────────────────────────────────────────────────
	mailer, err := email.NewMailer(email.Options{
		Host:         cfg.SMTPHost,
		Port:         cfg.SMTPPort,
		Username:     cfg.SMTPUser,
		Password:     cfg.SMTPPassword,
		FromAddress:  cfg.EmailFrom,
		SenderName:   cfg.EmailSender,
		ContactPhone: cfg.ContactPhone,
	}, email.NewLogRepository(pool), log)
	must(log, err, "initialize mailer")

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
		CheckMailer: func() error {
			return mailer.CheckHealth(context.Background())
		},
	}, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	passwordHasher := sec.NewPasswordHasher(cfg.BcryptCost)

	userRepository := auth.NewUserRepository(pool)
	denylistRepository := auth.NewDenylistRepository(rdb)
	authService := auth.NewService(userRepository, denylistRepository, tokenIssuer, passwordHasher)
	authHandler := auth.NewHandler(authService, mailer, cfg.FrontendURL, cfg.IsProduction())

	directoryRepository := account.NewDirectoryRepository(pool)
	accountService := account.NewService(directoryRepository, passwordHasher, log)
	accountHandler := account.NewHandler(accountService)

	eventRepository := event.NewRepository(pool)
	eventService := event.NewService(eventRepository, log)
	eventHandler := event.NewHandler(eventService)

	faqCategoryRepository := faq.NewCategoryRepository(pool)
	faqEntryRepository := faq.NewEntryRepository(pool)
	faqService := faq.NewService(faqCategoryRepository, faqEntryRepository, log)
	faqHandler := faq.NewHandler(faqService)

	jubileeRepository := jubilee.NewRepository(pool)
	jubileeService := jubilee.NewService(jubileeRepository, log)
	jubileeHandler := jubilee.NewHandler(jubileeService, mailer)

	souvenirRepository := souvenir.NewRepository(pool)
	souvenirService := souvenir.NewService(souvenirRepository, log)
	souvenirHandler := souvenir.NewHandler(souvenirService)

	representativeRepository := representative.NewRepository(pool)
	representativeService := representative.NewService(representativeRepository, log)
	representativeHandler := representative.NewHandler(representativeService)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:       liveness,
		Readiness:      readiness,
		Auth:           authHandler,
		Account:        accountHandler,
		Event:          eventHandler,
		FAQ:            faqHandler,
		Jubilee:        jubileeHandler,
		Souvenir:       souvenirHandler,
		Representative: representativeHandler,
	}

	server := api.NewServer(context.Background(), cfg, log, tokenIssuer, denylistRepository, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
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
