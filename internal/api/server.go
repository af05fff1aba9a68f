// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/nicaa/alumni-api/internal/event"
	"github.com/nicaa/alumni-api/internal/faq"
	"github.com/nicaa/alumni-api/internal/jubilee"
	"github.com/nicaa/alumni-api/internal/platform/config"
	"github.com/nicaa/alumni-api/internal/platform/constants"
	"github.com/nicaa/alumni-api/internal/platform/middleware"
	"github.com/nicaa/alumni-api/internal/representative"
	"github.com/nicaa/alumni-api/internal/souvenir"
	"github.com/nicaa/alumni-api/internal/users/account"
	"github.com/nicaa/alumni-api/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles the account lifecycle entry points (register, login, tokens).
	Auth *auth.Handler

	// Account handles member directory administration and the /me profile.
	Account *account.Handler

	// Event handles reunions and programs with seat-limited registration.
	Event *event.Handler

	// FAQ handles the public FAQ catalogue and its categories.
	FAQ *faq.Handler

	// Jubilee handles Silver Jubilee participant registration.
	Jubilee *jubilee.Handler

	// Souvenir handles souvenir submissions from alumni.
	Souvenir *souvenir.Handler

	// Representative handles batch representative applications.
	Representative *representative.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(
	context context.Context,
	cfg *config.Config,
	log *slog.Logger,
	verifier middleware.TokenVerifier,
	denylist middleware.TokenDenylist,
	h Handlers,
) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier, denylist))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under the /api prefix.
	r.Route("/api", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/users", h.Account.Routes())
		api.Mount("/events", h.Event.Routes())
		api.Mount("/faqs", h.FAQ.Routes())
		api.Mount("/jubilee", h.Jubilee.Routes())
		api.Mount("/souvenirs", h.Souvenir.Routes())
		api.Mount("/representatives", h.Representative.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
