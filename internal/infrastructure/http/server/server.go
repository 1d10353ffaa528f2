package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"3tcapital/sriats/internal/infrastructure/config"
	"3tcapital/sriats/internal/infrastructure/http/middleware"
)

// Server wraps the HTTP server and its routes.
type Server struct {
	cfg        config.AppConfig
	log        *slog.Logger
	httpServer *http.Server
	auth       *middleware.JWTAuthenticator
}

// Options groups the dependencies of the server. Handlers left nil are not
// routed.
type Options struct {
	Config        config.AppConfig
	Logger        *slog.Logger
	HealthHandler http.Handler

	UploadHandler         http.Handler // POST /api/v1/upload
	ATSHandler            http.Handler // POST /api/v1/ats/generate
	BatchDocumentsHandler http.Handler // GET /api/v1/batches/{batchID}/documents

	// Optional: requests are not throttled when nil.
	RateLimiter middleware.Limiter
	// Optional: built from Config.Auth when nil.
	Authenticator *middleware.JWTAuthenticator
}

// New wires the router and the middleware chain.
func New(opts Options) (*Server, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.HealthHandler == nil {
		return nil, errors.New("health handler is required")
	}

	auth := opts.Authenticator
	if auth == nil {
		var err error
		auth, err = middleware.NewJWTAuthenticator(opts.Config.Auth, opts.Logger)
		if err != nil {
			return nil, fmt.Errorf("create authenticator: %w", err)
		}
	}

	log := opts.Logger
	cfg := opts.Config

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)

	r.Method(http.MethodGet, "/health", opts.HealthHandler)

	limit := func(bucket string) func(http.Handler) http.Handler {
		if opts.RateLimiter == nil {
			return func(next http.Handler) http.Handler { return next }
		}
		return middleware.RateLimit(bucket, opts.RateLimiter, log)
	}
	extended := middleware.ExtendedTimeout(cfg.HTTP.WriteTimeoutMassive)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(auth.Middleware)

		if opts.UploadHandler != nil {
			api.With(limit("upload"), extended).Method(http.MethodPost, "/upload", opts.UploadHandler)
		}
		if opts.ATSHandler != nil {
			api.With(limit("ats"), extended).Method(http.MethodPost, "/ats/generate", opts.ATSHandler)
		}
		if opts.BatchDocumentsHandler != nil {
			api.With(limit("batches")).Method(http.MethodGet, "/batches/{batchID}/documents", opts.BatchDocumentsHandler)
		}
	})

	srv := &http.Server{
		Addr:         cfg.HTTP.Address(),
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &Server{cfg: cfg, log: log, httpServer: srv, auth: auth}, nil
}

// Run starts the server and blocks until ctx is cancelled or the listener
// fails. On cancellation it drains in-flight requests within ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server started", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.HTTP.ShutdownTimeout)
		defer cancel()

		s.log.Info("Shutting down HTTP server", "timeout", s.cfg.HTTP.ShutdownTimeout)
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}

// Close stops the JWKS refresher.
func (s *Server) Close() {
	if s.auth != nil {
		s.auth.Close()
	}
}
