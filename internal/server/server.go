// Package server assembles the gateway HTTP surface.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/lexsum/lexsum/internal/apperrors"
	"github.com/lexsum/lexsum/internal/config"
	"github.com/lexsum/lexsum/internal/ingest"
	"github.com/lexsum/lexsum/internal/server/handlers"
	"github.com/lexsum/lexsum/internal/server/middleware"
)

// Server hosts the ingestion gateway endpoints.
type Server struct {
	cfg     config.ServerConfig
	handler http.Handler
	logger  *zap.Logger
}

// New builds the router. All dependencies arrive pre-wired.
func New(cfg config.ServerConfig, gateway *ingest.Gateway, health *handlers.HealthManager, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(func(next http.Handler) http.Handler {
		return middleware.RecoveryWithLogger(next, logger)
	})

	r.NotFound(apperrors.NotFoundHandler)
	r.MethodNotAllowed(apperrors.MethodNotAllowedHandler)

	r.Get("/", health.RootHandler)
	r.Get("/health", health.HealthHandler)
	r.Get("/health/live", health.LivenessHandler)
	r.Method(http.MethodPost, "/summarize",
		handlers.NewSummarizeHandler(gateway, cfg.MaxUploadBytes, logger))
	r.Method(http.MethodGet, "/status/{jobID}",
		handlers.NewStatusHandler(gateway))

	return &Server{cfg: cfg, handler: r, logger: logger}
}

// Handler exposes the router, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Port returns the configured listen port.
func (s *Server) Port() int {
	return s.cfg.Port
}

// Run serves until ctx is cancelled, then drains connections within
// the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownTimeout := s.cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down http server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
