// Package server provides the HTTP server for the stream gateway.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/Hanifalm/TG-FileStreamBot/pkg/config"
	"github.com/Hanifalm/TG-FileStreamBot/pkg/gateway/handlers"
	"github.com/Hanifalm/TG-FileStreamBot/pkg/gateway/middleware"
	"github.com/Hanifalm/TG-FileStreamBot/pkg/telemetry/metrics"
)

// Server is the HTTP server fronting the backend pool. It serves the
// download and inline streaming routes, the watch page, and the status,
// health, and metrics endpoints.
type Server struct {
	config       *config.ServerConfig
	deps         *handlers.Deps
	status       *handlers.StatusHandler
	metrics      *metrics.Collector
	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a new gateway server. metricsCollector may be nil
// when metrics are disabled; the /metrics route is then not registered.
func NewServer(cfg *config.ServerConfig, deps *handlers.Deps, status *handlers.StatusHandler, metricsCollector *metrics.Collector) *Server {
	return &Server{
		config:       cfg,
		deps:         deps,
		status:       status,
		metrics:      metricsCollector,
		shutdownChan: make(chan struct{}),
	}
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	handler := s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:           s.config.ListenAddress,
		Handler:        handler,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting stream gateway", "address", s.config.ListenAddress)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		slog.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("stream gateway stopped")
	})

	return shutdownErr
}

// setupRoutes configures HTTP routes and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	downloadHandler := handlers.NewStreamHandler(s.deps, "dl", false)
	videoHandler := handlers.NewStreamHandler(s.deps, "video", true)
	watchHandler := handlers.NewWatchHandler(s.deps)
	healthHandler := handlers.NewHealthHandler()

	mux.Handle("/dl/{token}", s.perRoute("dl", downloadHandler))
	mux.Handle("/video/{token}", s.perRoute("video", videoHandler))
	mux.Handle("/watch/{token}", s.perRoute("watch", watchHandler))
	mux.Handle("/status", s.perRoute("status", s.status))
	mux.Handle("/health", healthHandler)

	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics.Handler())
	}

	var handler http.Handler = mux

	handler = middleware.CORSMiddleware(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.RequestIDMiddleware(handler)

	// Recovery middleware (outermost)
	handler = middleware.RecoveryMiddleware(handler)

	return handler
}

// perRoute attaches the per-route metrics wrapper when metrics are on.
func (s *Server) perRoute(route string, h http.Handler) http.Handler {
	if s.metrics == nil {
		return h
	}
	return middleware.MetricsMiddleware(s.metrics, route)(h)
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}
