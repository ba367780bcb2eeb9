// Package server provides the main HTTP server for the chat proxy.
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

	"relay-hq/hermes/pkg/config"
	"relay-hq/hermes/pkg/proxy/handlers"
	"relay-hq/hermes/pkg/proxy/middleware"
	"relay-hq/hermes/pkg/ratelimit"
	"relay-hq/hermes/pkg/telemetry/metrics"
)

// Server is the HTTP front of the proxy. It owns the listener, the
// middleware chain, and graceful shutdown; the limiter and upstream client
// are injected so they can be shared with the config reloader and tests.
type Server struct {
	config       *config.Config
	limiter      *ratelimit.Limiter
	upstream     handlers.UpstreamClient
	collector    *metrics.Collector
	version      string
	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a new proxy server. collector may be nil when metrics
// are disabled.
func NewServer(cfg *config.Config, limiter *ratelimit.Limiter, client handlers.UpstreamClient, collector *metrics.Collector, version string) *Server {
	return &Server{
		config:       cfg,
		limiter:      limiter,
		upstream:     client,
		collector:    collector,
		version:      version,
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
		Addr:           s.config.Proxy.ListenAddress,
		Handler:        handler,
		ReadTimeout:    s.config.Proxy.ReadTimeout,
		WriteTimeout:   s.config.Proxy.WriteTimeout,
		IdleTimeout:    s.config.Proxy.IdleTimeout,
		MaxHeaderBytes: s.config.Proxy.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting proxy server",
			"address", s.config.Proxy.ListenAddress,
			"rate_limit", s.limiter.Limit(),
			"rate_limit_window", s.limiter.Window().String(),
		)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

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

// Shutdown gracefully shuts down the server, letting in-flight requests
// complete within the configured shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown", "timeout", s.config.Proxy.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Proxy.ShutdownTimeout)
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

		slog.Info("proxy server stopped")
	})

	return shutdownErr
}

// Handler returns the fully assembled handler, routes and middleware
// included. It exists so tests can drive the server without a listener.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// setupRoutes configures HTTP routes and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	chatHandler := handlers.NewChatHandler(s.upstream)
	healthHandler := handlers.NewHealthHandler(s.version)

	var onLimited func()
	if s.collector != nil {
		chatHandler.Observer = s.collector
		onLimited = s.collector.RecordRateLimited
	}

	// Rate limiting and request metrics are scoped to the chat route so
	// health checks and metric scrapes never consume quota or skew the
	// request counters.
	var chatRoute http.Handler = chatHandler
	chatRoute = middleware.RateLimitMiddleware(s.limiter, onLimited)(chatRoute)
	if s.collector != nil {
		chatRoute = middleware.MetricsMiddleware(s.collector)(chatRoute)
	}

	mux.Handle("/v1/chat/completions", chatRoute)
	mux.Handle("/health", healthHandler)

	if s.collector != nil && s.config.Telemetry.Metrics.Enabled {
		mux.Handle(s.config.Telemetry.Metrics.Path, s.collector.Handler())
	}

	var handler http.Handler = mux

	corsConfig := &middleware.CORSConfig{
		AllowedOrigins: s.config.Proxy.CORS.AllowedOrigins,
	}
	if len(corsConfig.AllowedOrigins) == 0 {
		corsConfig = middleware.DefaultCORSConfig()
	}
	handler = middleware.CORSMiddleware(corsConfig)(handler)

	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.RecoveryMiddleware(handler)

	return handler
}
