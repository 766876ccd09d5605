// Package server wires the gateway's chi router and middleware chain.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Server hosts the gateway's HTTP surface.
type Server struct {
	Router *chi.Mux
	Host   string
	Port   int
	logger *slog.Logger
	http   *http.Server
}

// New builds a Server with the standard middleware chain: request id,
// structured request logging, a request timeout, panic recovery, and an
// OpenTelemetry instrumentation wrapper.
func New(host string, port int, requestTimeout time.Duration, logger *slog.Logger) *Server {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger))
	r.Use(TimeoutMiddleware(requestTimeout))
	r.Use(chimw.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, "straico-gateway")
	})

	return &Server{
		Router: r,
		Host:   host,
		Port:   port,
		logger: logger,
	}
}

// Start binds the listen address and serves until Shutdown is called or
// ListenAndServe returns a fatal error.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.Host, s.Port),
		Handler: s.Router,
	}
	s.logger.Info("starting server", slog.String("host", s.Host), slog.Int("port", s.Port))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server, letting in-flight requests (and
// streaming responses) drain until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
