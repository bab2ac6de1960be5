package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/abx/internal/shared"
	"github.com/desertthunder/abx/internal/tasks"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler groups related endpoints.
type Handler interface {
	Register(r chi.Router) // Register mounts the handler's routes
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

const shutdownTimeout = 5 * time.Second

// Server serves the contact API.
type Server struct {
	http   *http.Server
	logger *log.Logger
}

// NewHandler builds the routed handler tree for engine.
func NewHandler(engine *tasks.Engine, logger *log.Logger) http.Handler {
	router := NewChiRouter()
	router.Use(middleware.RequestID, RequestLogger(logger), middleware.Recoverer)
	router.Handle(http.MethodGet, "/health", http.HandlerFunc(health))
	router.Handler(NewContactsHandler(engine, logger))
	return router
}

// New creates a Server listening on cfg's address.
func New(cfg shared.ServerConfig, engine *tasks.Engine, logger *log.Logger) *Server {
	logger = shared.WithLogger(logger, "component", "server")
	return &Server{
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           NewHandler(engine, logger),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.http.Addr }

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down")
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
