// ABOUTME: HTTP server exposing the kanban board as a JSON API behind a single chi router.
// ABOUTME: Serializes mutating handlers with a write lock and lets reads share a read lock.
package web

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/2389-research/kanban/board"
)

// DefaultAddr is used when ServerConfig.Addr is empty.
const DefaultAddr = "127.0.0.1:7780"

// ServerConfig holds the configuration for the board HTTP server.
type ServerConfig struct {
	Addr    string // listen address (default: DefaultAddr)
	Version string // reported by /health
}

// Server serves one Board. The board performs no locking, so the server is
// the single point that orders calls into it.
type Server struct {
	board   *board.Board
	mu      sync.RWMutex
	metrics *metrics
	router  chi.Router
	version string
	http    *http.Server
}

// NewServer creates a Server for b.
func NewServer(b *board.Board, cfg ServerConfig) (*Server, error) {
	if b == nil {
		return nil, errors.New("board must not be nil")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	s := &Server{
		board:   b,
		metrics: newMetrics(),
		version: cfg.Version,
	}
	s.router = s.buildRouter()
	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      time.Minute,
		IdleTimeout:       2 * time.Minute,
	}
	return s, nil
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Addr is the configured listen address.
func (s *Server) Addr() string { return s.http.Addr }

// ListenAndServe starts the HTTP server on the configured address with
// timeouts that bound slow clients. It returns http.ErrServerClosed after
// Shutdown.
func (s *Server) ListenAndServe() error {
	return s.http.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(webRequestLogger)
	r.Use(s.metrics.middleware)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/configuration", s.read(s.handleGetConfiguration))
		r.Put("/configuration", s.write(s.handleSetConfiguration))

		r.Route("/rules", func(r chi.Router) {
			r.Get("/", s.read(s.handleListRules))
			r.Post("/", s.write(s.handleAddRule))
			r.Get("/{ruleID}", s.read(s.handleGetRule))
			r.Put("/{ruleID}", s.write(s.handleUpdateRule))
			r.Delete("/{ruleID}", s.write(s.handleDeleteRule))
		})

		r.Get("/transitions/check", s.read(s.handleCheckTransition))

		r.Route("/cards", func(r chi.Router) {
			r.Get("/", s.read(s.handleListCards))
			r.Post("/", s.write(s.handleAddCard))
			r.Get("/{cardID}", s.read(s.handleGetCard))
			r.Put("/{cardID}", s.write(s.handleUpdateCard))
			r.Delete("/{cardID}", s.write(s.handleDeleteCard))
			r.Put("/{cardID}/stage", s.write(s.handleUpdateCardStage))
		})

		r.Get("/export", s.read(s.handleExport))
		r.Get("/schema/{name}", s.handleSchema)
	})

	return r
}

func (s *Server) read(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		h(w, r)
	}
}

func (s *Server) write(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		h(w, r)
	}
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.version})
}
