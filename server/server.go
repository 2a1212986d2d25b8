// Package server exposes a portfolio over a JSON HTTP API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	portfolio "github.com/etnz/etfportfolio"
)

// Config holds server configuration.
type Config struct {
	Log            zerolog.Logger
	Portfolio      *portfolio.Portfolio
	Host           string
	Port           int
	AllowedOrigins []string
}

// Server is the HTTP front of a single portfolio.
type Server struct {
	router    *chi.Mux
	server    *http.Server
	portfolio *portfolio.Portfolio
	log       zerolog.Logger
}

// New creates a server with every route registered.
func New(cfg Config) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		portfolio: cfg.Portfolio,
		log:       cfg.Log.With().Str("component", "server").Logger(),
	}
	s.setupMiddleware(cfg.AllowedOrigins)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) setupMiddleware(origins []string) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(s.loggingMiddleware)

	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	h := NewHandler(s.portfolio, s.log)
	s.router.Route("/api", h.RegisterRoutes)
}

// Handler returns the root http.Handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Addr returns the address the server listens on.
func (s *Server) Addr() string { return s.server.Addr }

// Start listens and serves until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.log, http.StatusOK, map[string]string{
		"status": "healthy",
		"mode":   s.portfolio.Mode().String(),
	})
}
