// Package web exposes the review engine to the mobile client as a
// JSON HTTP API.
package web

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// DefaultAddr is the default server address.
const DefaultAddr = "127.0.0.1:8080"

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr string
}

// Server is the HTTP server for the review API.
type Server struct {
	router   chi.Router
	server   *http.Server
	handlers *Handlers
	log      *logrus.Entry
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig, handlers *Handlers) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	router := chi.NewRouter()
	s := &Server{
		router:   router,
		handlers: handlers,
		log:      logrus.WithField("component", "web"),
	}

	// Configure middleware
	s.setupMiddleware()

	// Configure routes
	s.setupRoutes()

	// Create HTTP server
	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures routes for the API.
func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/music-tracks", s.handlers.MusicTracks)

		r.Route("/children/{childID}", func(r chi.Router) {
			r.Get("/reviews", s.handlers.ListReviews)
			r.Post("/reviews/{year}", s.handlers.GenerateReview)
			r.Post("/recaps/{year}/{month}", s.handlers.GenerateRecap)
			r.Get("/review-prompt", s.handlers.PromptNeeded)
			r.Post("/review-prompt", s.handlers.SendPrompt)
		})

		r.Route("/reviews/{reviewID}", func(r chi.Router) {
			r.Get("/", s.handlers.GetReview)
			r.Post("/customize", s.handlers.CustomizeReview)
			r.Post("/reset", s.handlers.ResetReview)
			r.Get("/available-clips", s.handlers.AvailableClips)
			r.Post("/export", s.handlers.MarkExported)
		})

		r.Get("/recaps/{recapID}", s.handlers.GetRecap)
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.log.Infof("starting server at http://%s", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server and handles graceful shutdown on interrupt
// signals.
func (s *Server) Run() error {
	// Channel to receive shutdown signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for interrupt or error
	select {
	case err := <-errCh:
		return err
	case <-stop:
		s.log.Info("shutting down server...")
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.log.Info("server stopped")
	return nil
}
