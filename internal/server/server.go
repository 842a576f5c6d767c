// Package server provides the HTTP API for Zodiac.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/zodiac/internal/config"
	"github.com/hyperjump/zodiac/internal/pipeline"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Server is the HTTP server for the Zodiac API.
type Server struct {
	svc    *pipeline.Service
	config *config.ServerConfig
	logger *zap.Logger
	server *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(svc *pipeline.Service, cfg *config.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		svc:    svc,
		config: cfg,
		logger: logger,
	}
}

// Router returns the API routes with middleware applied.
func (s *Server) Router() http.Handler {
	timeout := s.config.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.Compress(5))

	r.Route("/projects", func(r chi.Router) {
		r.Post("/", s.handleCreateProject)
		r.Get("/", s.handleListProjects)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetProject)
			r.Patch("/", s.handleUpdateProject)
			r.Delete("/", s.handleDeleteProject)
			r.Post("/scan", s.handleScan)
			r.Get("/profile", s.handleGetProfile)
			r.Post("/generate", s.handleGenerate)
			r.Get("/outputs", s.handleListOutputs)
			r.Get("/outputs/search", s.handleSearchOutputs)
			r.Get("/export", s.handleExport)
		})
	})
	r.Get("/outputs/{id}", s.handleGetOutput)
	r.Delete("/outputs/{id}", s.handleDeleteOutput)
	r.Get("/types", s.handleTypes)
	r.Get("/health", s.handleHealth)
	r.Get("/status", s.handleStatus)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.respondJSON(w, http.StatusNotFound, errorBody{Error: "route not found", Kind: "NotFoundError"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.respondJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed", Kind: "ValidationError"})
	})
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := s.config.Addr()
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
