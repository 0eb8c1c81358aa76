// Package server provides the HTTP API for odtreader.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/odtreader/internal/config"
	"github.com/hyperjump/odtreader/internal/extract"
	"github.com/hyperjump/odtreader/internal/storage"
)

// WatchService reports the directories being watched. Nil when watching is off.
type WatchService interface {
	Directories() []string
}

// Server is the HTTP server for the odtreader API.
type Server struct {
	extractor *extract.Extractor
	storage   storage.Storage
	config    *config.Config
	logger    *zap.Logger
	watch     WatchService
	server    *http.Server
}

// NewServer creates a server with the given dependencies. watch may be nil.
func NewServer(
	extractor *extract.Extractor,
	store storage.Storage,
	cfg *config.Config,
	logger *zap.Logger,
	watch WatchService,
) *Server {
	return &Server{
		extractor: extractor,
		storage:   store,
		config:    cfg,
		logger:    logger,
		watch:     watch,
	}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/extract", s.handleExtract)
		r.Get("/extractions", s.handleListExtractions)
		r.Get("/extractions/{id}", s.handleGetExtraction)
		r.Delete("/extractions/{id}", s.handleDeleteExtraction)
		r.Get("/status", s.handleStatus)
	})
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
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
