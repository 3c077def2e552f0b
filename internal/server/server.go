// Package server exposes the resize pipeline over HTTP.
//
// # Routes
//
//	GET  /healthz               liveness and build version
//	GET  /v1/demo               the five-pane demo scene
//	POST /v1/resize             resize a scene, optionally rendering it
//	POST /v1/render/{format}    resize a scene and return one rendered artifact
//
// Request bodies are JSON objects holding the scene under "scene" next to
// the pipeline options:
//
//	{"scene": {"width": 920, "panes": [...]}, "width": 1220}
//
// Errors are returned as {"error": {"code": ..., "message": ...}}. Input
// validation failures map to 400 and unsatisfiable layouts to 422.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/paneflow/pkg/cache"
	"github.com/matzehuels/paneflow/pkg/pipeline"
)

// KeyPrefix scopes cache entries written by the server.
const KeyPrefix = "http:"

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 1 << 20

// Server serves the HTTP API.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New returns a server backed by c. A nil cache disables caching.
func New(c cache.Cache, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner: pipeline.NewRunner(c, cache.NewScopedKeyer(nil, KeyPrefix), logger),
		logger: logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/demo", s.handleDemo)
		r.Post("/resize", s.handleResize)
		r.Post("/render/{format}", s.handleRender)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

// Close releases the cache.
func (s *Server) Close() error {
	return s.runner.Close()
}
