// Package server exposes a world over HTTP.
//
// The JSON API under /api mirrors the interactive map: reading positions,
// hit-testing, adding connections, deleting zones, re-sorting and resizing.
// /diagram.svg serves the rendered map and /metrics the Prometheus
// collectors.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/zonelink/pkg/observability"
	"github.com/matzehuels/zonelink/pkg/world"
)

// ShutdownTimeout bounds graceful shutdown in [Server.ListenAndServe].
const ShutdownTimeout = 5 * time.Second

// Options configures a [Server].
type Options struct {
	Logger *log.Logger

	// Metrics records per-route request counts. Optional.
	Metrics *observability.Prometheus

	// Gatherer backs /metrics. Defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
}

// Server routes HTTP requests to a world.
type Server struct {
	world    *world.World
	logger   *log.Logger
	metrics  *observability.Prometheus
	gatherer prometheus.Gatherer
	router   chi.Router
}

// New creates a server for w.
func New(w *world.World, opts Options) *Server {
	s := &Server{
		world:    w,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		gatherer: opts.Gatherer,
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(s.observe)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(s.sweep)

		r.Get("/diagram.svg", s.handleDiagramSVG)
		r.Get("/diagram.png", s.handleDiagramGraphviz)
		r.Get("/diagram.dot", s.handleDiagramGraphviz)

		r.Route("/api", func(r chi.Router) {
			r.Get("/snapshot", s.handleSnapshot)
			r.Get("/nodes", s.handleNodes)
			r.Get("/edges", s.handleEdges)
			r.Get("/node-at", s.handleNodeAt)
			r.Get("/zones", s.handleZones)
			r.Post("/connections", s.handleAddConnection)
			r.Delete("/nodes/{zone}", s.handleDeleteNode)
			r.Post("/sort", s.handleSort)
			r.Put("/viewport", s.handleViewport)
			r.Put("/distance", s.handleDistance)
			r.Put("/scale", s.handleScale)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
