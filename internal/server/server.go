// Package server exposes the ranking engine over a read-only HTTP JSON API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/elcfinder/elcfinder/internal/contract"
	"github.com/elcfinder/elcfinder/internal/ingest"
	"github.com/elcfinder/elcfinder/schema"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	requestTimeout    = 30 * time.Second
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Source is a school source that may be backed by a local file.
// Path returns an empty string for sources that cannot be watched.
type Source interface {
	contract.SchoolSource
	Path() string
}

// Server serves rankings computed from an in-memory school snapshot.
type Server struct {
	cfg      *contract.Config
	source   Source
	snap     snapshot
	metrics  *Metrics
	registry *prometheus.Registry
}

// New creates a server for cfg. Metrics are registered on a private registry.
func New(cfg *contract.Config, source Source) (*Server, error) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics()
	if err := metrics.Register(registry); err != nil {
		return nil, err
	}
	return &Server{
		cfg:      cfg,
		source:   source,
		metrics:  metrics,
		registry: registry,
	}, nil
}

// Reload loads the source into a new snapshot. On failure the previous
// snapshot stays active.
func (s *Server) Reload(ctx context.Context) error {
	schools, err := s.source.Load(ctx)
	if err != nil {
		s.metrics.IncSourceReload(ReloadError)
		return err
	}
	s.apply(schools)
	return nil
}

// apply activates a freshly loaded school list.
func (s *Server) apply(schools []schema.School) {
	s.snap.Swap(schools)
	s.metrics.SetSchoolsLoaded(len(schools))
	s.metrics.IncSourceReload(ReloadSuccess)
	slog.Info("server: snapshot updated", "schools", len(schools), "source", s.source.Describe())
}

// Handler returns the HTTP handler with all routes and middleware mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(s.metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/api", func(ar chi.Router) {
		ar.Get("/schools", s.handleSchools)
		ar.Get("/rankings", s.handleRankings)
		ar.Get("/chart", s.handleChart)
		ar.Get("/map", s.handleMap)
		ar.Get("/insight", s.handleInsight)
		ar.Get("/criteria", s.handleCriteria)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return r
}

func (s *Server) corsOrigins() []string {
	if len(s.cfg.CORSOrigins) == 0 {
		return []string{"*"}
	}
	return s.cfg.CORSOrigins
}

// Run loads the source, starts the HTTP server and blocks until ctx is
// cancelled, then shuts down gracefully. With watch enabled, writes to a
// local source file replace the snapshot.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Reload(ctx); err != nil {
		slog.Warn("server: initial load failed, serving an empty list", "source", s.source.Describe(), "err", err)
		s.snap.Swap(nil)
		s.metrics.SetSchoolsLoaded(0)
	}

	if s.cfg.Watch {
		s.startWatch(ctx)
	}

	httpSrv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server: HTTP API listening", "addr", s.cfg.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// startWatch reloads the snapshot whenever the local source file changes.
func (s *Server) startWatch(ctx context.Context) {
	path := s.source.Path()
	if path == "" {
		slog.Warn("server: watch ignored for remote source", "source", s.source.Describe())
		return
	}
	go func() {
		err := ingest.Watch(ctx, path, s.source, s.apply, func(err error) {
			s.metrics.IncSourceReload(ReloadError)
			slog.Warn("server: reload failed, keeping previous snapshot", "path", path, "err", err)
		})
		if err != nil {
			slog.Error("server: watch stopped", "path", path, "err", err)
		}
	}()
}
