// Package http exposes the simulation and relief APIs plus health and
// metrics endpoints. All request validation lives here: the simulation core
// never sees an unknown intervention type or a non-finite coordinate.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/henniphilo/Skyforge-Cassini-Hackathon/internal/domain"
	"github.com/henniphilo/Skyforge-Cassini-Hackathon/internal/observability"
	"github.com/henniphilo/Skyforge-Cassini-Hackathon/internal/relief"
)

// EventPublisher pushes applied interventions to the event stream. A nil
// publisher disables publishing.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.InterventionEvent) error
}

// Deps carries the collaborators the server routes requests to.
type Deps struct {
	Simulator *domain.Simulator
	Relief    *relief.Surface
	Publisher EventPublisher
	Limiter   *rate.Limiter
	Metrics   *observability.Metrics
	Logger    *slog.Logger
}

// Server exposes the simulation API over HTTP.
type Server struct {
	httpServer *http.Server

	sim       *domain.Simulator
	surface   *relief.Surface
	publisher EventPublisher
	limiter   *rate.Limiter
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewServer creates an HTTP server with the simulation, relief, health, and
// metrics routes.
func NewServer(addr string, d Deps) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		sim:       d.Simulator,
		surface:   d.Relief,
		publisher: d.Publisher,
		limiter:   d.Limiter,
		metrics:   d.Metrics,
		logger:    d.Logger,
	}

	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("POST /api/intervene", s.handleIntervene)
	mux.HandleFunc("POST /api/reset", s.handleReset)

	mux.HandleFunc("GET /api/relief/elevation", s.handleElevation)
	mux.HandleFunc("GET /api/relief/hillshade", s.handleHillshade)
	mux.HandleFunc("GET /api/relief/contours", s.handleContours)
	mux.HandleFunc("GET /api/relief/elevation-at", s.handleElevationAt)
	mux.HandleFunc("GET /api/relief/bounds", s.handleBounds)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
