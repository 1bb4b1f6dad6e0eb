// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	service "github.com/okian/rugbylens/internal/app"
	"github.com/okian/rugbylens/internal/domain/filter"
	"github.com/okian/rugbylens/internal/domain/ingest"
	"github.com/okian/rugbylens/pkg/logger"
	"github.com/okian/rugbylens/pkg/metrics"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Upload(ctx context.Context, uploads []ingest.Upload) (service.SessionInfo, error)
	Replace(ctx context.Context, id string, uploads []ingest.Upload) (service.SessionInfo, error)
	Close(ctx context.Context, id string) error
	Overview(ctx context.Context, id string) (service.Overview, error)
	Explore(ctx context.Context, id string, state filter.State) (service.View, error)
	Plot(ctx context.Context, id string, state filter.State) ([]byte, error)
	PivotText(ctx context.Context, id string, state filter.State, w io.Writer) error
}

// Defaults for upload limits.
const (
	defaultMaxUploadBytes = 32 << 20
	defaultMaxFiles       = 20
	defaultUploadRate     = 2
	defaultUploadBurst    = 5
)

// Option configures the Server.
type Option func(*Server)

// WithUploadLimits caps the request body size and the number of files.
func WithUploadLimits(maxBytes int64, maxFiles int) Option {
	return func(s *Server) {
		if maxBytes > 0 {
			s.maxUploadBytes = maxBytes
		}
		if maxFiles > 0 {
			s.maxFiles = maxFiles
		}
	}
}

// WithUploadRate sets the upload token bucket.
func WithUploadRate(perSecond float64, burst int) Option {
	return func(s *Server) {
		if perSecond > 0 && burst > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	sessionsHandler  *SessionsHandler
	exploreHandler   *ExploreHandler
	dashboardHandler *dashboardHandler

	maxUploadBytes int64
	maxFiles       int
	limiter        *rate.Limiter
	logger         logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		maxUploadBytes: defaultMaxUploadBytes,
		maxFiles:       defaultMaxFiles,
		limiter:        rate.NewLimiter(defaultUploadRate, defaultUploadBurst),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}

	var refresh func()
	if statsProvider != nil {
		refresh = func() { _ = statsProvider.GetStats() }
	}
	s.healthHandler = NewHealthHandler(refresh)
	s.statsHandler = NewStatsHandler(statsProvider)
	s.sessionsHandler = NewSessionsHandler(deps, s.maxUploadBytes, s.maxFiles, s.logger)
	s.exploreHandler = NewExploreHandler(deps, s.logger)
	s.dashboardHandler = newDashboardHandler()
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /sessions", MetricsMiddleware(
		RateLimitMiddleware(s.limiter, s.sessionsHandler.HandleCreate), "sessions_create"))
	mux.HandleFunc("PUT /sessions/{id}/files", MetricsMiddleware(
		RateLimitMiddleware(s.limiter, s.sessionsHandler.HandleReplace), "sessions_replace"))
	mux.HandleFunc("DELETE /sessions/{id}", MetricsMiddleware(s.sessionsHandler.HandleDelete, "sessions_delete"))
	mux.HandleFunc("GET /sessions/{id}/overview", MetricsMiddleware(s.sessionsHandler.HandleOverview, "overview"))

	mux.HandleFunc("GET /sessions/{id}/view", MetricsMiddleware(s.exploreHandler.HandleView, "view"))
	mux.HandleFunc("GET /sessions/{id}/plot", MetricsMiddleware(s.exploreHandler.HandlePlot, "plot"))
	mux.HandleFunc("GET /sessions/{id}/pivot", MetricsMiddleware(s.exploreHandler.HandlePivot, "pivot"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v before committing the status, so an unencodable value
// becomes a 500 instead of a truncated 200.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		metrics.RecordErrorByComponent("api", "internal_error")
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Code: "internal_error", Message: "encode response: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// fail classifies err, records it and writes the error response.
func fail(ctx context.Context, w http.ResponseWriter, l logger.Logger, err error) {
	status, code := classify(err)
	metrics.RecordErrorByComponent("api", code)
	if status >= http.StatusInternalServerError {
		l.Error(ctx, "request failed", logger.String("code", code), logger.Error(err))
	} else {
		l.Debug(ctx, "request rejected", logger.String("code", code), logger.Error(err))
	}
	writeError(w, status, code, err)
}
