package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/rugbylens/pkg/metrics"
)

// HealthHandler serves the Prometheus exposition as the liveness check.
type HealthHandler struct {
	exposition http.Handler
	refresh    func()
}

// NewHealthHandler creates a health handler. refresh, when non-nil, runs
// before each scrape so gauges such as active sessions are current.
func NewHealthHandler(refresh func()) *HealthHandler {
	return &HealthHandler{
		exposition: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
		refresh:    refresh,
	}
}

// HandleHealth handles GET /healthz requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if h.refresh != nil {
		h.refresh()
	}
	h.exposition.ServeHTTP(w, r)
}
