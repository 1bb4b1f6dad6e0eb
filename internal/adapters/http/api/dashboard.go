package api

import (
	"net/http"
)

// dashboardHandler serves the embedded exploration page.
type dashboardHandler struct{}

func newDashboardHandler() *dashboardHandler {
	return &dashboardHandler{}
}

// HandleDashboard handles GET /dashboard requests.
// The page uploads files, drives the view endpoint from its controls and
// embeds the plot endpoint in an iframe.
func (h *dashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, dashboardFS, "dashboard.html")
}
