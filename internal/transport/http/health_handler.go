package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"fracfocus/internal/config"
)

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	runID   string
	started time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(runID string) *HealthHandler {
	return &HealthHandler{runID: runID, started: time.Now()}
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":  "ok",
		"app":     config.AppName,
		"version": config.AppVersion,
		"run_id":  h.runID,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	})
}
