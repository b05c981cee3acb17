package handlers

import (
	"net/http"
	"time"

	"github.com/Holy-Spoon/Subway-System-Planner/internal/static"
	"github.com/Holy-Spoon/Subway-System-Planner/models"
)

// HealthHandler reports on the schedule snapshot being served
type HealthHandler struct {
	store SnapshotProvider
}

// NewHealthHandler creates a new handler reading from the given store
func NewHealthHandler(store SnapshotProvider) *HealthHandler {
	return &HealthHandler{store: store}
}

// GetHealth handles GET /health
// Returns 503 while no usable network is loaded
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Current()
	if snap == nil {
		writeJSON(w, http.StatusServiceUnavailable, models.HealthResponse{
			Status:    models.StatusError,
			Timestamp: time.Now().UTC(),
		})
		return
	}

	response := newHealthResponse(snap)
	status := http.StatusOK
	if response.Status == models.StatusError {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, response)
}

func newHealthResponse(snap *static.Snapshot) models.HealthResponse {
	report := snap.Report
	response := models.HealthResponse{
		Status:     models.CalculateHealthStatus(report.Stations, len(report.Errors)),
		SnapshotID: snap.ID,
		LoadedAt:   snap.LoadedAt,
		Stations:   report.Stations,
		Lines:      report.Lines,
		Services:   report.Services,
		Timestamp:  time.Now().UTC(),
	}
	for _, e := range report.Errors {
		response.LoadErrors = append(response.LoadErrors, e.Error())
	}
	return response
}
