package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/Holy-Spoon/Subway-System-Planner/internal/static"
)

// Reloader rebuilds the schedule snapshot from its sources
type Reloader interface {
	Reload(ctx context.Context) (*static.Snapshot, error)
}

// AdminHandler handles operator requests
type AdminHandler struct {
	reloader Reloader
	timeout  time.Duration
}

// NewAdminHandler creates a new handler. Each reload is bounded by timeout.
func NewAdminHandler(reloader Reloader, timeout time.Duration) *AdminHandler {
	return &AdminHandler{reloader: reloader, timeout: timeout}
}

// Reload handles POST /api/admin/reload
// On failure the previous snapshot keeps being served
func (h *AdminHandler) Reload(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	snap, err := h.reloader.Reload(ctx)
	if errors.Is(err, static.ErrEmptySnapshot) {
		writeError(w, http.StatusConflict, "Reload produced an empty network, previous snapshot kept", map[string]interface{}{
			"snapshotId": snap.ID,
		})
		return
	}
	if err != nil {
		log.Printf("Warning: reload failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to reload schedule", map[string]interface{}{
			"reason": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, newHealthResponse(snap))
}
