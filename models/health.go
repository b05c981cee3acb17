package models

import (
	"time"

	"github.com/google/uuid"
)

// Health status values
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded" // loaded, but some sources or records were skipped
	StatusError    = "error"    // no usable network
)

// HealthResponse describes the schedule snapshot currently being served
type HealthResponse struct {
	Status     string    `json:"status"`
	SnapshotID uuid.UUID `json:"snapshotId"`
	LoadedAt   time.Time `json:"loadedAt"`
	Stations   int       `json:"stations"`
	Lines      int       `json:"lines"`
	Services   int       `json:"services"`
	LoadErrors []string  `json:"loadErrors,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// CalculateHealthStatus returns the status for a snapshot with the given
// number of stations and load errors
func CalculateHealthStatus(stations, loadErrors int) string {
	if stations == 0 {
		return StatusError
	}
	if loadErrors > 0 {
		return StatusDegraded
	}
	return StatusOK
}
