package models

import (
	"time"

	"github.com/google/uuid"
)

// ScheduleSource describes one stored schedule source (a data file imported
// into the database)
type ScheduleSource struct {
	Name       string    `json:"name"`
	Size       int       `json:"size"`
	ImportID   uuid.UUID `json:"importId"`
	ImportedAt time.Time `json:"importedAt"`
}
