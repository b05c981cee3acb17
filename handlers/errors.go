package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Holy-Spoon/Subway-System-Planner/internal/transit"
)

// ErrorResponse is the JSON error response structure
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, details map[string]interface{}) {
	writeJSON(w, status, ErrorResponse{Error: msg, Details: details})
}

// writeQueryError maps a query engine error to a status code.
// Unknown stations and lines are 404, bad times are 400, anything else 500.
func writeQueryError(w http.ResponseWriter, err error) {
	var entityErr *transit.EntityError
	switch {
	case errors.As(err, &entityErr):
		writeError(w, http.StatusNotFound, "Unknown "+string(entityErr.Kind), map[string]interface{}{
			"kind": entityErr.Kind,
			"name": entityErr.Name,
		})
	case errors.Is(err, transit.ErrInvalidTime):
		writeError(w, http.StatusBadRequest, "Invalid time", map[string]interface{}{
			"reason": err.Error(),
		})
	default:
		writeError(w, http.StatusInternalServerError, "Query failed", map[string]interface{}{
			"reason": err.Error(),
		})
	}
}
