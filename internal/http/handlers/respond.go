package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/inkbookhq/inkbook-platform/internal/calendar"
	"github.com/inkbookhq/inkbook-platform/pkg/logging"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	Date  string `json:"date,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeEngineError maps the engine's error taxonomy onto HTTP statuses:
// validation problems are 422, calendar conflicts 409, malformed
// recurrence data 422, and store outages 503. Anything unrecognized is
// a 500.
func writeEngineError(w http.ResponseWriter, logger *logging.Logger, err error) {
	var verr *calendar.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: verr.Error(), Field: verr.Field})
		return
	}
	var cerr *calendar.ConflictError
	if errors.As(err, &cerr) {
		writeJSON(w, http.StatusConflict, errorResponse{Error: cerr.Error(), Date: cerr.Date.String()})
		return
	}
	if calendar.IsInvalidRecurrence(err) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}
	if calendar.IsDependency(err) {
		logger.Error("handler: dependency failure", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "scheduling data temporarily unavailable"})
		return
	}
	logger.Error("handler: unexpected error", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}
