package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/inkbookhq/inkbook-platform/internal/booking"
	"github.com/inkbookhq/inkbook-platform/pkg/logging"
)

// BookingHandler serves the artist's manual booking and reschedule
// endpoints.
type BookingHandler struct {
	composer *booking.Composer
	logger   *logging.Logger
}

// NewBookingHandler constructs the handler.
func NewBookingHandler(composer *booking.Composer, logger *logging.Logger) *BookingHandler {
	if composer == nil {
		panic("handlers: composer required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingHandler{composer: composer, logger: logger}
}

// Create handles POST /artists/{artistID}/bookings.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	artistID, err := uuid.Parse(chi.URLParam(r, "artistID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "artistID must be a UUID"})
		return
	}
	var form booking.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	receipt, err := h.composer.CreateManualBooking(r.Context(), artistID, form)
	if err != nil {
		writeEngineError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

type rescheduleRequest struct {
	Current booking.Slot `json:"current"`
	Next    booking.Slot `json:"next"`
}

// Reschedule handles PATCH /artists/{artistID}/sessions/{sessionID}.
func (h *BookingHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	artistID, err := uuid.Parse(chi.URLParam(r, "artistID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "artistID must be a UUID"})
		return
	}
	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "sessionID must be a UUID"})
		return
	}
	var req rescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	if err := h.composer.RescheduleSession(r.Context(), artistID, sessionID, req.Current, req.Next); err != nil {
		writeEngineError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
