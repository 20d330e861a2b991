package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/inkbookhq/inkbook-platform/internal/calendar"
	"github.com/inkbookhq/inkbook-platform/internal/overlap"
	"github.com/inkbookhq/inkbook-platform/pkg/logging"
)

// OverlapHandler exposes the conflict detector to the artist app, which
// checks candidate ranges as the artist drags events around.
type OverlapHandler struct {
	detector *overlap.Detector
	logger   *logging.Logger
}

// NewOverlapHandler constructs the handler.
func NewOverlapHandler(detector *overlap.Detector, logger *logging.Logger) *OverlapHandler {
	if detector == nil {
		panic("handlers: detector required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &OverlapHandler{detector: detector, logger: logger}
}

type overlapRequest struct {
	Date             calendar.Date      `json:"date"`
	Start            calendar.ClockTime `json:"start"`
	End              calendar.ClockTime `json:"end"`
	BreakTimeMinutes int                `json:"break_time_minutes"`
	Source           calendar.Source    `json:"source"`
	ExcludeEventID   *uuid.UUID         `json:"exclude_event_id,omitempty"`
}

type overlapResponse struct {
	HasOverlap bool             `json:"has_overlap"`
	Conflict   *overlapConflict `json:"conflict,omitempty"`
}

type overlapConflict struct {
	Title  string          `json:"title"`
	Source calendar.Source `json:"source"`
	Date   calendar.Date   `json:"date"`
}

// Check handles POST /artists/{artistID}/overlap-check.
func (h *OverlapHandler) Check(w http.ResponseWriter, r *http.Request) {
	artistID, err := uuid.Parse(chi.URLParam(r, "artistID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "artistID must be a UUID"})
		return
	}
	var req overlapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	params := overlap.Params{
		ArtistID:     artistID,
		Date:         req.Date,
		Start:        req.Start,
		End:          req.End,
		BreakMinutes: req.BreakTimeMinutes,
		Source:       req.Source,
	}
	if req.ExcludeEventID != nil {
		params.ExcludeEventID = *req.ExcludeEventID
	}

	result, err := h.detector.Check(r.Context(), params)
	if err != nil {
		writeEngineError(w, h.logger, err)
		return
	}

	resp := overlapResponse{HasOverlap: result.HasOverlap}
	if result.HasOverlap {
		resp.Conflict = &overlapConflict{
			Title:  result.Event.Title,
			Source: result.Event.Source,
			Date:   req.Date,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
