package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/inkbookhq/inkbook-platform/internal/availability"
	"github.com/inkbookhq/inkbook-platform/internal/calendar"
	"github.com/inkbookhq/inkbook-platform/pkg/logging"
)

// AvailabilityHandler serves client-facing availability reads.
type AvailabilityHandler struct {
	calc   *availability.Calculator
	logger *logging.Logger
}

// NewAvailabilityHandler constructs the handler.
func NewAvailabilityHandler(calc *availability.Calculator, logger *logging.Logger) *AvailabilityHandler {
	if calc == nil {
		panic("handlers: calculator required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AvailabilityHandler{calc: calc, logger: logger}
}

type datesResponse struct {
	Dates   []calendar.Date `json:"dates"`
	Warning string          `json:"warning,omitempty"`
}

// Dates handles GET /artists/{artistID}/availability/dates.
// Query: location_id, from, to (YYYY-MM-DD).
//
// A store outage yields an empty set with a warning rather than a
// partial answer: no date is shown unless it is known to be open.
func (h *AvailabilityHandler) Dates(w http.ResponseWriter, r *http.Request) {
	artistID, err := uuid.Parse(chi.URLParam(r, "artistID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "artistID must be a UUID"})
		return
	}
	locationID, err := uuid.Parse(r.URL.Query().Get("location_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "location_id must be a UUID", Field: "location_id"})
		return
	}
	from, err := calendar.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		writeEngineError(w, h.logger, err)
		return
	}
	to, err := calendar.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		writeEngineError(w, h.logger, err)
		return
	}

	dates, err := h.calc.AvailableDates(r.Context(), artistID, locationID, from, to)
	if err != nil {
		if calendar.IsDependency(err) {
			h.logger.Warn("availability dates degraded", "error", err, "artist_id", artistID)
			writeJSON(w, http.StatusOK, datesResponse{Dates: []calendar.Date{}, Warning: "availability temporarily unknown"})
			return
		}
		writeEngineError(w, h.logger, err)
		return
	}
	if dates == nil {
		dates = []calendar.Date{}
	}
	writeJSON(w, http.StatusOK, datesResponse{Dates: dates})
}

type startTimesResponse struct {
	StartTimes []calendar.ClockTime `json:"start_times"`
	Warning    string               `json:"warning,omitempty"`
}

// StartTimes handles GET /artists/{artistID}/availability/start-times.
// Query: date, session_length_minutes, break_time_minutes, location_id.
func (h *AvailabilityHandler) StartTimes(w http.ResponseWriter, r *http.Request) {
	artistID, err := uuid.Parse(chi.URLParam(r, "artistID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "artistID must be a UUID"})
		return
	}
	locationID, err := uuid.Parse(r.URL.Query().Get("location_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "location_id must be a UUID", Field: "location_id"})
		return
	}
	date, err := calendar.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeEngineError(w, h.logger, err)
		return
	}
	sessionLength, err := strconv.Atoi(r.URL.Query().Get("session_length_minutes"))
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "session_length_minutes must be an integer", Field: "session_length_minutes"})
		return
	}
	breakTime := 0
	if raw := r.URL.Query().Get("break_time_minutes"); raw != "" {
		breakTime, err = strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "break_time_minutes must be an integer", Field: "break_time_minutes"})
			return
		}
	}

	slots, err := h.calc.AvailableStartTimes(r.Context(), artistID, date, sessionLength, breakTime, locationID)
	if err != nil {
		if calendar.IsDependency(err) {
			h.logger.Warn("availability start times degraded", "error", err, "artist_id", artistID, "date", date)
			writeJSON(w, http.StatusOK, startTimesResponse{StartTimes: []calendar.ClockTime{}, Warning: "availability temporarily unknown"})
			return
		}
		writeEngineError(w, h.logger, err)
		return
	}
	if slots == nil {
		slots = []calendar.ClockTime{}
	}
	writeJSON(w, http.StatusOK, startTimesResponse{StartTimes: slots})
}
