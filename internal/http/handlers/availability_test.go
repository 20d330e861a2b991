package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkbookhq/inkbook-platform/internal/calendar"
)

func TestAvailabilityDates(t *testing.T) {
	fix := newEngineFixture([]*calendar.Event{
		{ID: uuid.New(), Source: calendar.SourceBookOff, Title: "off", Date: calendar.NewDate(2025, time.March, 12)},
	})
	handler := availabilityRouter(NewAvailabilityHandler(fix.calc, nil))

	url := fmt.Sprintf("/artists/%s/availability/dates?location_id=%s&from=2025-03-01&to=2025-03-31",
		fix.artistID, fix.locationID)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp datesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Dates, 30)
	assert.Empty(t, resp.Warning)
	assert.NotContains(t, resp.Dates, calendar.NewDate(2025, time.March, 12))
}

func TestAvailabilityDatesDegradesToEmptyOnStoreError(t *testing.T) {
	fix := newEngineFixture(nil)
	fix.events.err = &calendar.DependencyError{Op: "store: query events", Err: errors.New("timeout")}
	handler := availabilityRouter(NewAvailabilityHandler(fix.calc, nil))

	url := fmt.Sprintf("/artists/%s/availability/dates?location_id=%s&from=2025-03-01&to=2025-03-31",
		fix.artistID, fix.locationID)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp datesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Dates)
	assert.NotEmpty(t, resp.Warning)
}

func TestAvailabilityDatesRejectsBadInput(t *testing.T) {
	fix := newEngineFixture(nil)
	handler := availabilityRouter(NewAvailabilityHandler(fix.calc, nil))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/artists/not-a-uuid/availability/dates?location_id="+fix.locationID.String()+"&from=2025-03-01&to=2025-03-31", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/artists/%s/availability/dates?location_id=%s&from=March+1&to=2025-03-31", fix.artistID, fix.locationID), nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAvailabilityStartTimes(t *testing.T) {
	date := calendar.NewDate(2025, time.March, 10)
	start := calendar.MustClockTime("10:00")
	end := calendar.MustClockTime("11:00")
	fix := newEngineFixture([]*calendar.Event{
		{ID: uuid.New(), Source: calendar.SourceSession, Title: "Back piece", Date: date, Start: &start, End: &end},
	})
	handler := availabilityRouter(NewAvailabilityHandler(fix.calc, nil))

	url := fmt.Sprintf("/artists/%s/availability/start-times?location_id=%s&date=2025-03-10&session_length_minutes=30&break_time_minutes=15",
		fix.artistID, fix.locationID)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp startTimesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.StartTimes)
	assert.NotContains(t, resp.StartTimes, calendar.MustClockTime("10:00"))
	assert.Contains(t, resp.StartTimes, calendar.MustClockTime("11:30"))
}

func TestAvailabilityStartTimesRequiresSessionLength(t *testing.T) {
	fix := newEngineFixture(nil)
	handler := availabilityRouter(NewAvailabilityHandler(fix.calc, nil))

	url := fmt.Sprintf("/artists/%s/availability/start-times?location_id=%s&date=2025-03-10",
		fix.artistID, fix.locationID)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
