package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkbookhq/inkbook-platform/internal/calendar"
)

func overlapRouter(h *OverlapHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/artists/{artistID}/overlap-check", h.Check)
	return r
}

func postOverlapCheck(t *testing.T, handler http.Handler, artistID uuid.UUID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/artists/"+artistID.String()+"/overlap-check", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestOverlapCheckConflict(t *testing.T) {
	date := calendar.NewDate(2025, time.March, 10)
	start := calendar.MustClockTime("10:00")
	end := calendar.MustClockTime("11:00")
	fix := newEngineFixture([]*calendar.Event{
		{ID: uuid.New(), Source: calendar.SourceSession, Title: "Back piece", Date: date, Start: &start, End: &end},
	})
	handler := overlapRouter(NewOverlapHandler(fix.detector, nil))

	rec := postOverlapCheck(t, handler, fix.artistID,
		`{"date":"2025-03-10","start":"10:30","end":"11:30","break_time_minutes":15,"source":"manual"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp overlapResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.HasOverlap)
	require.NotNil(t, resp.Conflict)
	assert.Equal(t, "Back piece", resp.Conflict.Title)
	assert.Equal(t, calendar.SourceSession, resp.Conflict.Source)
}

func TestOverlapCheckClear(t *testing.T) {
	fix := newEngineFixture(nil)
	handler := overlapRouter(NewOverlapHandler(fix.detector, nil))

	rec := postOverlapCheck(t, handler, fix.artistID,
		`{"date":"2025-03-10","start":"10:30","end":"11:30","break_time_minutes":15,"source":"manual"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp overlapResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.HasOverlap)
	assert.Nil(t, resp.Conflict)
}

func TestOverlapCheckFailsClosed(t *testing.T) {
	fix := newEngineFixture(nil)
	fix.events.err = &calendar.DependencyError{Op: "store: query events", Err: errors.New("timeout")}
	handler := overlapRouter(NewOverlapHandler(fix.detector, nil))

	rec := postOverlapCheck(t, handler, fix.artistID,
		`{"date":"2025-03-10","start":"10:30","end":"11:30","source":"manual"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestOverlapCheckRejectsMalformedBody(t *testing.T) {
	fix := newEngineFixture(nil)
	handler := overlapRouter(NewOverlapHandler(fix.detector, nil))

	rec := postOverlapCheck(t, handler, fix.artistID, `{"date":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOverlapCheckInvalidRange(t *testing.T) {
	fix := newEngineFixture(nil)
	handler := overlapRouter(NewOverlapHandler(fix.detector, nil))

	rec := postOverlapCheck(t, handler, fix.artistID,
		`{"date":"2025-03-10","start":"11:30","end":"10:30","source":"manual"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
