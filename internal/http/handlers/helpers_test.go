package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/inkbookhq/inkbook-platform/internal/artists"
	"github.com/inkbookhq/inkbook-platform/internal/availability"
	"github.com/inkbookhq/inkbook-platform/internal/calendar"
	"github.com/inkbookhq/inkbook-platform/internal/overlap"
)

type stubEvents struct {
	events []*calendar.Event
	err    error
}

func (s *stubEvents) EventsInRange(ctx context.Context, artistID uuid.UUID, from, to calendar.Date) ([]*calendar.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.events, nil
}

func (s *stubEvents) EventsOnDate(ctx context.Context, artistID uuid.UUID, date calendar.Date) ([]*calendar.Event, error) {
	return s.EventsInRange(ctx, artistID, date, date)
}

type stubProfiles struct {
	profile *artists.Profile
}

func (s *stubProfiles) Get(ctx context.Context, artistID uuid.UUID) (*artists.Profile, error) {
	return s.profile, nil
}

type engineFixture struct {
	artistID   uuid.UUID
	locationID uuid.UUID
	events     *stubEvents
	calc       *availability.Calculator
	detector   *overlap.Detector
	profiles   *stubProfiles
}

func newEngineFixture(events []*calendar.Event) *engineFixture {
	artistID := uuid.New()
	locationID := uuid.New()
	src := &stubEvents{events: events}
	profiles := &stubProfiles{profile: &artists.Profile{
		ArtistID:  artistID,
		Name:      "Mara Voss",
		Flow:      artists.Flow{BreakTimeMinutes: 15},
		Locations: []artists.Location{{ID: locationID, Name: "Home Studio"}},
	}}
	detector := overlap.NewDetector(src, nil, nil)
	calc := availability.NewCalculator(src, profiles, detector, nil, nil)
	return &engineFixture{
		artistID:   artistID,
		locationID: locationID,
		events:     src,
		calc:       calc,
		detector:   detector,
		profiles:   profiles,
	}
}

func availabilityRouter(h *AvailabilityHandler) http.Handler {
	r := chi.NewRouter()
	r.Route("/artists/{artistID}/availability", func(r chi.Router) {
		r.Get("/dates", h.Dates)
		r.Get("/start-times", h.StartTimes)
	})
	return r
}
