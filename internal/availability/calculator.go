// Package availability decides which calendar dates and which start
// times within a date are bookable for an artist at a location.
//
// The package fails closed: when the store or the profile source
// misbehaves, a query reports an error and no dates/slots at all, never
// a partial set. On doubt a day is unavailable, not double-bookable.
package availability

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/inkbookhq/inkbook-platform/internal/artists"
	"github.com/inkbookhq/inkbook-platform/internal/calendar"
	"github.com/inkbookhq/inkbook-platform/internal/observability/metrics"
	"github.com/inkbookhq/inkbook-platform/internal/overlap"
	"github.com/inkbookhq/inkbook-platform/internal/recurrence"
	"github.com/inkbookhq/inkbook-platform/pkg/logging"
)

var tracer = otel.Tracer("inkbook.internal.availability")

// DefaultSlotIntervalMinutes is the start-time grid observed in the
// booking screens.
const DefaultSlotIntervalMinutes = 30

// EventSource loads calendar events for a date range.
type EventSource interface {
	EventsInRange(ctx context.Context, artistID uuid.UUID, from, to calendar.Date) ([]*calendar.Event, error)
}

// ProfileSource loads artist scheduling profiles.
type ProfileSource interface {
	Get(ctx context.Context, artistID uuid.UUID) (*artists.Profile, error)
}

// ConflictChecker is the overlap detector seam.
type ConflictChecker interface {
	Check(ctx context.Context, p overlap.Params) (overlap.Result, error)
}

// Calculator produces bookable dates and start times.
type Calculator struct {
	events   EventSource
	profiles ProfileSource
	detector ConflictChecker
	logger   *logging.Logger
	metrics  *metrics.SchedulingMetrics

	// SlotIntervalMinutes is the candidate start-time granularity.
	SlotIntervalMinutes int
	// DayStart/DayEnd bound slot generation. Business hours are an
	// external collaborator's concern, so the defaults are open-ended.
	DayStart calendar.ClockTime
	DayEnd   calendar.ClockTime
}

// NewCalculator constructs a calculator with default slot settings.
// metrics may be nil.
func NewCalculator(events EventSource, profiles ProfileSource, detector ConflictChecker, logger *logging.Logger, m *metrics.SchedulingMetrics) *Calculator {
	if events == nil {
		panic("availability: event source required")
	}
	if profiles == nil {
		panic("availability: profile source required")
	}
	if detector == nil {
		panic("availability: conflict checker required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Calculator{
		events:              events,
		profiles:            profiles,
		detector:            detector,
		logger:              logger,
		metrics:             m,
		SlotIntervalMinutes: DefaultSlotIntervalMinutes,
		DayStart:            0,
		DayEnd:              calendar.MinutesPerDay,
	}
}

// AvailableDates returns the dates in [rangeStart, rangeEnd] on which
// the location is open and the artist has no all-day blocking event.
// A date with a partial block still counts as available here; the
// fine-grained filtering happens in AvailableStartTimes.
func (c *Calculator) AvailableDates(ctx context.Context, artistID, locationID uuid.UUID, rangeStart, rangeEnd calendar.Date) ([]calendar.Date, error) {
	ctx, span := tracer.Start(ctx, "availability.dates")
	defer span.End()
	span.SetAttributes(
		attribute.String("inkbook.artist_id", artistID.String()),
		attribute.String("inkbook.range", rangeStart.String()+".."+rangeEnd.String()),
	)

	if rangeEnd.Before(rangeStart) {
		return nil, &calendar.ValidationError{Field: "range", Reason: "range end before range start"}
	}

	profile, err := c.profiles.Get(ctx, artistID)
	if err != nil {
		span.RecordError(err)
		c.metrics.ObserveAvailability("dates", "error")
		c.logger.Error("available dates: profile load failed",
			"error", err, "artist_id", artistID, "location_id", locationID)
		return nil, err
	}

	begin := time.Now()
	events, err := c.events.EventsInRange(ctx, artistID, rangeStart, rangeEnd)
	c.metrics.ObserveStoreLatency("events_in_range", time.Since(begin).Seconds())
	if err != nil {
		span.RecordError(err)
		c.metrics.ObserveAvailability("dates", "error")
		c.logger.Error("available dates: event load failed",
			"error", err, "artist_id", artistID,
			"from", rangeStart, "to", rangeEnd)
		return nil, err
	}

	blocked, err := c.blockedDates(events, locationID, rangeStart, rangeEnd)
	if err != nil {
		span.RecordError(err)
		c.metrics.ObserveAvailability("dates", "error")
		return nil, err
	}

	var dates []calendar.Date
	for d := rangeStart; !d.After(rangeEnd); d = d.AddDays(1) {
		if _, ok := profile.ActiveLocation(locationID, d); !ok {
			continue
		}
		if _, isBlocked := blocked[d]; isBlocked {
			continue
		}
		dates = append(dates, d)
	}

	status := "ok"
	if len(dates) == 0 {
		status = "empty"
	}
	c.metrics.ObserveAvailability("dates", status)
	return dates, nil
}

// blockedDates expands every all-day event into the concrete dates it
// blocks within the window. Location-agnostic events block everywhere;
// an all-day event tied to a different location than the one queried is
// excluded by its own location filter. A mark_unavailable day ignores
// the filter entirely and blocks every location, even if the row
// somehow carries a location reference.
func (c *Calculator) blockedDates(events []*calendar.Event, locationID uuid.UUID, windowStart, windowEnd calendar.Date) (map[calendar.Date]struct{}, error) {
	blocked := make(map[calendar.Date]struct{})
	for _, ev := range events {
		if !ev.AllDay() {
			continue
		}
		if ev.Source != calendar.SourceMarkUnavailable &&
			ev.LocationID != nil && *ev.LocationID != locationID {
			continue
		}
		occurrences, err := recurrence.Expand(ev, windowStart, windowEnd)
		if err != nil {
			return nil, err
		}
		for _, d := range occurrences {
			blocked[d] = struct{}{}
		}
	}
	return blocked, nil
}

// AvailableStartTimes returns the start times on the slot grid for
// which a session of the given length, plus the trailing break buffer,
// fits on the date without colliding with any committed event. An empty
// result is a valid outcome, distinct from an error.
func (c *Calculator) AvailableStartTimes(ctx context.Context, artistID uuid.UUID, date calendar.Date, sessionLengthMinutes, breakTimeMinutes int, locationID uuid.UUID) ([]calendar.ClockTime, error) {
	ctx, span := tracer.Start(ctx, "availability.start_times")
	defer span.End()
	span.SetAttributes(
		attribute.String("inkbook.artist_id", artistID.String()),
		attribute.String("inkbook.date", date.String()),
		attribute.Int("inkbook.session_minutes", sessionLengthMinutes),
	)

	if sessionLengthMinutes <= 0 {
		return nil, &calendar.ValidationError{Field: "sessionLength", Reason: "session length must be positive"}
	}
	if breakTimeMinutes < 0 {
		return nil, &calendar.ValidationError{Field: "breakTime", Reason: "break time must not be negative"}
	}

	profile, err := c.profiles.Get(ctx, artistID)
	if err != nil {
		c.metrics.ObserveAvailability("times", "error")
		c.logger.Error("available start times: profile load failed",
			"error", err, "artist_id", artistID, "date", date)
		return nil, err
	}
	if _, ok := profile.ActiveLocation(locationID, date); !ok {
		c.metrics.ObserveAvailability("times", "empty")
		return nil, nil
	}

	interval := c.SlotIntervalMinutes
	if interval <= 0 {
		interval = DefaultSlotIntervalMinutes
	}

	var slots []calendar.ClockTime
	for start := c.DayStart; start < c.DayEnd; start = start.Add(interval) {
		end := start.Add(sessionLengthMinutes)
		if end > c.DayEnd || end > calendar.MinutesPerDay {
			break
		}
		res, err := c.detector.Check(ctx, overlap.Params{
			ArtistID:     artistID,
			Date:         date,
			Start:        start,
			End:          end,
			BreakMinutes: breakTimeMinutes,
			Source:       calendar.SourceManual,
		})
		if err != nil {
			span.RecordError(err)
			c.metrics.ObserveAvailability("times", "error")
			c.logger.Error("available start times: overlap check failed",
				"error", err, "artist_id", artistID, "date", date, "slot", start)
			return nil, err
		}
		if !res.HasOverlap {
			slots = append(slots, start)
		}
	}

	status := "ok"
	if len(slots) == 0 {
		status = "empty"
	}
	c.metrics.ObserveAvailability("times", status)
	return slots, nil
}
