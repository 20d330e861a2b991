// Package overlap decides whether a proposed time range collides with
// anything already on an artist's calendar, buffer included.
package overlap

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/inkbookhq/inkbook-platform/internal/calendar"
	"github.com/inkbookhq/inkbook-platform/internal/observability/metrics"
	"github.com/inkbookhq/inkbook-platform/internal/recurrence"
	"github.com/inkbookhq/inkbook-platform/pkg/logging"
)

var tracer = otel.Tracer("inkbook.internal.overlap")

// EventSource loads the calendar events that may occupy a date.
// *store.Repository satisfies it.
type EventSource interface {
	EventsOnDate(ctx context.Context, artistID uuid.UUID, date calendar.Date) ([]*calendar.Event, error)
}

// Params describes the candidate range being checked.
type Params struct {
	ArtistID     uuid.UUID
	Date         calendar.Date
	Start        calendar.ClockTime
	End          calendar.ClockTime
	BreakMinutes int

	// Source is the caller's own event kind (e.g. "manual",
	// "block_time"). Recorded for logging; it never changes how other
	// events are treated.
	Source calendar.Source

	// ExcludeEventID skips the event being edited when re-checking it
	// against the rest of the calendar.
	ExcludeEventID uuid.UUID
}

// Result reports the first conflicting event found, in query order. The
// UI needs only one example to reject a candidate.
type Result struct {
	HasOverlap bool
	Event      *calendar.Event
}

// Detector scans an artist's day for collisions.
type Detector struct {
	events     EventSource
	logger     *logging.Logger
	scheduling *metrics.SchedulingMetrics
}

// NewDetector constructs a detector. metrics may be nil.
func NewDetector(events EventSource, logger *logging.Logger, m *metrics.SchedulingMetrics) *Detector {
	if events == nil {
		panic("overlap: event source required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Detector{events: events, logger: logger, scheduling: m}
}

// Check reports the first committed event whose occupied range, with
// the break buffer applied, collides with the candidate. A returned
// error means the conflict status is unknown; callers must block the
// write rather than proceed (fail closed).
//
// The buffer is symmetric: a candidate starting less than BreakMinutes
// after an existing range ends conflicts, and vice versa. A gap exactly
// equal to the buffer is allowed.
func (d *Detector) Check(ctx context.Context, p Params) (Result, error) {
	ctx, span := tracer.Start(ctx, "overlap.check")
	defer span.End()
	span.SetAttributes(
		attribute.String("inkbook.artist_id", p.ArtistID.String()),
		attribute.String("inkbook.date", p.Date.String()),
		attribute.String("inkbook.source", string(p.Source)),
	)

	if _, err := calendar.NewTimeRange(p.Date, p.Start, p.End); err != nil {
		return Result{}, err
	}
	if p.BreakMinutes < 0 {
		return Result{}, &calendar.ValidationError{Field: "breakTime", Reason: "break time must not be negative"}
	}

	events, err := d.events.EventsOnDate(ctx, p.ArtistID, p.Date)
	if err != nil {
		span.RecordError(err)
		d.scheduling.ObserveOverlapCheck("error")
		d.logger.Error("overlap check failed, treating conflict status as unknown",
			"error", err, "artist_id", p.ArtistID, "date", p.Date)
		return Result{}, err
	}

	for _, ev := range events {
		if p.ExcludeEventID != uuid.Nil && ev.ID == p.ExcludeEventID {
			continue
		}
		covered, err := recurrence.Covers(ev, p.Date)
		if err != nil {
			span.RecordError(err)
			d.scheduling.ObserveOverlapCheck("error")
			return Result{}, err
		}
		if !covered {
			continue
		}
		evStart, evEnd := ev.OccupiedRange()
		if collides(p.Start, p.End, evStart, evEnd, p.BreakMinutes) {
			d.scheduling.ObserveOverlapCheck("conflict")
			d.logger.Info("overlap detected",
				"artist_id", p.ArtistID, "date", p.Date,
				"candidate", p.Start.String()+"-"+p.End.String(),
				"conflicts_with", ev.Title, "conflict_source", ev.Source)
			return Result{HasOverlap: true, Event: ev}, nil
		}
	}

	d.scheduling.ObserveOverlapCheck("clear")
	return Result{}, nil
}

// collides applies the symmetric buffer: the candidate and the existing
// range must be separated by at least breakMinutes on either side.
func collides(candStart, candEnd, evStart, evEnd calendar.ClockTime, breakMinutes int) bool {
	return candStart < evEnd.Add(breakMinutes) && evStart < candEnd.Add(breakMinutes)
}
