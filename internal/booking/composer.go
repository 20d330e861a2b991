package booking

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/inkbookhq/inkbook-platform/internal/artists"
	"github.com/inkbookhq/inkbook-platform/internal/calendar"
	"github.com/inkbookhq/inkbook-platform/internal/notify"
	"github.com/inkbookhq/inkbook-platform/internal/observability/metrics"
	"github.com/inkbookhq/inkbook-platform/internal/overlap"
	"github.com/inkbookhq/inkbook-platform/internal/store"
	"github.com/inkbookhq/inkbook-platform/pkg/logging"
)

var tracer = otel.Tracer("inkbook.internal.booking")

// State names the phase a booking request is in. Transitions are
// one-way: a request that fails never resumes.
type State string

const (
	StateValidating        State = "validating"
	StateCheckingConflicts State = "checking_conflicts"
	StateResolvingClient   State = "resolving_client"
	StatePersisting        State = "persisting"
	StateSucceeded         State = "succeeded"
	StateFailed            State = "failed"
)

// DateSelection is one requested session date. Start is a pointer so a
// date picked without a time is distinguishable from midnight.
type DateSelection struct {
	Date  calendar.Date       `json:"date"`
	Start *calendar.ClockTime `json:"start"`
}

// Form is the artist's manual booking input: one client, one or more
// dates, one session length shared by every date.
type Form struct {
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email"`
	ClientPhone string `json:"client_phone"`

	Title                string          `json:"title"`
	Dates                []DateSelection `json:"dates"`
	SessionLengthMinutes int             `json:"session_length_minutes"`
	LocationID           uuid.UUID       `json:"location_id"`
	DepositCents         int64           `json:"deposit_cents"`
	RateCents            int64           `json:"rate_cents"`
	Notes                string          `json:"notes,omitempty"`
}

// Receipt reports what a successful booking created.
type Receipt struct {
	ClientID   uuid.UUID   `json:"client_id"`
	SessionIDs []uuid.UUID `json:"session_ids"`
}

// Slot is a session's placement on the calendar, used by the
// reschedule path.
type Slot struct {
	Date  calendar.Date      `json:"date"`
	Start calendar.ClockTime `json:"start"`
	End   calendar.ClockTime `json:"end"`
}

// Store is the subset of the event repository the composer writes
// through.
type Store interface {
	FindClientByEmail(ctx context.Context, artistID uuid.UUID, email string) (*store.Client, error)
	InsertClient(ctx context.Context, c *store.Client) (uuid.UUID, error)
	InsertSessions(ctx context.Context, artistID uuid.UUID, sessions []store.SessionInsert) ([]uuid.UUID, error)
	UpdateSessionTime(ctx context.Context, artistID, sessionID uuid.UUID, date calendar.Date, start, end calendar.ClockTime) error
}

// ConflictChecker guards every write against the artist's calendar.
type ConflictChecker interface {
	Check(ctx context.Context, p overlap.Params) (overlap.Result, error)
}

// ProfileSource loads the artist profile for the break buffer and
// location names.
type ProfileSource interface {
	Get(ctx context.Context, artistID uuid.UUID) (*artists.Profile, error)
}

// ConfirmationSender delivers the client-facing confirmation. Delivery
// happens after commit and never affects the booking outcome.
type ConfirmationSender interface {
	SendBookingConfirmation(ctx context.Context, conf notify.BookingConfirmation) error
}

// Composer turns a validated booking form into committed session rows.
type Composer struct {
	repo       Store
	detector   ConflictChecker
	profiles   ProfileSource
	confirmer  ConfirmationSender
	logger     *logging.Logger
	scheduling *metrics.SchedulingMetrics
}

// NewComposer constructs a booking composer. confirmer and metrics may
// be nil.
func NewComposer(repo Store, detector ConflictChecker, profiles ProfileSource, confirmer ConfirmationSender, logger *logging.Logger, m *metrics.SchedulingMetrics) *Composer {
	if repo == nil {
		panic("booking: store required")
	}
	if detector == nil {
		panic("booking: conflict checker required")
	}
	if profiles == nil {
		panic("booking: profile source required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Composer{
		repo:       repo,
		detector:   detector,
		profiles:   profiles,
		confirmer:  confirmer,
		logger:     logger,
		scheduling: m,
	}
}

// CreateManualBooking validates the form, checks every requested date
// for conflicts, resolves the client record, and writes one session row
// per date inside a single transaction. The write is all or nothing: if
// any date conflicts or any step fails, no rows land.
func (c *Composer) CreateManualBooking(ctx context.Context, artistID uuid.UUID, form Form) (*Receipt, error) {
	ctx, span := tracer.Start(ctx, "booking.create_manual")
	defer span.End()
	span.SetAttributes(
		attribute.String("inkbook.artist_id", artistID.String()),
		attribute.Int("inkbook.dates", len(form.Dates)),
	)

	log := c.logger.With("artist_id", artistID, "client_email", form.ClientEmail)

	c.transition(log, StateValidating)
	ranges, err := c.validate(form)
	if err != nil {
		return nil, c.fail(log, span, err)
	}

	profile, err := c.profiles.Get(ctx, artistID)
	if err != nil {
		return nil, c.fail(log, span, err)
	}

	c.transition(log, StateCheckingConflicts)
	for _, tr := range ranges {
		result, err := c.detector.Check(ctx, overlap.Params{
			ArtistID:     artistID,
			Date:         tr.Date,
			Start:        tr.Start,
			End:          tr.End,
			BreakMinutes: profile.Flow.BreakTimeMinutes,
			Source:       calendar.SourceManual,
		})
		if err != nil {
			// Unknown conflict status: block the write.
			return nil, c.fail(log, span, err)
		}
		if result.HasOverlap {
			return nil, c.fail(log, span, &calendar.ConflictError{
				Date:       tr.Date,
				EventTitle: result.Event.Title,
				Source:     result.Event.Source,
			})
		}
	}

	c.transition(log, StateResolvingClient)
	clientID, err := c.resolveClient(ctx, artistID, form)
	if err != nil {
		return nil, c.fail(log, span, err)
	}

	c.transition(log, StatePersisting)
	inserts := make([]store.SessionInsert, 0, len(ranges))
	for i, tr := range ranges {
		ins := store.SessionInsert{
			Title:      form.Title,
			Date:       tr.Date,
			Start:      tr.Start,
			End:        tr.End,
			LocationID: form.LocationID,
			ClientID:   clientID,
			RateCents:  form.RateCents,
			Notes:      form.Notes,
		}
		// The deposit is owed once per booking, so it rides on the
		// first session row.
		if i == 0 {
			ins.DepositCents = form.DepositCents
		}
		inserts = append(inserts, ins)
	}
	sessionIDs, err := c.repo.InsertSessions(ctx, artistID, inserts)
	if err != nil {
		return nil, c.fail(log, span, err)
	}

	c.transition(log, StateSucceeded)
	c.scheduling.ObserveBooking("success")
	log.Info("manual booking created",
		"client_id", clientID, "sessions", len(sessionIDs))

	if c.confirmer != nil {
		conf := c.buildConfirmation(profile, form, ranges)
		go func(ctx context.Context) {
			if err := c.confirmer.SendBookingConfirmation(ctx, conf); err != nil {
				c.logger.Warn("booking: confirmation delivery failed",
					"error", err, "client_email", form.ClientEmail)
			}
		}(context.WithoutCancel(ctx))
	}

	return &Receipt{ClientID: clientID, SessionIDs: sessionIDs}, nil
}

// RescheduleSession moves an existing session. The overlap check is
// re-run only when the placement actually changed, and the session
// being moved is excluded from its own check.
func (c *Composer) RescheduleSession(ctx context.Context, artistID, sessionID uuid.UUID, current, next Slot) error {
	ctx, span := tracer.Start(ctx, "booking.reschedule")
	defer span.End()
	span.SetAttributes(attribute.String("inkbook.session_id", sessionID.String()))

	if current == next {
		return nil
	}
	if _, err := calendar.NewTimeRange(next.Date, next.Start, next.End); err != nil {
		return err
	}

	profile, err := c.profiles.Get(ctx, artistID)
	if err != nil {
		span.RecordError(err)
		return err
	}

	result, err := c.detector.Check(ctx, overlap.Params{
		ArtistID:       artistID,
		Date:           next.Date,
		Start:          next.Start,
		End:            next.End,
		BreakMinutes:   profile.Flow.BreakTimeMinutes,
		Source:         calendar.SourceSession,
		ExcludeEventID: sessionID,
	})
	if err != nil {
		span.RecordError(err)
		return err
	}
	if result.HasOverlap {
		return &calendar.ConflictError{
			Date:       next.Date,
			EventTitle: result.Event.Title,
			Source:     result.Event.Source,
		}
	}

	if err := c.repo.UpdateSessionTime(ctx, artistID, sessionID, next.Date, next.Start, next.End); err != nil {
		span.RecordError(err)
		return err
	}
	c.logger.Info("session rescheduled",
		"session_id", sessionID, "date", next.Date, "start", next.Start)
	return nil
}

// validate applies the form checks in a fixed order and expands each
// selection into a concrete time range.
func (c *Composer) validate(form Form) ([]calendar.TimeRange, error) {
	if len(form.Dates) == 0 {
		return nil, &calendar.ValidationError{Field: "dates", Reason: "at least one date is required"}
	}
	if form.SessionLengthMinutes <= 0 {
		return nil, &calendar.ValidationError{Field: "sessionLength", Reason: "session length must be positive"}
	}
	ranges := make([]calendar.TimeRange, 0, len(form.Dates))
	seen := make(map[calendar.Date]struct{}, len(form.Dates))
	for _, sel := range form.Dates {
		if sel.Start == nil {
			return nil, &calendar.ValidationError{
				Field:  "dates",
				Reason: fmt.Sprintf("no start time selected for %s", sel.Date),
			}
		}
		// One session per date. Duplicate selections would pass the
		// conflict checks against the store (neither is committed yet)
		// and persist two overlapping rows.
		if _, dup := seen[sel.Date]; dup {
			return nil, &calendar.ValidationError{
				Field:  "dates",
				Reason: fmt.Sprintf("date %s selected more than once", sel.Date),
			}
		}
		seen[sel.Date] = struct{}{}
		tr, err := calendar.NewTimeRange(sel.Date, *sel.Start, sel.Start.Add(form.SessionLengthMinutes))
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, tr)
	}
	if strings.TrimSpace(form.ClientName) == "" {
		return nil, &calendar.ValidationError{Field: "clientName", Reason: "client name is required"}
	}
	if strings.TrimSpace(form.ClientEmail) == "" {
		return nil, &calendar.ValidationError{Field: "clientEmail", Reason: "client email is required"}
	}
	if strings.TrimSpace(form.ClientPhone) == "" {
		return nil, &calendar.ValidationError{Field: "clientPhone", Reason: "client phone is required"}
	}
	return ranges, nil
}

// resolveClient reuses the artist's existing client record for the
// email, creating one if none exists.
func (c *Composer) resolveClient(ctx context.Context, artistID uuid.UUID, form Form) (uuid.UUID, error) {
	existing, err := c.repo.FindClientByEmail(ctx, artistID, form.ClientEmail)
	if err != nil {
		return uuid.Nil, err
	}
	if existing != nil {
		return existing.ID, nil
	}
	return c.repo.InsertClient(ctx, &store.Client{
		ArtistID: artistID,
		FullName: strings.TrimSpace(form.ClientName),
		Email:    strings.TrimSpace(form.ClientEmail),
		Phone:    strings.TrimSpace(form.ClientPhone),
	})
}

func (c *Composer) buildConfirmation(profile *artists.Profile, form Form, ranges []calendar.TimeRange) notify.BookingConfirmation {
	var locationName string
	for _, loc := range profile.Locations {
		if loc.ID == form.LocationID {
			locationName = loc.Name
			break
		}
	}
	lines := make([]notify.SessionLine, 0, len(ranges))
	for _, tr := range ranges {
		lines = append(lines, notify.SessionLine{
			Date:     tr.Date,
			Start:    tr.Start,
			End:      tr.End,
			Location: locationName,
		})
	}
	return notify.BookingConfirmation{
		ArtistName:   profile.Name,
		ClientName:   form.ClientName,
		ClientEmail:  form.ClientEmail,
		Title:        form.Title,
		Sessions:     lines,
		DepositCents: form.DepositCents,
	}
}

func (c *Composer) transition(log *logging.Logger, to State) {
	log.Debug("booking state", "state", string(to))
}

func (c *Composer) fail(log *logging.Logger, span trace.Span, err error) error {
	span.RecordError(err)
	c.transition(log, StateFailed)
	c.scheduling.ObserveBooking("failed")
	log.Warn("manual booking failed", "error", err)
	return err
}
