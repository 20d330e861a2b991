// Package store persists calendar events, sessions, and client records
// in Postgres. Sessions are calendar events with source 'session';
// recurring templates are stored once and expanded on demand.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/inkbookhq/inkbook-platform/internal/calendar"
)

// DB is the subset of pgxpool.Pool the repository needs. pgxmock
// satisfies it in tests.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repository provides calendar persistence over pgx.
type Repository struct {
	db DB
}

// NewRepository creates a repository backed by a pgx pool (or a mock).
func NewRepository(db DB) *Repository {
	if db == nil {
		panic("store: db required")
	}
	return &Repository{db: db}
}

const eventColumns = `id, artist_id, source, title, event_date, end_date,
	start_minutes, end_minutes, location_id, recur_cadence, recur_count, recur_unit,
	client_id, deposit_cents, rate_cents, notes`

const eventsInRangeSQL = `SELECT ` + eventColumns + `
	FROM calendar_events
	WHERE artist_id = $1
	  AND (
	    (event_date >= $2 AND event_date <= $3)
	    OR (end_date IS NOT NULL AND event_date <= $3 AND end_date >= $2)
	    OR (recur_count > 0 AND event_date <= $3)
	  )
	ORDER BY event_date, start_minutes NULLS FIRST, created_at`

// EventsInRange returns every event that may occupy a date in the
// inclusive range: single-day rows inside it, multi-day spans crossing
// it, and recurring templates anchored on or before its end. Recurring
// templates are returned as templates; callers expand them.
func (r *Repository) EventsInRange(ctx context.Context, artistID uuid.UUID, from, to calendar.Date) ([]*calendar.Event, error) {
	rows, err := r.db.Query(ctx, eventsInRangeSQL, artistID, from.ToTime(), to.ToTime())
	if err != nil {
		return nil, &calendar.DependencyError{Op: "store: query events", Err: err}
	}
	defer rows.Close()

	var events []*calendar.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, &calendar.DependencyError{Op: "store: scan events", Err: err}
	}
	return events, nil
}

// EventsOnDate returns the events that may occupy a single date.
func (r *Repository) EventsOnDate(ctx context.Context, artistID uuid.UUID, date calendar.Date) ([]*calendar.Event, error) {
	return r.EventsInRange(ctx, artistID, date, date)
}

// SessionInsert is one session row of a manual booking.
type SessionInsert struct {
	Title        string
	Date         calendar.Date
	Start        calendar.ClockTime
	End          calendar.ClockTime
	LocationID   uuid.UUID
	ClientID     uuid.UUID
	DepositCents int64
	RateCents    int64
	Notes        string
}

const insertSessionSQL = `INSERT INTO calendar_events
	(id, artist_id, source, title, event_date, start_minutes, end_minutes,
	 location_id, client_id, deposit_cents, rate_cents, notes)
	VALUES ($1, $2, 'session', $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// InsertSessions writes one session row per booked date inside a single
// transaction. Either every row lands or none do.
func (r *Repository) InsertSessions(ctx context.Context, artistID uuid.UUID, sessions []SessionInsert) ([]uuid.UUID, error) {
	if len(sessions) == 0 {
		return nil, nil
	}
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, &calendar.DependencyError{Op: "store: begin booking tx", Err: err}
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ids := make([]uuid.UUID, 0, len(sessions))
	for _, s := range sessions {
		id := uuid.New()
		_, err := tx.Exec(ctx, insertSessionSQL,
			id, artistID, s.Title, s.Date.ToTime(), s.Start.Minutes(), s.End.Minutes(),
			s.LocationID, s.ClientID, s.DepositCents, s.RateCents, s.Notes)
		if err != nil {
			return nil, &calendar.DependencyError{Op: fmt.Sprintf("store: insert session on %s", s.Date), Err: err}
		}
		ids = append(ids, id)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, &calendar.DependencyError{Op: "store: commit booking tx", Err: err}
	}
	return ids, nil
}

const updateSessionTimeSQL = `UPDATE calendar_events
	SET event_date = $3, start_minutes = $4, end_minutes = $5, updated_at = now()
	WHERE id = $2 AND artist_id = $1 AND source = 'session'`

// UpdateSessionTime moves one of the artist's sessions to a new date
// and clock range. Sessions belonging to other artists are not found.
// Callers re-run the overlap check before calling this.
func (r *Repository) UpdateSessionTime(ctx context.Context, artistID, sessionID uuid.UUID, date calendar.Date, start, end calendar.ClockTime) error {
	tag, err := r.db.Exec(ctx, updateSessionTimeSQL, artistID, sessionID, date.ToTime(), start.Minutes(), end.Minutes())
	if err != nil {
		return &calendar.DependencyError{Op: "store: update session time", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("store: session %s not found", sessionID)
	}
	return nil
}

// Client is a minimal client record; full client CRUD lives outside the
// engine.
type Client struct {
	ID        uuid.UUID
	ArtistID  uuid.UUID
	FullName  string
	Email     string
	Phone     string
	CreatedAt time.Time
}

const findClientSQL = `SELECT id, artist_id, full_name, email, phone, created_at
	FROM clients WHERE artist_id = $1 AND lower(email) = lower($2)`

// FindClientByEmail returns the artist's client with the given email,
// or nil when none exists.
func (r *Repository) FindClientByEmail(ctx context.Context, artistID uuid.UUID, email string) (*Client, error) {
	var c Client
	err := r.db.QueryRow(ctx, findClientSQL, artistID, email).
		Scan(&c.ID, &c.ArtistID, &c.FullName, &c.Email, &c.Phone, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &calendar.DependencyError{Op: "store: find client", Err: err}
	}
	return &c, nil
}

const insertClientSQL = `INSERT INTO clients (id, artist_id, full_name, email, phone)
	VALUES ($1, $2, $3, $4, $5)`

// InsertClient creates a client record and returns its id.
func (r *Repository) InsertClient(ctx context.Context, c *Client) (uuid.UUID, error) {
	id := uuid.New()
	_, err := r.db.Exec(ctx, insertClientSQL, id, c.ArtistID, c.FullName, c.Email, c.Phone)
	if err != nil {
		return uuid.Nil, &calendar.DependencyError{Op: "store: insert client", Err: err}
	}
	return id, nil
}

// scanEvent decodes one calendar_events row. Malformed recurrence data
// surfaces as InvalidRecurrenceError rather than being patched over.
func scanEvent(row pgx.Row) (*calendar.Event, error) {
	var (
		ev           calendar.Event
		eventDate    time.Time
		endDate      pgtype.Date
		startMinutes pgtype.Int4
		endMinutes   pgtype.Int4
		locationID   pgtype.UUID
		cadence      pgtype.Text
		count        pgtype.Int4
		unit         pgtype.Text
		clientID     pgtype.UUID
		notes        pgtype.Text
	)
	err := row.Scan(&ev.ID, &ev.ArtistID, &ev.Source, &ev.Title, &eventDate, &endDate,
		&startMinutes, &endMinutes, &locationID, &cadence, &count, &unit,
		&clientID, &ev.DepositCents, &ev.RateCents, &notes)
	if err != nil {
		return nil, &calendar.DependencyError{Op: "store: scan event", Err: err}
	}

	ev.Date = calendar.DateFromTime(eventDate)
	if endDate.Valid {
		d := calendar.DateFromTime(endDate.Time)
		ev.EndDate = &d
	}
	if startMinutes.Valid && endMinutes.Valid {
		s := calendar.ClockTime(startMinutes.Int32)
		e := calendar.ClockTime(endMinutes.Int32)
		ev.Start = &s
		ev.End = &e
	}
	if locationID.Valid {
		id := uuid.UUID(locationID.Bytes)
		ev.LocationID = &id
	}
	if clientID.Valid {
		id := uuid.UUID(clientID.Bytes)
		ev.ClientID = &id
	}
	ev.Notes = notes.String

	rule, err := decodeRecurrence(ev.ID, cadence, count, unit)
	if err != nil {
		return nil, err
	}
	ev.Recurrence = rule
	return &ev, nil
}

// decodeRecurrence rebuilds a recurrence rule from its columns. A row
// with a positive count but no cadence is a data-integrity violation,
// never silently non-repeating. A count of zero or NULL means the
// template does not repeat regardless of what the cadence column says.
func decodeRecurrence(eventID uuid.UUID, cadence pgtype.Text, count pgtype.Int4, unit pgtype.Text) (*calendar.RecurrenceRule, error) {
	if !count.Valid || count.Int32 == 0 {
		return nil, nil
	}
	if !cadence.Valid || cadence.String == "" {
		return nil, &calendar.InvalidRecurrenceError{
			EventID: eventID.String(),
			Reason:  "repeat count set but cadence missing",
		}
	}
	c := calendar.Cadence(cadence.String)
	u := calendar.DurationUnit(unit.String)
	if !unit.Valid || unit.String == "" {
		u = calendar.DefaultUnit(c)
	}
	rule, err := calendar.NewRecurrenceRule(c, int(count.Int32), u)
	if err != nil {
		return nil, &calendar.InvalidRecurrenceError{EventID: eventID.String(), Reason: err.Error()}
	}
	return rule, nil
}
