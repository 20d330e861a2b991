package calendar

import (
	"github.com/google/uuid"
)

// Source identifies what kind of record occupies the calendar.
type Source string

const (
	SourceSession         Source = "session"
	SourceBlockTime       Source = "block_time"
	SourceMarkUnavailable Source = "mark_unavailable"
	SourceSpotConvention  Source = "spot_convention"
	SourceQuickAppt       Source = "quick_appointment"
	SourceBookOff         Source = "book_off"
	SourceTempChange      Source = "temp_change"

	// SourceManual marks an overlap check issued by the manual booking
	// form before any event exists.
	SourceManual Source = "manual"
)

// Valid reports whether s is a known persisted event source.
func (s Source) Valid() bool {
	switch s {
	case SourceSession, SourceBlockTime, SourceMarkUnavailable,
		SourceSpotConvention, SourceQuickAppt, SourceBookOff, SourceTempChange:
		return true
	}
	return false
}

// Event is one record occupying time on an artist's calendar. An event
// carrying a recurrence rule is the template; concrete occurrences are
// derived on demand and never persisted separately.
type Event struct {
	ID       uuid.UUID `json:"id"`
	ArtistID uuid.UUID `json:"artist_id"`
	Source   Source    `json:"source"`
	Title    string    `json:"title"`

	// Date is the event's own (anchor) date. EndDate is set only for
	// multi-day all-day spans such as spot conventions and is inclusive.
	Date    Date  `json:"date"`
	EndDate *Date `json:"end_date,omitempty"`

	// Start/End are nil for all-day records (mark_unavailable, all-day
	// spans). When set, Start < End and the range never spans midnight.
	Start *ClockTime `json:"start,omitempty"`
	End   *ClockTime `json:"end,omitempty"`

	// LocationID is nil for location-agnostic records, which block the
	// artist everywhere.
	LocationID *uuid.UUID `json:"location_id,omitempty"`

	Recurrence *RecurrenceRule `json:"recurrence,omitempty"`

	// Session-only fields.
	ClientID     *uuid.UUID `json:"client_id,omitempty"`
	DepositCents int64      `json:"deposit_cents,omitempty"`
	RateCents    int64      `json:"rate_cents,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

// AllDay reports whether the event occupies whole days rather than a
// clock range.
func (e *Event) AllDay() bool {
	return e.Start == nil || e.End == nil
}

// MultiDay reports whether the event spans an inclusive date range.
func (e *Event) MultiDay() bool {
	return e.EndDate != nil && e.EndDate.After(e.Date)
}

// Repeats reports whether the event carries an effective recurrence
// rule. A rule with Count 0 counts as non-repeating.
func (e *Event) Repeats() bool {
	return e.Recurrence != nil && e.Recurrence.Count > 0
}

// OccupiedRange returns the clock range the event occupies on a date it
// covers. All-day events occupy the full day.
func (e *Event) OccupiedRange() (start, end ClockTime) {
	if e.AllDay() {
		return 0, MinutesPerDay
	}
	return *e.Start, *e.End
}
