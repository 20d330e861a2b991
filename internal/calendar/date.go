// Package calendar defines the shared vocabulary for everything that
// occupies time on an artist's calendar: value types for local dates and
// wall-clock times, event records, recurrence rules, and the error
// taxonomy the scheduling engine reports.
//
// The mobile data model stores local calendar dates and "HH:MM" strings
// with no UTC offset, so Date and ClockTime deliberately carry no
// timezone at all.
package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Date is a local calendar date with no time-of-day and no timezone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a Date. Out-of-range days are normalized the way
// time.Date normalizes them, so callers should prefer ParseDate for
// untrusted input.
func NewDate(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ParseDate parses "2006-01-02".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, &ValidationError{Field: "date", Reason: fmt.Sprintf("invalid date %q", s)}
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// String formats the date as "2006-01-02".
func (d Date) String() string {
	return d.asTime().Format(DateLayout)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.asTime().Before(other.asTime())
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return d.asTime().After(other.asTime())
}

// Weekday returns the day of the week.
func (d Date) Weekday() time.Weekday {
	return d.asTime().Weekday()
}

// AddDays returns the date n days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	t := d.asTime().AddDate(0, 0, n)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// AddMonths returns the date n calendar months later, clamped to the
// last valid day of the target month: Jan 31 + 1 month is Feb 28 (or 29
// in a leap year), never Mar 3.
func (d Date) AddMonths(n int) Date {
	first := time.Date(d.Year, d.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	day := d.Day
	if last := daysInMonth(first.Year(), first.Month()); day > last {
		day = last
	}
	return Date{Year: first.Year(), Month: first.Month(), Day: day}
}

// AddYears returns the date n years later, clamping Feb 29 to Feb 28 in
// non-leap years.
func (d Date) AddYears(n int) Date {
	return d.AddMonths(12 * n)
}

// DaysUntil returns the number of days from d to other (negative when
// other is earlier).
func (d Date) DaysUntil(other Date) int {
	return int(other.asTime().Sub(d.asTime()) / (24 * time.Hour))
}

// ToTime converts d to a UTC midnight timestamp for store parameters.
func (d Date) ToTime() time.Time {
	return d.asTime()
}

// DateFromTime truncates a timestamp to its calendar date, discarding
// clock and zone.
func DateFromTime(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func (d Date) asTime() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
