package calendar

import "fmt"

// Cadence is the step between recurrence occurrences.
type Cadence string

const (
	CadenceDaily   Cadence = "daily"
	CadenceWeekly  Cadence = "weekly"
	CadenceMonthly Cadence = "monthly"
	CadenceYearly  Cadence = "yearly"
)

// Valid reports whether c is a known cadence.
func (c Cadence) Valid() bool {
	switch c {
	case CadenceDaily, CadenceWeekly, CadenceMonthly, CadenceYearly:
		return true
	}
	return false
}

// DurationUnit bounds how long a recurrence keeps producing occurrences.
// The unit usually matches the cadence but may diverge for
// mark-unavailable records, where the artist picks it independently.
type DurationUnit string

const (
	UnitDays   DurationUnit = "days"
	UnitWeeks  DurationUnit = "weeks"
	UnitMonths DurationUnit = "months"
	UnitYears  DurationUnit = "years"
)

// Valid reports whether u is a known duration unit.
func (u DurationUnit) Valid() bool {
	switch u {
	case UnitDays, UnitWeeks, UnitMonths, UnitYears:
		return true
	}
	return false
}

// RecurrenceRule describes a repeating template anchored to the
// event's own date. Cadence is the step; Count plus Unit form the
// termination condition. The two are never conflated: a daily cadence
// bounded by "2 weeks" yields fourteen occurrences.
type RecurrenceRule struct {
	Cadence Cadence      `json:"cadence"`
	Count   int          `json:"count"`
	Unit    DurationUnit `json:"unit"`
}

// NewRecurrenceRule validates the combination at construction time so
// nonsensical rules are rejected before they reach the expander.
func NewRecurrenceRule(cadence Cadence, count int, unit DurationUnit) (*RecurrenceRule, error) {
	if !cadence.Valid() {
		return nil, &InvalidRecurrenceError{Reason: fmt.Sprintf("unknown cadence %q", cadence)}
	}
	if count < 1 {
		return nil, &InvalidRecurrenceError{Reason: fmt.Sprintf("duration count must be positive, got %d", count)}
	}
	if !unit.Valid() {
		return nil, &InvalidRecurrenceError{Reason: fmt.Sprintf("unknown duration unit %q", unit)}
	}
	return &RecurrenceRule{Cadence: cadence, Count: count, Unit: unit}, nil
}

// DefaultUnit returns the unit implied by a cadence, used when the
// source record stores only a repeat type.
func DefaultUnit(cadence Cadence) DurationUnit {
	switch cadence {
	case CadenceDaily:
		return UnitDays
	case CadenceWeekly:
		return UnitWeeks
	case CadenceMonthly:
		return UnitMonths
	case CadenceYearly:
		return UnitYears
	default:
		return ""
	}
}

// Deadline returns the first date no longer covered by the rule,
// anchored at the template's own date.
func (r *RecurrenceRule) Deadline(anchor Date) Date {
	switch r.Unit {
	case UnitDays:
		return anchor.AddDays(r.Count)
	case UnitWeeks:
		return anchor.AddDays(7 * r.Count)
	case UnitMonths:
		return anchor.AddMonths(r.Count)
	case UnitYears:
		return anchor.AddYears(r.Count)
	default:
		return anchor
	}
}

// Step returns occurrence n (0 = the anchor itself) using
// calendar-correct month and year arithmetic.
func (r *RecurrenceRule) Step(anchor Date, n int) Date {
	switch r.Cadence {
	case CadenceDaily:
		return anchor.AddDays(n)
	case CadenceWeekly:
		return anchor.AddDays(7 * n)
	case CadenceMonthly:
		return anchor.AddMonths(n)
	case CadenceYearly:
		return anchor.AddYears(n)
	default:
		return anchor
	}
}
