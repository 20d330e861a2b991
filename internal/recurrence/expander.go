// Package recurrence turns recurring calendar templates into the
// concrete dates they occupy within a queried window.
package recurrence

import (
	"github.com/inkbookhq/inkbook-platform/internal/calendar"
)

// Expand returns the occurrence dates of ev intersecting the inclusive
// window [windowStart, windowEnd], ascending.
//
// Non-repeating single-day templates yield their own date when it falls
// in the window. Multi-day all-day templates (spot conventions) expand
// to the contiguous inclusive date range, never a cadence. Repeating
// templates step forward from the anchor by the rule's cadence until
// the duration budget is exhausted or the window is passed; dates before
// windowStart are skipped but still consume budget.
func Expand(ev *calendar.Event, windowStart, windowEnd calendar.Date) ([]calendar.Date, error) {
	if windowEnd.Before(windowStart) {
		return nil, nil
	}
	if err := checkRule(ev); err != nil {
		return nil, err
	}

	if ev.MultiDay() {
		return expandSpan(ev.Date, *ev.EndDate, windowStart, windowEnd), nil
	}
	if !ev.Repeats() {
		if inWindow(ev.Date, windowStart, windowEnd) {
			return []calendar.Date{ev.Date}, nil
		}
		return nil, nil
	}

	rule := ev.Recurrence
	deadline := rule.Deadline(ev.Date)
	var dates []calendar.Date
	for n := 0; ; n++ {
		occ := rule.Step(ev.Date, n)
		if !occ.Before(deadline) {
			break
		}
		if occ.After(windowEnd) {
			break
		}
		if occ.Before(windowStart) {
			continue
		}
		dates = append(dates, occ)
	}
	return dates, nil
}

// Covers reports whether ev occupies the given date. This is the
// predicate calendar rendering and the overlap detector use to
// materialize recurring templates for a single day.
func Covers(ev *calendar.Event, date calendar.Date) (bool, error) {
	dates, err := Expand(ev, date, date)
	if err != nil {
		return false, err
	}
	return len(dates) > 0, nil
}

// checkRule rejects templates whose repeat flag survived without a
// cadence. Silently treating those as non-repeating would hide a
// data-integrity bug.
func checkRule(ev *calendar.Event) error {
	r := ev.Recurrence
	if r == nil || r.Count == 0 {
		return nil
	}
	if !r.Cadence.Valid() {
		return &calendar.InvalidRecurrenceError{
			EventID: ev.ID.String(),
			Reason:  "repeat flag set but cadence missing or unknown",
		}
	}
	if r.Count < 0 {
		return &calendar.InvalidRecurrenceError{
			EventID: ev.ID.String(),
			Reason:  "negative duration count",
		}
	}
	if !r.Unit.Valid() {
		return &calendar.InvalidRecurrenceError{
			EventID: ev.ID.String(),
			Reason:  "repeat flag set but duration unit missing or unknown",
		}
	}
	return nil
}

func expandSpan(first, last, windowStart, windowEnd calendar.Date) []calendar.Date {
	if last.Before(first) {
		first, last = last, first
	}
	if first.Before(windowStart) {
		first = windowStart
	}
	if last.After(windowEnd) {
		last = windowEnd
	}
	var dates []calendar.Date
	for d := first; !d.After(last); d = d.AddDays(1) {
		dates = append(dates, d)
	}
	return dates
}

func inWindow(d, start, end calendar.Date) bool {
	return !d.Before(start) && !d.After(end)
}
