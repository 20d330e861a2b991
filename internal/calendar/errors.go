package calendar

import (
	"errors"
	"fmt"
)

// ValidationError reports a missing or malformed form field. It is
// resolved locally and never sent to the store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// ConflictError reports that a proposed range collides with a committed
// event. It carries the conflicting event's title for user display and
// the date on which the collision happened.
type ConflictError struct {
	Date       Date
	EventTitle string
	Source     Source
}

func (e *ConflictError) Error() string {
	title := e.EventTitle
	if title == "" {
		title = "an existing booking"
	}
	return fmt.Sprintf("conflict: %s overlaps %q on %s", e.Source, title, e.Date)
}

// DependencyError wraps a store or network failure. The engine fails
// closed on these: callers treat the result as unknown and block the
// write.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("dependency: %s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }

// InvalidRecurrenceError reports a malformed recurrence rule. Against
// well-formed data this never occurs; it is a data-integrity bug and is
// surfaced loudly rather than patched over.
type InvalidRecurrenceError struct {
	EventID string
	Reason  string
}

func (e *InvalidRecurrenceError) Error() string {
	return fmt.Sprintf("invalid recurrence on event %s: %s", e.EventID, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsDependency reports whether err is a DependencyError.
func IsDependency(err error) bool {
	var de *DependencyError
	return errors.As(err, &de)
}

// IsInvalidRecurrence reports whether err is an InvalidRecurrenceError.
func IsInvalidRecurrence(err error) bool {
	var re *InvalidRecurrenceError
	return errors.As(err, &re)
}
