package availability

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/inkbookhq/inkbook-platform/internal/calendar"
)

// Sequence hands out monotonically increasing request tokens so that a
// superseded in-flight month query can be discarded instead of
// overwriting a newer result. There is no cancellation of the store
// call itself, only discarding of stale results.
type Sequence struct {
	n atomic.Uint64
}

// Next stamps a new request and returns its token.
func (s *Sequence) Next() uint64 {
	return s.n.Add(1)
}

// Latest reports whether the token still belongs to the newest request.
func (s *Sequence) Latest(token uint64) bool {
	return s.n.Load() == token
}

// DatesQuery identifies one month-view refresh.
type DatesQuery struct {
	ArtistID   uuid.UUID
	LocationID uuid.UUID
	From       calendar.Date
	To         calendar.Date
}

// View serializes month-view refreshes for one calendar screen:
// whenever the selected month or location changes the query is
// re-issued, and any result that is no longer the newest is dropped.
type View struct {
	calc *Calculator
	seq  Sequence
}

// NewView creates a view over a calculator.
func NewView(calc *Calculator) *View {
	if calc == nil {
		panic("availability: calculator required")
	}
	return &View{calc: calc}
}

// Supersede stamps a newer request without running one, marking every
// in-flight refresh stale.
func (v *View) Supersede() {
	v.seq.Next()
}

// RefreshDates runs one month-view query. stale is true when a newer
// refresh was issued while this one was in flight; its result must be
// discarded, whatever it was.
func (v *View) RefreshDates(ctx context.Context, q DatesQuery) (dates []calendar.Date, stale bool, err error) {
	token := v.seq.Next()
	dates, err = v.calc.AvailableDates(ctx, q.ArtistID, q.LocationID, q.From, q.To)
	if !v.seq.Latest(token) {
		return nil, true, nil
	}
	return dates, false, err
}
