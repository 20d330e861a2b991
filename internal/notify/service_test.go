package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkbookhq/inkbook-platform/internal/calendar"
)

type recordingSender struct {
	sent []EmailMessage
	err  error
}

func (r *recordingSender) Send(ctx context.Context, msg EmailMessage) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func sampleConfirmation() BookingConfirmation {
	return BookingConfirmation{
		ArtistName:  "Mara Voss",
		ClientName:  "Jonas Peel",
		ClientEmail: "jonas@example.com",
		Title:       "Sleeve, session block",
		Sessions: []SessionLine{
			{Date: calendar.NewDate(2025, time.March, 10), Start: calendar.MustClockTime("10:00"), End: calendar.MustClockTime("13:00"), Location: "Home Studio"},
			{Date: calendar.NewDate(2025, time.March, 17), Start: calendar.MustClockTime("10:00"), End: calendar.MustClockTime("13:00"), Location: "Home Studio"},
		},
		DepositCents: 15000,
	}
}

func TestSendBookingConfirmation(t *testing.T) {
	sender := &recordingSender{}
	svc := NewService(sender, nil)

	err := svc.SendBookingConfirmation(context.Background(), sampleConfirmation())
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "jonas@example.com", msg.To)
	assert.Equal(t, "Jonas Peel", msg.ToName)
	assert.Contains(t, msg.Subject, "2 sessions with Mara Voss")
	assert.Contains(t, msg.Body, "2025-03-10  10:00 - 13:00  at Home Studio")
	assert.Contains(t, msg.Body, "Deposit due: $150.00")
	assert.Contains(t, msg.HTML, "<strong>2025-03-17</strong>")
}

func TestSendBookingConfirmationSingleSessionSubject(t *testing.T) {
	sender := &recordingSender{}
	svc := NewService(sender, nil)

	conf := sampleConfirmation()
	conf.Sessions = conf.Sessions[:1]
	require.NoError(t, svc.SendBookingConfirmation(context.Background(), conf))
	assert.Contains(t, sender.sent[0].Subject, "on 2025-03-10")
}

func TestSendBookingConfirmationNilSenderIsNoop(t *testing.T) {
	svc := NewService(nil, nil)
	assert.NoError(t, svc.SendBookingConfirmation(context.Background(), sampleConfirmation()))
}

func TestSendBookingConfirmationWrapsSendError(t *testing.T) {
	sender := &recordingSender{err: errors.New("rate limited")}
	svc := NewService(sender, nil)

	err := svc.SendBookingConfirmation(context.Background(), sampleConfirmation())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "booking confirmation")
}

func TestFormatConfirmationHTMLEscapes(t *testing.T) {
	conf := sampleConfirmation()
	conf.ClientName = "<script>"
	out := FormatConfirmationHTML(conf)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}
