package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/inkbookhq/inkbook-platform/internal/calendar"
	"github.com/inkbookhq/inkbook-platform/pkg/logging"
)

// SessionLine is one booked date on a confirmation.
type SessionLine struct {
	Date     calendar.Date
	Start    calendar.ClockTime
	End      calendar.ClockTime
	Location string
}

// BookingConfirmation carries everything needed to render a booking
// confirmation email to the client.
type BookingConfirmation struct {
	ArtistName   string
	ClientName   string
	ClientEmail  string
	Title        string
	Sessions     []SessionLine
	DepositCents int64
}

// Service renders and sends client-facing booking notifications.
type Service struct {
	email  EmailSender
	logger *logging.Logger
}

// NewService creates a notification service. A nil sender disables
// delivery; rendering still works.
func NewService(email EmailSender, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{email: email, logger: logger}
}

// SendBookingConfirmation emails the client a summary of their booked
// sessions. Delivery failure is logged and returned but never undoes
// the booking itself.
func (s *Service) SendBookingConfirmation(ctx context.Context, conf BookingConfirmation) error {
	if s.email == nil {
		s.logger.Debug("notify: email sender not configured, skipping confirmation",
			"client_email", conf.ClientEmail)
		return nil
	}

	msg := EmailMessage{
		To:      conf.ClientEmail,
		ToName:  conf.ClientName,
		Subject: confirmationSubject(conf),
		Body:    FormatConfirmation(conf),
		HTML:    FormatConfirmationHTML(conf),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Error("notify: booking confirmation send failed",
			"error", err, "client_email", conf.ClientEmail)
		return fmt.Errorf("notify: booking confirmation: %w", err)
	}
	s.logger.Info("notify: booking confirmation sent",
		"client_email", conf.ClientEmail, "sessions", len(conf.Sessions))
	return nil
}

func confirmationSubject(conf BookingConfirmation) string {
	if len(conf.Sessions) == 1 {
		return fmt.Sprintf("Your session with %s on %s is booked", conf.ArtistName, conf.Sessions[0].Date)
	}
	return fmt.Sprintf("Your %d sessions with %s are booked", len(conf.Sessions), conf.ArtistName)
}

// FormatConfirmation renders the plain-text confirmation body.
func FormatConfirmation(conf BookingConfirmation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", conf.ClientName)
	if conf.Title != "" {
		fmt.Fprintf(&b, "Your project %q with %s is confirmed.\n\n", conf.Title, conf.ArtistName)
	} else {
		fmt.Fprintf(&b, "Your booking with %s is confirmed.\n\n", conf.ArtistName)
	}
	for _, sess := range conf.Sessions {
		fmt.Fprintf(&b, "  %s  %s - %s", sess.Date, sess.Start, sess.End)
		if sess.Location != "" {
			fmt.Fprintf(&b, "  at %s", sess.Location)
		}
		b.WriteString("\n")
	}
	if conf.DepositCents > 0 {
		fmt.Fprintf(&b, "\nDeposit due: $%.2f\n", float64(conf.DepositCents)/100)
	}
	b.WriteString("\nSee you soon!\n")
	return b.String()
}

// FormatConfirmationHTML renders the HTML confirmation body.
func FormatConfirmationHTML(conf BookingConfirmation) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	fmt.Fprintf(&b, "<p>Hi %s,</p>", html.EscapeString(conf.ClientName))
	if conf.Title != "" {
		fmt.Fprintf(&b, "<p>Your project <strong>%s</strong> with %s is confirmed.</p>",
			html.EscapeString(conf.Title), html.EscapeString(conf.ArtistName))
	} else {
		fmt.Fprintf(&b, "<p>Your booking with %s is confirmed.</p>", html.EscapeString(conf.ArtistName))
	}
	b.WriteString("<ul>")
	for _, sess := range conf.Sessions {
		fmt.Fprintf(&b, "<li><strong>%s</strong> %s &ndash; %s", sess.Date, sess.Start, sess.End)
		if sess.Location != "" {
			fmt.Fprintf(&b, " at %s", html.EscapeString(sess.Location))
		}
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
	if conf.DepositCents > 0 {
		fmt.Fprintf(&b, "<p>Deposit due: <strong>$%.2f</strong></p>", float64(conf.DepositCents)/100)
	}
	b.WriteString("<p>See you soon!</p></body></html>")
	return b.String()
}
