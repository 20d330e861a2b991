package main

import (
	"context"
	"testing"

	appconfig "github.com/inkbookhq/inkbook-platform/internal/config"
	"github.com/inkbookhq/inkbook-platform/internal/notify"
	"github.com/inkbookhq/inkbook-platform/pkg/logging"
)

func TestNewEmailSenderDefaultsToStub(t *testing.T) {
	cfg := &appconfig.Config{EmailProvider: "stub"}
	sender := newEmailSender(context.Background(), cfg, logging.Default())
	if _, ok := sender.(*notify.StubEmailSender); !ok {
		t.Fatalf("expected stub sender, got %T", sender)
	}
}

func TestNewEmailSenderSendGrid(t *testing.T) {
	cfg := &appconfig.Config{
		EmailProvider:     "sendgrid",
		SendGridAPIKey:    "SG.test",
		SendGridFromEmail: "book@inkbook.app",
	}
	sender := newEmailSender(context.Background(), cfg, logging.Default())
	if _, ok := sender.(*notify.SendGridSender); !ok {
		t.Fatalf("expected sendgrid sender, got %T", sender)
	}
}

func TestNewEmailSenderSendGridWithoutKeyFallsBack(t *testing.T) {
	cfg := &appconfig.Config{EmailProvider: "sendgrid"}
	sender := newEmailSender(context.Background(), cfg, logging.Default())
	if _, ok := sender.(*notify.StubEmailSender); !ok {
		t.Fatalf("expected fallback to stub sender, got %T", sender)
	}
}
