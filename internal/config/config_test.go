package config

import (
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("EMAIL_PROVIDER", "")
	t.Setenv("SLOT_INTERVAL_MINUTES", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.EmailProvider != "stub" {
		t.Fatalf("expected stub email provider by default, got %s", cfg.EmailProvider)
	}
	if cfg.SlotIntervalMinutes != 30 {
		t.Fatalf("expected default slot interval, got %d", cfg.SlotIntervalMinutes)
	}
	if cfg.DayEndMinutes != 1440 {
		t.Fatalf("expected default day end, got %d", cfg.DayEndMinutes)
	}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, []string{"*"}) {
		t.Fatalf("expected wildcard CORS default, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_URL", "postgres://user@host/inkbook")
	t.Setenv("SLOT_INTERVAL_MINUTES", "15")
	t.Setenv("DAY_START_MINUTES", "540")
	t.Setenv("DAY_END_MINUTES", "1200")
	t.Setenv("EMAIL_PROVIDER", "SendGrid")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.inkbook.example, https://studio.inkbook.example")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Fatalf("expected env override, got %s", cfg.Env)
	}
	if cfg.DatabaseURL != "postgres://user@host/inkbook" {
		t.Fatalf("expected db override, got %s", cfg.DatabaseURL)
	}
	if cfg.SlotIntervalMinutes != 15 {
		t.Fatalf("expected slot interval override, got %d", cfg.SlotIntervalMinutes)
	}
	if cfg.DayStartMinutes != 540 || cfg.DayEndMinutes != 1200 {
		t.Fatalf("expected day window override, got %d..%d", cfg.DayStartMinutes, cfg.DayEndMinutes)
	}
	if cfg.EmailProvider != "sendgrid" {
		t.Fatalf("expected normalized email provider, got %s", cfg.EmailProvider)
	}
	want := []string{"https://app.inkbook.example", "https://studio.inkbook.example"}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, want) {
		t.Fatalf("expected CORS override, got %v", cfg.CORSAllowedOrigins)
	}
}
