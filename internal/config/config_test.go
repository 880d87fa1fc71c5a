package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("WIDGET_AUTO_OPEN_DELAY", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.WidgetAutoOpenDelay != 4*time.Second {
		t.Fatalf("expected 4s auto open delay, got %s", cfg.WidgetAutoOpenDelay)
	}
	if cfg.WidgetFloatingDelay != 3*time.Second {
		t.Fatalf("expected 3s floating delay, got %s", cfg.WidgetFloatingDelay)
	}
	if cfg.WidgetReopenOnFocus {
		t.Fatalf("expected reopen on focus disabled by default")
	}
	if cfg.RelayDestinationNumber != "+919555633827" {
		t.Fatalf("unexpected relay destination %s", cfg.RelayDestinationNumber)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("expected open CORS default, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.ProfileStore != "redis" {
		t.Fatalf("expected redis profile store, got %s", cfg.ProfileStore)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://user@host/db")
	t.Setenv("PROFILE_STORE", " DynamoDB ")
	t.Setenv("PROFILE_DEBOUNCE", "250ms")
	t.Setenv("WIDGET_REOPEN_ON_FOCUS", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://hps.example, ,https://www.hps.example")
	t.Setenv("RATE_LIMIT_PER_SECOND", "2.5")
	t.Setenv("SMS_PROVIDER", "Twilio")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Fatalf("expected env override, got %s", cfg.Env)
	}
	if cfg.DatabaseURL != "postgres://user@host/db" {
		t.Fatalf("expected db override, got %s", cfg.DatabaseURL)
	}
	if cfg.ProfileStore != "dynamodb" {
		t.Fatalf("expected normalized profile store, got %q", cfg.ProfileStore)
	}
	if cfg.ProfileDebounce != 250*time.Millisecond {
		t.Fatalf("expected debounce override, got %s", cfg.ProfileDebounce)
	}
	if !cfg.WidgetReopenOnFocus {
		t.Fatalf("expected reopen on focus enabled")
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("expected two origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimitPerSecond != 2.5 {
		t.Fatalf("expected rate override, got %v", cfg.RateLimitPerSecond)
	}
	if cfg.SMSProvider != "twilio" {
		t.Fatalf("expected lowercased sms provider, got %s", cfg.SMSProvider)
	}
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := &Config{Timezone: "Not/AZone", RelayTimezone: "Asia/Kolkata"}
	if cfg.Location() != time.UTC {
		t.Fatalf("expected UTC fallback")
	}
	if cfg.RelayLocation().String() != "Asia/Kolkata" {
		t.Fatalf("expected Asia/Kolkata, got %s", cfg.RelayLocation())
	}
}
