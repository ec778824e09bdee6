package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_PORT", "BACKEND_URL", "BACKEND_TIMEOUT", "LOCATION_FIELD", "DEFAULT_FROM_YEAR",
		"SESSION_TTL", "SESSION_COOKIE", "REDIS_ADDR", "REDIS_DB", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.LocationField != LocationOTTPlatform {
		t.Errorf("LocationField = %q, want %q", cfg.LocationField, LocationOTTPlatform)
	}
	if cfg.BackendTimeout != 0 {
		t.Errorf("BackendTimeout = %v, want 0", cfg.BackendTimeout)
	}
	if cfg.DefaultFromYear != 1950 {
		t.Errorf("DefaultFromYear = %d, want 1950", cfg.DefaultFromYear)
	}
	if cfg.Session.TTL != 24*time.Hour {
		t.Errorf("Session.TTL = %v, want 24h", cfg.Session.TTL)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LOCATION_FIELD", "country")
	t.Setenv("BACKEND_TIMEOUT", "2s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LocationField != LocationCountry {
		t.Errorf("LocationField = %q, want country", cfg.LocationField)
	}
	if cfg.BackendTimeout != 2*time.Second {
		t.Errorf("BackendTimeout = %v, want 2s", cfg.BackendTimeout)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"unknown location field", "LOCATION_FIELD", "region", "LocationField"},
		{"backend url not a url", "BACKEND_URL", "not a url", "BackendURL"},
		{"bad duration", "BACKEND_TIMEOUT", "soon", "BACKEND_TIMEOUT"},
		{"non numeric port", "SERVER_PORT", "http", "Port"},
		{"non numeric redis db", "REDIS_DB", "abc", "REDIS_DB"},
		{"non numeric from year", "DEFAULT_FROM_YEAR", "nineteen fifty", "DEFAULT_FROM_YEAR"},
		{"non numeric rate limit", "RATE_LIMIT_MAX", "lots", "RATE_LIMIT_MAX"},
		{"non numeric rate window", "RATE_LIMIT_WINDOW_SECONDS", "1m", "RATE_LIMIT_WINDOW_SECONDS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			if err == nil {
				t.Fatalf("Load() expected error for %s=%q", tt.key, tt.value)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}
