package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "USER_KEY", "STORAGE_BACKEND", "SAVE_DEBOUNCE", "LOW_BALANCE_DEDUP_WINDOW"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.UserKey != "default_user" {
		t.Errorf("expected default_user, got %s", cfg.UserKey)
	}
	if cfg.StorageBackend != BackendSQLite {
		t.Errorf("expected sqlite backend, got %s", cfg.StorageBackend)
	}
	if cfg.SaveDebounce != time.Second {
		t.Errorf("expected 1s debounce, got %s", cfg.SaveDebounce)
	}
	if cfg.LowBalanceDedupWindow != 24*time.Hour {
		t.Errorf("expected 24h window, got %s", cfg.LowBalanceDedupWindow)
	}
}

func TestGetDuration(t *testing.T) {
	t.Run("go_duration", func(t *testing.T) {
		t.Setenv("TEST_DUR", "250ms")
		if got := getDuration("TEST_DUR", time.Second); got != 250*time.Millisecond {
			t.Errorf("expected 250ms, got %s", got)
		}
	})

	t.Run("bare_seconds", func(t *testing.T) {
		t.Setenv("TEST_DUR", "30")
		if got := getDuration("TEST_DUR", time.Second); got != 30*time.Second {
			t.Errorf("expected 30s, got %s", got)
		}
	})

	t.Run("invalid_falls_back", func(t *testing.T) {
		t.Setenv("TEST_DUR", "soon")
		if got := getDuration("TEST_DUR", time.Minute); got != time.Minute {
			t.Errorf("expected fallback 1m, got %s", got)
		}
	})
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "n", DBSSLMode: "disable"}
	want := "host=db user=u password=p dbname=n port=5432 sslmode=disable"
	if got := cfg.PostgresDSN(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if got := cfg.PostgresURL(); got != "postgres://u:p@db:5432/n?sslmode=disable" {
		t.Errorf("unexpected url %q", got)
	}
}
