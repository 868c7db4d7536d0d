package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadFailsFastWhenRequiredMissing(t *testing.T) {
	_, err := Load("")
	if err == nil {
		t.Fatal("expected error when required config is missing")
	}
	msg := err.Error()
	if !strings.Contains(msg, "db.dsn") || !strings.Contains(msg, "hubspot.token") {
		t.Fatalf("error should name every missing key, got: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HUBSYNC_DB_DSN", "postgres://u:p@localhost:5432/hubsync")
	t.Setenv("HUBSYNC_HUBSPOT_TOKEN", "pat-test-token")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DB.DSN != "postgres://u:p@localhost:5432/hubsync" {
		t.Fatalf("db.dsn=%q", cfg.DB.DSN)
	}
	if cfg.HubSpot.Token != "pat-test-token" {
		t.Fatalf("hubspot.token=%q", cfg.HubSpot.Token)
	}
	if cfg.HubSpot.BaseURL != "https://api.hubapi.com/crm/v3" {
		t.Fatalf("hubspot.base_url=%q", cfg.HubSpot.BaseURL)
	}
	if cfg.Sync.PageLimit != 100 {
		t.Fatalf("sync.page_limit=%d", cfg.Sync.PageLimit)
	}
	if got := cfg.Sync.ObjectTypes; len(got) != 3 || got[0] != "contacts" || got[1] != "companies" || got[2] != "deals" {
		t.Fatalf("sync.object_types=%v", got)
	}
	if len(cfg.Sync.Properties["contacts"]) == 0 || len(cfg.Sync.Properties["deals"]) == 0 {
		t.Fatalf("default property lists missing: %v", cfg.Sync.Properties)
	}
	if cfg.Retry.MaxAttempts != 5 {
		t.Fatalf("retry.max_attempts=%d", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.InitialBackoff != time.Second {
		t.Fatalf("retry.initial_backoff=%v", cfg.Retry.InitialBackoff)
	}
	if cfg.Log.File != "sync.log" {
		t.Fatalf("log.file=%q", cfg.Log.File)
	}
}

func TestLoadEnvOverridesDefault(t *testing.T) {
	t.Setenv("HUBSYNC_DB_DSN", "postgres://u:p@localhost:5432/hubsync")
	t.Setenv("HUBSYNC_HUBSPOT_TOKEN", "pat-test-token")
	t.Setenv("HUBSYNC_SYNC_PAGE_LIMIT", "25")
	t.Setenv("HUBSYNC_RETRY_MAX_ATTEMPTS", "2")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Sync.PageLimit != 25 {
		t.Fatalf("sync.page_limit=%d, want 25", cfg.Sync.PageLimit)
	}
	if cfg.Retry.MaxAttempts != 2 {
		t.Fatalf("retry.max_attempts=%d, want 2", cfg.Retry.MaxAttempts)
	}
}

func TestLoadRejectsUnknownObjectType(t *testing.T) {
	t.Setenv("HUBSYNC_DB_DSN", "postgres://u:p@localhost:5432/hubsync")
	t.Setenv("HUBSYNC_HUBSPOT_TOKEN", "pat-test-token")
	t.Setenv("HUBSYNC_SYNC_OBJECT_TYPES", "contacts,tickets")

	_, err := Load("")
	if err == nil || !strings.Contains(err.Error(), "tickets") {
		t.Fatalf("expected unknown object type error, got: %v", err)
	}
}
