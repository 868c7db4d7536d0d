package service

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"hubsync/internal/client/hubspot"
)

func TestMapDeals_TypedColumns(t *testing.T) {
	closed := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	updated := closed.Add(2 * time.Hour)
	objs := []hubspot.Object{{
		ID: "42",
		Properties: map[string]string{
			"dealname":         "Enterprise plan",
			"dealstage":        "closedwon",
			"pipeline":         "default",
			"amount":           "1250.75",
			"closedate":        closed.Format(time.RFC3339),
			"hubspot_owner_id": "9",
		},
		CreatedAt: closed.Add(-48 * time.Hour),
		UpdatedAt: updated,
		Archived:  true,
	}}

	deals := mapDeals(objs, time.Now().UTC())
	if len(deals) != 1 {
		t.Fatalf("deals=%d want 1", len(deals))
	}
	d := deals[0]
	if d.HubSpotID != "42" {
		t.Fatalf("hubspot_id=%q want 42", d.HubSpotID)
	}
	if d.Name == nil || *d.Name != "Enterprise plan" {
		t.Fatalf("name=%v", d.Name)
	}
	if d.Amount == nil || !d.Amount.Equal(decimal.RequireFromString("1250.75")) {
		t.Fatalf("amount=%v want 1250.75", d.Amount)
	}
	if d.CloseDate == nil || !d.CloseDate.Equal(closed) {
		t.Fatalf("closedate=%v want %v", d.CloseDate, closed)
	}
	if d.OwnerID == nil || *d.OwnerID != "9" {
		t.Fatalf("owner_id=%v", d.OwnerID)
	}
	if !d.Archived {
		t.Fatalf("archived=false want true")
	}
	if d.ExternalUpdatedAt == nil || !d.ExternalUpdatedAt.Equal(updated) {
		t.Fatalf("updated_at=%v want %v", d.ExternalUpdatedAt, updated)
	}
}

func TestMapContacts_EmptyPropertiesBecomeNull(t *testing.T) {
	objs := []hubspot.Object{{
		ID: "7",
		Properties: map[string]string{
			"email":     "",
			"firstname": "Ada",
		},
	}}

	contacts := mapContacts(objs, time.Now().UTC())
	c := contacts[0]
	if c.Email != nil {
		t.Fatalf("email=%q want nil", *c.Email)
	}
	if c.FirstName == nil || *c.FirstName != "Ada" {
		t.Fatalf("firstname=%v want Ada", c.FirstName)
	}
	if c.ExternalCreatedAt != nil || c.ExternalUpdatedAt != nil {
		t.Fatalf("zero API timestamps should map to nil")
	}
	if !strings.Contains(string(c.RawProperties), `"email"`) {
		t.Fatalf("raw=%s missing email key", c.RawProperties)
	}
}

func TestMapCompanies_PromotedColumns(t *testing.T) {
	now := time.Date(2026, 5, 5, 16, 0, 0, 0, time.UTC)
	objs := []hubspot.Object{{
		ID: "c1",
		Properties: map[string]string{
			"name":   "Initech",
			"domain": "initech.example",
			"city":   "Austin",
		},
		CreatedAt: now.Add(-time.Hour),
		UpdatedAt: now,
	}}

	companies := mapCompanies(objs, now)
	co := companies[0]
	if co.Name == nil || *co.Name != "Initech" {
		t.Fatalf("name=%v", co.Name)
	}
	if co.Domain == nil || *co.Domain != "initech.example" {
		t.Fatalf("domain=%v", co.Domain)
	}
	if co.City == nil || *co.City != "Austin" {
		t.Fatalf("city=%v", co.City)
	}
	if co.Industry != nil {
		t.Fatalf("industry=%v want nil", co.Industry)
	}
	if !co.LastSyncedAt.Equal(now) {
		t.Fatalf("last_synced_at=%v want %v", co.LastSyncedAt, now)
	}
}

func TestParseHubSpotTime_AcceptedFormats(t *testing.T) {
	want := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	got := parseHubSpotTime("2026-01-01T00:00:00Z")
	if got == nil || !got.Equal(want) {
		t.Fatalf("rfc3339=%v want %v", got, want)
	}
	got = parseHubSpotTime("1767225600000")
	if got == nil || !got.Equal(want) {
		t.Fatalf("millis=%v want %v", got, want)
	}
	got = parseHubSpotTime("2026-01-01")
	if got == nil || !got.Equal(want) {
		t.Fatalf("date=%v want %v", got, want)
	}
	if got := parseHubSpotTime(""); got != nil {
		t.Fatalf("empty=%v want nil", got)
	}
	if got := parseHubSpotTime("soon"); got != nil {
		t.Fatalf("garbage=%v want nil", got)
	}
}

func TestDecimalPtr_InvalidAmountMapsToNil(t *testing.T) {
	if got := decimalPtr("not-a-number"); got != nil {
		t.Fatalf("got=%v want nil", got)
	}
	got := decimalPtr("19.99")
	if got == nil || !got.Equal(decimal.RequireFromString("19.99")) {
		t.Fatalf("got=%v want 19.99", got)
	}
}
