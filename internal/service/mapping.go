package service

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"hubsync/internal/client/hubspot"
	"hubsync/internal/models"
)

// The mappers promote a handful of well-known properties into typed columns
// and keep the full property map as raw JSON, so nothing the API returned is
// lost even when a property has no dedicated column.

func mapContacts(objs []hubspot.Object, syncedAt time.Time) []models.Contact {
	out := make([]models.Contact, 0, len(objs))
	for _, obj := range objs {
		out = append(out, models.Contact{
			HubSpotID:         obj.ID,
			Email:             strPtr(obj.Properties["email"]),
			FirstName:         strPtr(obj.Properties["firstname"]),
			LastName:          strPtr(obj.Properties["lastname"]),
			Phone:             strPtr(obj.Properties["phone"]),
			Company:           strPtr(obj.Properties["company"]),
			LeadStatus:        strPtr(obj.Properties["hs_lead_status"]),
			LifecycleStage:    strPtr(obj.Properties["lifecyclestage"]),
			Archived:          obj.Archived,
			RawProperties:     mustJSON(obj.Properties),
			ExternalCreatedAt: timePtr(obj.CreatedAt),
			ExternalUpdatedAt: timePtr(obj.UpdatedAt),
			LastSyncedAt:      syncedAt,
		})
	}
	return out
}

func mapCompanies(objs []hubspot.Object, syncedAt time.Time) []models.Company {
	out := make([]models.Company, 0, len(objs))
	for _, obj := range objs {
		out = append(out, models.Company{
			HubSpotID:         obj.ID,
			Name:              strPtr(obj.Properties["name"]),
			Domain:            strPtr(obj.Properties["domain"]),
			Phone:             strPtr(obj.Properties["phone"]),
			Industry:          strPtr(obj.Properties["industry"]),
			City:              strPtr(obj.Properties["city"]),
			State:             strPtr(obj.Properties["state"]),
			Country:           strPtr(obj.Properties["country"]),
			Website:           strPtr(obj.Properties["website"]),
			Archived:          obj.Archived,
			RawProperties:     mustJSON(obj.Properties),
			ExternalCreatedAt: timePtr(obj.CreatedAt),
			ExternalUpdatedAt: timePtr(obj.UpdatedAt),
			LastSyncedAt:      syncedAt,
		})
	}
	return out
}

func mapDeals(objs []hubspot.Object, syncedAt time.Time) []models.Deal {
	out := make([]models.Deal, 0, len(objs))
	for _, obj := range objs {
		out = append(out, models.Deal{
			HubSpotID:         obj.ID,
			Name:              strPtr(obj.Properties["dealname"]),
			Stage:             strPtr(obj.Properties["dealstage"]),
			Pipeline:          strPtr(obj.Properties["pipeline"]),
			Amount:            decimalPtr(obj.Properties["amount"]),
			CloseDate:         parseHubSpotTime(obj.Properties["closedate"]),
			OwnerID:           strPtr(obj.Properties["hubspot_owner_id"]),
			Archived:          obj.Archived,
			RawProperties:     mustJSON(obj.Properties),
			ExternalCreatedAt: timePtr(obj.CreatedAt),
			ExternalUpdatedAt: timePtr(obj.UpdatedAt),
			LastSyncedAt:      syncedAt,
		})
	}
	return out
}

// parseHubSpotTime handles the two shapes HubSpot uses for date properties,
// RFC3339 strings and epoch milliseconds. Unparseable values map to nil
// rather than failing the batch.
func parseHubSpotTime(v string) *time.Time {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return timePtr(t)
		}
	}
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return timePtr(time.UnixMilli(ms))
	}
	return nil
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	u := t.UTC()
	return &u
}

func decimalPtr(v string) *decimal.Decimal {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil
	}
	return &d
}

func statsJSON(stats map[string]int) datatypes.JSON {
	if len(stats) == 0 {
		return datatypes.JSON([]byte("null"))
	}
	payload, err := json.Marshal(stats)
	if err != nil {
		return datatypes.JSON([]byte("null"))
	}
	return datatypes.JSON(payload)
}

func mustJSON(v any) datatypes.JSON {
	payload, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte("{}"))
	}
	return datatypes.JSON(payload)
}

func strPtr(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
