package hubspot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// MaxPageLimit is the largest page size the CRM v3 list endpoints accept.
const MaxPageLimit = 100

type ListParams struct {
	Limit      int
	Properties []string
	After      string
	// ModifiedSince filters to objects whose hs_lastmodifieddate is at or
	// after this instant, sorted ascending. Zero means no filter.
	ModifiedSince time.Time
}

type Object struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
	Archived   bool              `json:"archived"`
}

type Page struct {
	Results []Object `json:"results"`
	Paging  *Paging  `json:"paging,omitempty"`
}

type Paging struct {
	Next *PagingNext `json:"next,omitempty"`
}

type PagingNext struct {
	After string `json:"after"`
	Link  string `json:"link,omitempty"`
}

// NextAfter returns the cursor for the next page, or "" when exhausted.
func (p *Page) NextAfter() string {
	if p == nil || p.Paging == nil || p.Paging.Next == nil {
		return ""
	}
	return p.Paging.Next.After
}

func (c *Client) ListObjects(ctx context.Context, objectType string, params ListParams) (*Page, error) {
	if objectType == "" {
		return nil, fmt.Errorf("object type is required")
	}
	limit := params.Limit
	if limit <= 0 || limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("archived", "false")
	if len(params.Properties) > 0 {
		query.Set("properties", strings.Join(params.Properties, ","))
	}
	if params.After != "" {
		query.Set("after", params.After)
	}
	if !params.ModifiedSince.IsZero() {
		filterGroups, sorts := modifiedSinceQuery(params.ModifiedSince)
		query.Set("filterGroups", filterGroups)
		query.Set("sorts", sorts)
	}
	body, err := c.doRequest(ctx, "/objects/"+objectType, query)
	if err != nil {
		return nil, err
	}
	var page Page
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to decode %s page: %w", objectType, err)
	}
	return &page, nil
}

func modifiedSinceQuery(since time.Time) (filterGroups, sorts string) {
	type filter struct {
		PropertyName string `json:"propertyName"`
		Operator     string `json:"operator"`
		Value        int64  `json:"value"`
	}
	type filterGroup struct {
		Filters []filter `json:"filters"`
	}
	type sortSpec struct {
		PropertyName string `json:"propertyName"`
		Direction    string `json:"direction"`
	}
	groupsJSON, _ := json.Marshal([]filterGroup{{
		Filters: []filter{{
			PropertyName: "hs_lastmodifieddate",
			Operator:     "GTE",
			Value:        since.UnixMilli(),
		}},
	}})
	sortsJSON, _ := json.Marshal([]sortSpec{{
		PropertyName: "hs_lastmodifieddate",
		Direction:    "ASCENDING",
	}})
	return string(groupsJSON), string(sortsJSON)
}
