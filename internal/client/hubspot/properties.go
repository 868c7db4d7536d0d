package hubspot

import (
	"context"
	"encoding/json"
	"fmt"
)

// ListProperties returns every property name defined for the object type,
// used when the sync is configured to export all properties instead of a
// fixed list.
func (c *Client) ListProperties(ctx context.Context, objectType string) ([]string, error) {
	if objectType == "" {
		return nil, fmt.Errorf("object type is required")
	}
	body, err := c.doRequest(ctx, "/properties/"+objectType, nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Results []struct {
			Name string `json:"name"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode %s properties: %w", objectType, err)
	}
	names := make([]string, 0, len(resp.Results))
	for _, p := range resp.Results {
		if p.Name != "" {
			names = append(names, p.Name)
		}
	}
	return names, nil
}
