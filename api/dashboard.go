package api

import (
	"context"
	"net/http"

	"github.com/fikiri/go-client/live"
)

// DashboardSlice fetches the current state of one pushed resource
// ("services", "metrics", "activity") as a loose field map, the same shape
// live frames patch.
func (c *Client) DashboardSlice(ctx context.Context, resource string) (map[string]interface{}, error) {
	var slice map[string]interface{}
	if err := c.getJSON(ctx, "/dashboard/"+resource, &slice); err != nil {
		return nil, err
	}
	return slice, nil
}

// DashboardFrames fetches every pushed resource shaped as frames, which is
// what the polling fallback feeds the reconciler.
func (c *Client) DashboardFrames(ctx context.Context) ([]live.Frame, error) {
	resources := []string{live.ResourceServices, live.ResourceMetrics, live.ResourceActivity}
	frames := make([]live.Frame, 0, len(resources))
	for _, resource := range resources {
		payload, err := c.DashboardSlice(ctx, resource)
		if err != nil {
			return nil, err
		}
		frames = append(frames, live.Frame{Resource: resource, Payload: payload})
	}
	return frames, nil
}

// LiveStream builds the push connection against the backend. The stream
// client deliberately has no timeout: the connection is meant to stay open.
func (c *Client) LiveStream(path string) *live.Stream {
	return &live.Stream{
		URL:    c.baseURL + path,
		Client: &http.Client{},
	}
}
