// Package hotelfeed reads hotel properties from the external hotel content API.
package hotelfeed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wanderbot/internal/adapters/httpx"
)

var (
	ErrNoKey  = errors.New("hotelfeed: API key is required")
	ErrNoBase = errors.New("hotelfeed: base URL is required")
)

// propertyPaths are tried in order; older deployments only serve the singular form.
var propertyPaths = []string{"/properties/%d", "/property/%d"}

// Client satisfies domain.HotelFeed.
type Client struct {
	base string
	api  *httpx.Client
}

func New(base, key string, rps int) (*Client, error) {
	switch {
	case key == "":
		return nil, ErrNoKey
	case base == "":
		return nil, ErrNoBase
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		api:  httpx.New("hotelfeed", rps, 20*time.Second, map[string]string{"X-API-Key": key}),
	}, nil
}

// GetProperty returns the raw property document. Only a 404 moves on to
// the next path; any other failure is returned as is.
func (c *Client) GetProperty(ctx context.Context, id int64) (map[string]any, error) {
	var err error
	for _, p := range propertyPaths {
		var doc map[string]any
		if err = c.api.GetJSON(ctx, "property", c.base+fmt.Sprintf(p, id), &doc); err == nil {
			return doc, nil
		}
		if !errors.Is(err, httpx.ErrNotFound) {
			return nil, fmt.Errorf("property %d: %w", id, err)
		}
	}
	return nil, fmt.Errorf("property %d: %w", id, err)
}
