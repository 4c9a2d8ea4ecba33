// Package client talks to the To Do endpoints of the Graph API: it builds
// resource URLs, maps HTTP statuses to errors and follows paginated
// collections. Raw HTTP is delegated to a Provider.
package client

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/TWRT/mstodo/internal/convert"
)

// Provider performs a single HTTP exchange and returns the raw response.
// Non-2xx statuses are not errors at this level.
type Provider interface {
	Get(ctx context.Context, url string, params url.Values) (*Response, error)
	Post(ctx context.Context, url string, body []byte) (*Response, error)
	Patch(ctx context.Context, url string, body []byte) (*Response, error)
	Delete(ctx context.Context, url string) (*Response, error)
}

type Response struct {
	StatusCode int
	Status     string
	Body       []byte
}

// Mapping decodes the body as a JSON object. An empty body yields an empty
// mapping.
func (r *Response) Mapping() (convert.Mapping, error) {
	out := convert.Mapping{}
	if len(r.Body) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(r.Body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ResourceClient is what resources need from a client to drive their
// lifecycle. *Client implements it.
type ResourceClient interface {
	Each(ctx context.Context, endpoint, filter string, visit func(convert.Mapping) error) error
	Get(ctx context.Context, endpoint string, params url.Values) (convert.Mapping, error)
	Post(ctx context.Context, endpoint string, body convert.Mapping) (convert.Mapping, error)
	Patch(ctx context.Context, endpoint string, body convert.Mapping) (convert.Mapping, error)
	Delete(ctx context.Context, endpoint string) error
}
