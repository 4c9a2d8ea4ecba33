// Package resources binds To Do lists, tasks and checklist items to their
// wire shapes and drives their lifecycle through a client.ResourceClient.
package resources

import (
	"context"
	"fmt"
	"net/url"

	"github.com/TWRT/mstodo/internal/client"
	"github.com/TWRT/mstodo/internal/convert"
	"github.com/samber/lo"
)

// resource is the identity and lifecycle shared by every API object. Two
// resources are the same object only when both carry the same id.
type resource struct {
	rec    *convert.Record
	client client.ResourceClient
}

func newResource(s *convert.Schema, c client.ResourceClient) resource {
	return resource{rec: convert.NewRecord(s), client: c}
}

func (r *resource) Record() *convert.Record {
	return r.rec
}

func (r *resource) ToMapping() (convert.Mapping, error) {
	return r.rec.Mapping()
}

// ID is empty until the resource has been created on the server.
func (r *resource) ID() string {
	return convert.Get[string](r.rec, "id")
}

func (r *resource) Client() client.ResourceClient {
	return r.client
}

func (r *resource) sameID(other string) bool {
	return r.ID() != "" && r.ID() == other
}

func (r *resource) set(name string, v any) {
	if err := r.rec.Set(name, v); err != nil {
		panic(err)
	}
}

func (r *resource) create(ctx context.Context, collection string) error {
	if r.client == nil {
		return ErrClientNotSet
	}
	body, err := r.rec.Mapping()
	if err != nil {
		return err
	}
	body = lo.OmitBy(body, func(_ string, v any) bool { return v == nil })

	resp, err := r.client.Post(ctx, collection, body)
	if err != nil {
		return err
	}
	return r.rec.Populate(resp)
}

func (r *resource) update(ctx context.Context, endpoint string) error {
	if r.client == nil {
		return ErrClientNotSet
	}
	body, err := r.rec.Mapping()
	if err != nil {
		return err
	}
	resp, err := r.client.Patch(ctx, endpoint, body)
	if err != nil {
		return err
	}
	return r.rec.Populate(resp)
}

// refresh drops every attribute before applying the server copy so that
// values removed on the server do not linger.
func (r *resource) refresh(ctx context.Context, endpoint string, params url.Values) error {
	if r.client == nil {
		return ErrClientNotSet
	}
	resp, err := r.client.Get(ctx, endpoint, params)
	if err != nil {
		return err
	}
	id := r.ID()
	r.rec.Reset()
	r.rec.Force("id", id)
	return r.rec.Populate(resp)
}

func (r *resource) delete(ctx context.Context, endpoint string) error {
	if r.client == nil {
		return ErrClientNotSet
	}
	return r.client.Delete(ctx, endpoint)
}

func (r *resource) endpoint(collection string) (string, error) {
	id := r.ID()
	if id == "" {
		return "", ErrResourceNotCreated
	}
	return collection + "/" + url.PathEscape(id), nil
}

func lifecycleError(action string, obj fmt.Stringer, err error) error {
	return fmt.Errorf("%s %s: %w", action, obj, err)
}
