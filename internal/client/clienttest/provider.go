// Package clienttest provides a scripted client.Provider for tests.
package clienttest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/TWRT/mstodo/internal/client"
	"github.com/TWRT/mstodo/internal/convert"
)

// Call is one request received by Provider. Body holds the decoded JSON
// payload of POST and PATCH requests.
type Call struct {
	Method string
	URL    string
	Params url.Values
	Body   convert.Mapping
}

type reply struct {
	status int
	body   any
}

// Provider answers requests from replies queued with On, in order, per
// method and URL. Requests nobody scripted fail.
type Provider struct {
	replies map[string][]reply
	Calls   []Call
}

func New() *Provider {
	return &Provider{replies: map[string][]reply{}}
}

// On queues a reply for method and url. body is encoded as JSON unless it is
// nil.
func (p *Provider) On(method, url string, status int, body any) *Provider {
	key := method + " " + url
	p.replies[key] = append(p.replies[key], reply{status: status, body: body})
	return p
}

// Pending reports the replies that were queued but never consumed.
func (p *Provider) Pending() []string {
	var out []string
	for key, rs := range p.replies {
		for range rs {
			out = append(out, key)
		}
	}
	return out
}

func (p *Provider) Get(_ context.Context, url string, params url.Values) (*client.Response, error) {
	return p.answer(Call{Method: http.MethodGet, URL: url, Params: params})
}

func (p *Provider) Post(_ context.Context, url string, body []byte) (*client.Response, error) {
	return p.withBody(http.MethodPost, url, body)
}

func (p *Provider) Patch(_ context.Context, url string, body []byte) (*client.Response, error) {
	return p.withBody(http.MethodPatch, url, body)
}

func (p *Provider) Delete(_ context.Context, url string) (*client.Response, error) {
	return p.answer(Call{Method: http.MethodDelete, URL: url})
}

func (p *Provider) withBody(method, url string, body []byte) (*client.Response, error) {
	call := Call{Method: method, URL: url}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &call.Body); err != nil {
			return nil, fmt.Errorf("decode %s %s body: %w", method, url, err)
		}
	}
	return p.answer(call)
}

func (p *Provider) answer(call Call) (*client.Response, error) {
	p.Calls = append(p.Calls, call)

	key := call.Method + " " + call.URL
	queue := p.replies[key]
	if len(queue) == 0 {
		return nil, fmt.Errorf("unexpected request %s", key)
	}
	r := queue[0]
	if len(queue) == 1 {
		delete(p.replies, key)
	} else {
		p.replies[key] = queue[1:]
	}

	resp := &client.Response{
		StatusCode: r.status,
		Status:     fmt.Sprintf("%d %s", r.status, http.StatusText(r.status)),
	}
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("encode reply for %s: %w", key, err)
		}
		resp.Body = b
	}
	return resp, nil
}
