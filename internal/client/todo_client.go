package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/TWRT/mstodo/internal/convert"
	"github.com/sirupsen/logrus"
)

const (
	DefaultAPIURL    = "https://graph.microsoft.com/v1.0"
	DefaultAPIPrefix = "me"

	filterParam = "$filter"
)

type Client struct {
	provider Provider
	baseURL  string
	log      logrus.FieldLogger
}

type Option func(*Client)

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New returns a client resolving endpoints against apiURL/apiPrefix, for
// example https://graph.microsoft.com/v1.0/me.
func New(provider Provider, apiURL, apiPrefix string, opts ...Option) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if apiPrefix == "" {
		apiPrefix = DefaultAPIPrefix
	}
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	c := &Client{
		provider: provider,
		baseURL:  strings.TrimRight(apiURL, "/") + "/" + strings.Trim(apiPrefix, "/"),
		log:      logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the absolute address of endpoint.
func (c *Client) URL(endpoint string) (string, error) {
	endpoint = strings.Trim(endpoint, "/")
	if endpoint == "" {
		return "", ErrEndpointRequired
	}
	return c.baseURL + "/" + endpoint, nil
}

// Each visits every element of a collection in page order, following
// @odata.nextLink until the server stops returning one. An empty filter
// sends no $filter parameter.
func (c *Client) Each(ctx context.Context, endpoint, filter string, visit func(convert.Mapping) error) error {
	next, err := c.URL(endpoint)
	if err != nil {
		return err
	}
	params := url.Values{}
	if filter != "" {
		params.Set(filterParam, filter)
	}

	for page := 1; next != ""; page++ {
		resp, err := c.provider.Get(ctx, next, params)
		if err != nil {
			return fmt.Errorf("list %s: %w", endpoint, err)
		}
		c.logResponse(http.MethodGet, next, resp).WithField("page", page).Debug("fetched page")
		if err := checkStatus(resp, http.StatusOK); err != nil {
			return fmt.Errorf("list %s: %w", endpoint, err)
		}

		var body struct {
			Value    []convert.Mapping `json:"value"`
			NextLink string            `json:"@odata.nextLink"`
		}
		if err := json.Unmarshal(resp.Body, &body); err != nil {
			return fmt.Errorf("parse %s page %d: %w", endpoint, page, err)
		}
		for _, element := range body.Value {
			if err := visit(element); err != nil {
				return err
			}
		}

		// the link already carries the query
		next, params = body.NextLink, nil
	}
	return nil
}

// List collects every element of a collection, built with build, in page
// order.
func List[T any](ctx context.Context, c ResourceClient, endpoint, filter string, build func(convert.Mapping) (T, error)) ([]T, error) {
	var out []T
	err := c.Each(ctx, endpoint, filter, func(m convert.Mapping) error {
		v, err := build(m)
		if err != nil {
			return fmt.Errorf("convert %s element: %w", endpoint, err)
		}
		out = append(out, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, endpoint string, params url.Values) (convert.Mapping, error) {
	target, err := c.URL(endpoint)
	if err != nil {
		return nil, err
	}
	resp, err := c.provider.Get(ctx, target, params)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", endpoint, err)
	}
	c.logResponse(http.MethodGet, target, resp).Debug("request done")
	return decode(endpoint, resp, http.StatusOK)
}

// Post creates a resource and expects 201 Created.
func (c *Client) Post(ctx context.Context, endpoint string, body convert.Mapping) (convert.Mapping, error) {
	resp, err := c.RawPost(ctx, endpoint, body, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return decode(endpoint, resp, http.StatusCreated)
}

// RawPost sends body and returns the raw response once its status matches
// expected.
func (c *Client) RawPost(ctx context.Context, endpoint string, body convert.Mapping, expected int) (*Response, error) {
	target, err := c.URL(endpoint)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode %s body: %w", endpoint, err)
	}
	resp, err := c.provider.Post(ctx, target, payload)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", endpoint, err)
	}
	c.logResponse(http.MethodPost, target, resp).Debug("request done")
	if err := checkStatus(resp, expected); err != nil {
		return nil, fmt.Errorf("post %s: %w", endpoint, err)
	}
	return resp, nil
}

func (c *Client) Patch(ctx context.Context, endpoint string, body convert.Mapping) (convert.Mapping, error) {
	target, err := c.URL(endpoint)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode %s body: %w", endpoint, err)
	}
	resp, err := c.provider.Patch(ctx, target, payload)
	if err != nil {
		return nil, fmt.Errorf("patch %s: %w", endpoint, err)
	}
	c.logResponse(http.MethodPatch, target, resp).Debug("request done")
	return decode(endpoint, resp, http.StatusOK)
}

// Delete removes a resource and expects 204 No Content.
func (c *Client) Delete(ctx context.Context, endpoint string) error {
	target, err := c.URL(endpoint)
	if err != nil {
		return err
	}
	resp, err := c.provider.Delete(ctx, target)
	if err != nil {
		return fmt.Errorf("delete %s: %w", endpoint, err)
	}
	c.logResponse(http.MethodDelete, target, resp).Debug("request done")
	if err := checkStatus(resp, http.StatusNoContent); err != nil {
		return fmt.Errorf("delete %s: %w", endpoint, err)
	}
	return nil
}

func (c *Client) logResponse(method, target string, resp *Response) logrus.FieldLogger {
	return c.log.WithFields(logrus.Fields{
		"method": method,
		"url":    target,
		"status": resp.StatusCode,
	})
}

func decode(endpoint string, resp *Response, expected int) (convert.Mapping, error) {
	if err := checkStatus(resp, expected); err != nil {
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}
	m, err := resp.Mapping()
	if err != nil {
		return nil, fmt.Errorf("parse %s response: %w", endpoint, err)
	}
	return m, nil
}
