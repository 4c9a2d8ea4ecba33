// Package graph implements client.Provider over net/http with bearer token
// authentication.
package graph

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/TWRT/mstodo/internal/client"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const DefaultTimeout = 10 * time.Second

type GraphClient struct {
	token      string
	httpClient *http.Client
	log        logrus.FieldLogger
}

type Option func(*GraphClient)

func WithTimeout(d time.Duration) Option {
	return func(c *GraphClient) {
		c.httpClient.Timeout = d
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *GraphClient) {
		c.httpClient = hc
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *GraphClient) {
		c.log = log
	}
}

func NewGraphClient(token string, opts ...Option) *GraphClient {
	c := &GraphClient{
		token:      token,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		log:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ client.Provider = (*GraphClient)(nil)

func (c *GraphClient) Get(ctx context.Context, rawURL string, params url.Values) (*client.Response, error) {
	if len(params) > 0 {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("parse url (graph): %w", err)
		}
		q := u.Query()
		for k, vs := range params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
		rawURL = u.String()
	}
	return c.do(ctx, http.MethodGet, rawURL, nil)
}

func (c *GraphClient) Post(ctx context.Context, rawURL string, body []byte) (*client.Response, error) {
	return c.do(ctx, http.MethodPost, rawURL, body)
}

func (c *GraphClient) Patch(ctx context.Context, rawURL string, body []byte) (*client.Response, error) {
	return c.do(ctx, http.MethodPatch, rawURL, body)
}

func (c *GraphClient) Delete(ctx context.Context, rawURL string) (*client.Response, error) {
	return c.do(ctx, http.MethodDelete, rawURL, nil)
}

func (c *GraphClient) do(ctx context.Context, method, rawURL string, body []byte) (*client.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("build request (graph): %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("client-request-id", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s (graph): %w", method, rawURL, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body (graph): %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"method":     method,
		"url":        rawURL,
		"status":     resp.StatusCode,
		"request_id": requestID,
		"elapsed":    time.Since(started),
	}).Trace("graph request")

	return &client.Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       respBody,
	}, nil
}
