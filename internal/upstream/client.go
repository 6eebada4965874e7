package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// APIKeyHeader is the header the film API reads its static key from.
const APIKeyHeader = "k"

// Client performs JSON requests against the configured film API hosts.
type Client struct {
	baseURLs []string
	timeout  time.Duration
	http     *http.Client
}

// NewClient returns a client for baseURLs (tried in order) with the given
// per-attempt timeout.
func NewClient(baseURLs []string, timeout time.Duration) *Client {
	bases := make([]string, 0, len(baseURLs))
	for _, b := range baseURLs {
		if b = strings.TrimRight(strings.TrimSpace(b), "/"); b != "" {
			bases = append(bases, b)
		}
	}
	return &Client{
		baseURLs: bases,
		timeout:  timeout,
		http:     &http.Client{},
	}
}

// Endpoints expands path against every base URL, in priority order.
func (c *Client) Endpoints(path string) []string {
	out := make([]string, 0, len(c.baseURLs))
	for _, b := range c.baseURLs {
		out = append(out, b+path)
	}
	return out
}

// Timeout is the per-attempt deadline.
func (c *Client) Timeout() time.Duration { return c.timeout }

// Do sends one request to url and returns the body of a 2xx response.
// Non-2xx responses yield a *StatusError carrying the body.
func (c *Client) Do(ctx context.Context, method, url string, header http.Header, body any) ([]byte, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, vals := range header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, Code: resp.StatusCode, Body: data}
	}
	return data, nil
}

// Call runs method+path against every endpoint until one returns a 2xx
// response that decode accepts.
func Call[T any](ctx context.Context, c *Client, op, method, path string, header http.Header, body any, decode func([]byte) (T, error)) (T, string, error) {
	return FirstSuccess(ctx, op, c.timeout, c.Endpoints(path), func(ctx context.Context, url string) (T, error) {
		var zero T
		data, err := c.Do(ctx, method, url, header, body)
		if err != nil {
			return zero, err
		}
		return decode(data)
	})
}

// DecodeJSON returns a decoder that unmarshals a body into T.
func DecodeJSON[T any]() func([]byte) (T, error) {
	return func(b []byte) (T, error) {
		var v T
		if len(bytes.TrimSpace(b)) == 0 {
			return v, fmt.Errorf("empty response body")
		}
		if err := json.Unmarshal(b, &v); err != nil {
			return v, fmt.Errorf("invalid JSON: %w", err)
		}
		return v, nil
	}
}

// KeyHeader builds a header set carrying the API key.
func KeyHeader(apiKey string) http.Header {
	h := http.Header{}
	if apiKey != "" {
		h.Set(APIKeyHeader, apiKey)
	}
	return h
}
