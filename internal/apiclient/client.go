// Package apiclient is the single outbound path to the hotel REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hotelguru/internal/domain"
	"hotelguru/internal/observability"
)

// Options tune the client. The zero value is usable.
type Options struct {
	// Timeout bounds a whole request; zero keeps the transport default
	Timeout time.Duration
	// Validate checks each request against the embedded API contract
	Validate bool
	// Strict rejects requests failing validation instead of logging them
	Strict bool
	// Transport is the underlying round tripper, http.DefaultTransport if nil
	Transport http.RoundTripper
}

// Client sends JSON requests to the backend under a fixed base URL
type Client struct {
	baseURL    string
	httpClient *http.Client
	validator  *Validator
	strict     bool
}

// New creates a Client for baseURL whose requests carry the bearer token
// found in storage at send time
func New(baseURL string, storage domain.ClientStorage, opts Options) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", baseURL)
	}

	next := opts.Transport
	if next == nil {
		next = http.DefaultTransport
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: opts.Timeout,
			Transport: &interceptor{
				storage:  storage,
				basePath: strings.TrimRight(u.Path, "/"),
				next:     next,
			},
		},
		strict: opts.Strict,
	}

	if opts.Validate {
		v, err := NewValidator()
		if err != nil {
			return nil, err
		}
		c.validator = v
	}
	return c, nil
}

// BaseURL returns the configured base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, nil, body)
}

func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, nil, body)
}

func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Do sends one request. A non-2xx answer returns the response along with an
// *APIError wrapping it. Transport failures return ErrBackendUnavailable.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (*Response, error) {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		payload = data
	}

	if c.validator != nil {
		if err := c.validator.ValidateRequest(ctx, method, path, query, payload); err != nil {
			if c.strict {
				return nil, err
			}
			observability.FromContext(ctx).Warn("request does not match api contract",
				slog.String("method", method),
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrBackendUnavailable, method, path, err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrBackendUnavailable, err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       data,
	}
	if !resp.OK() {
		return resp, newAPIError(resp)
	}
	return resp, nil
}
