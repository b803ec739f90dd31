// Package api is the typed HTTP client over the storefront backend's REST
// resources. It owns bearer-token attachment, error classification, and
// the global logout-on-401 policy.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// TokenSource supplies the bearer credential for outbound calls. An empty
// token means anonymous; the request is sent without an Authorization
// header.
type TokenSource interface {
	Token() string
}

type Client struct {
	baseURL        string
	http           *http.Client
	tokens         TokenSource
	logger         *slog.Logger
	onUnauthorized func(context.Context)
}

type Option func(*Client)

// WithHTTPClient replaces the default transport, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTokenSource attaches a credential supplier.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithTimeout overrides the default 30s request timeout while keeping the
// instrumented transport. A later WithHTTPClient replaces both.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithUnauthorizedHandler registers the hook invoked whenever any call
// comes back 401. The handler runs before the error is returned to the
// caller; it is where the embedding app clears the session and navigates
// to login.
func WithUnauthorizedHandler(fn func(context.Context)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

func NewClient(baseURL string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		logger:  logger,
		http: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Health probes the backend's health check endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health_check", nil, nil, nil, nil)
}

// do runs one resource call: marshals body (when non-nil), attaches the
// bearer token, classifies the response, and decodes into out (when
// non-nil). extra headers are optional.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, extra http.Header) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, values := range extra {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("request failed", "method", method, "path", path, "error", err)
		return &NetworkError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return c.classify(ctx, method, path, resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// errorBody is the backend's error envelope; it answers with either
// "message" or "detail" depending on the endpoint.
type errorBody struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

func (c *Client) classify(ctx context.Context, method, path string, resp *http.Response) error {
	message := ""
	var eb errorBody
	if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil {
		if eb.Message != "" {
			message = eb.Message
		} else if eb.Detail != "" {
			message = eb.Detail
		}
	}
	if message == "" {
		message = fallbackMessage(resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		c.logger.Warn("authorization rejected, clearing session", "path", path)
		if c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
	case http.StatusNotFound:
		c.logger.Error("resource not found", "method", method, "path", path)
	case http.StatusUnprocessableEntity:
		c.logger.Error("backend rejected payload", "method", method, "path", path, "message", message)
	case http.StatusTooManyRequests:
		c.logger.Warn("rate limited by backend", "path", path)
	case http.StatusInternalServerError:
		c.logger.Error("backend error", "method", method, "path", path)
	default:
		c.logger.Error("request rejected", "method", method, "path", path, "status", resp.StatusCode, "message", message)
	}

	return &APIError{Status: resp.StatusCode, Message: message}
}
