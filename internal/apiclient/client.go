// Package apiclient talks to the catalog admin REST API.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"catalog-admin/internal/credentials"

	"github.com/sirupsen/logrus"
)

// Client is the shared HTTP wrapper every resource goes through.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	credentials credentials.Provider
	logger      *logrus.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets a per-request timeout. Zero keeps the client default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithLogger sets the logger for failed requests.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client rooted at baseURL, e.g. https://api.example.com/v1.
func New(baseURL string, provider credentials.Provider, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  http.DefaultClient,
		credentials: provider,
		logger:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type request struct {
	method   string
	path     string
	query    url.Values
	body     io.Reader
	ctype    string
	verb     string
	resource string
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	token, err := c.credentials.Token(ctx)
	if err != nil {
		if errors.Is(err, credentials.ErrNoToken) {
			return ErrMissingCredential
		}
		return &RequestError{Verb: r.verb, Resource: r.resource, Err: err}
	}

	endpoint := c.baseURL + r.path
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, r.body)
	if err != nil {
		return &RequestError{Verb: r.verb, Resource: r.resource, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if r.ctype != "" {
		req.Header.Set("Content-Type", r.ctype)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"method": r.method,
			"path":   r.path,
		}).Error("Backend request failed")
		return &RequestError{Verb: r.verb, Resource: r.resource, Err: err}
	}
	defer resp.Body.Close()

	c.logger.WithFields(logrus.Fields{
		"method":  r.method,
		"path":    r.path,
		"status":  resp.StatusCode,
		"latency": time.Since(start).String(),
	}).Debug("Backend request completed")

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Verb: r.verb, Resource: r.resource, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp, body),
		}
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &RequestError{Verb: r.verb, Resource: r.resource, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// errorMessage prefers the server's message field, which may be a string or a
// list of strings, and falls back to the HTTP status text.
func errorMessage(resp *http.Response, body []byte) string {
	var envelope struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Message) > 0 {
		var msg string
		if err := json.Unmarshal(envelope.Message, &msg); err == nil && msg != "" {
			return msg
		}
		var msgs []string
		if err := json.Unmarshal(envelope.Message, &msgs); err == nil && len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}

	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return resp.Status
}
