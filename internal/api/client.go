// ABOUTME: HTTP client core for the catalog backend: request building, auth, error decoding
// ABOUTME: Non-2xx responses become *APIError; transport failures are wrapped and returned

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// basePath prefixes every backend route.
const basePath = "/api"

// defaultTimeout bounds plain request/response calls. Streams are not bounded.
const defaultTimeout = 30 * time.Second

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// DetailOr returns the backend detail carried by err, or fallback when err is
// not an *APIError or carries no detail.
func DetailOr(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

// IsAPIError reports whether err is a backend (non-transport) failure.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// Client talks to one catalog backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	stream     *http.Client
	token      string
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the client used for plain requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithStreamClient replaces the client used for the progress stream. It must
// not carry an overall timeout.
func WithStreamClient(hc *http.Client) Option {
	return func(c *Client) { c.stream = hc }
}

// WithTimeout sets the timeout for plain requests.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithToken sends "Authorization: Bearer <token>" on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithLogger sets the logger. Nil keeps slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a client for the backend at baseURL (scheme and host, no /api).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		stream:     &http.Client{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "api")
	return c
}

// BaseURL returns the backend address the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// newRequest builds a request for path (relative to /api) with auth applied.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+basePath+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// doJSON sends in (if non-nil) as JSON and decodes the response into out (if non-nil).
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return c.do(c.httpClient, req, out)
}

// do executes req and decodes a 2xx JSON body into out.
func (c *Client) do(hc *http.Client, req *http.Request, out any) error {
	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request finished",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

// decodeError turns a non-2xx response into an *APIError. The backend sends
// {"detail": "..."}; validation failures send a list of objects instead, which
// is kept as raw JSON text.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil || len(data) == 0 {
		return apiErr
	}

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || len(payload.Detail) == 0 {
		return apiErr
	}

	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err == nil {
		apiErr.Detail = detail
	} else {
		apiErr.Detail = string(payload.Detail)
	}
	return apiErr
}
