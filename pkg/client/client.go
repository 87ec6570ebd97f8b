// Package client is a Go client for the chrono-server HTTP API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/chrono-timers/chrono-go/pkg/timer"
	"github.com/chrono-timers/chrono-go/pkg/version"
)

// DefaultTimeout bounds each request when no http.Client is supplied.
const DefaultTimeout = 10 * time.Second

// ErrBadRequest is matched by APIErrors with status 400.
var ErrBadRequest = errors.New("bad request")

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("chrono api: %d %s (%s)", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("chrono api: %d %s", e.StatusCode, e.Message)
}

// Is maps status codes onto the timer and client sentinel errors.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case http.StatusNotFound:
		return target == timer.ErrNotFound
	case http.StatusBadRequest:
		return target == ErrBadRequest
	case http.StatusServiceUnavailable:
		return target == timer.ErrStorage
	}
	return false
}

// Config configures a Client.
type Config struct {
	// BaseURL is the API root, e.g. http://localhost:3000/api.
	BaseURL string

	// HTTPClient performs requests. Default: a client with DefaultTimeout.
	HTTPClient *http.Client
}

// Client talks to one chrono server.
type Client struct {
	base *url.URL
	http *http.Client
}

// New creates a client.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", cfg.BaseURL)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{base: base, http: hc}, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Health is the response of GET /health.
type Health struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	APIVersion string `json:"api_version"`
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, http.StatusOK, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Create creates a stopped timer.
func (c *Client) Create(ctx context.Context) (*timer.Snapshot, error) {
	return c.timer(ctx, http.MethodPost, "/timers", http.StatusCreated)
}

// Get fetches a timer. Running timers report live elapsed seconds.
func (c *Client) Get(ctx context.Context, id string) (*timer.Snapshot, error) {
	return c.timer(ctx, http.MethodGet, "/timers/"+url.PathEscape(id), http.StatusOK)
}

// Start starts a timer. Starting a running timer is a no-op.
func (c *Client) Start(ctx context.Context, id string) (*timer.Snapshot, error) {
	return c.timer(ctx, http.MethodPost, "/timers/"+url.PathEscape(id)+"/start", http.StatusOK)
}

// Stop stops a timer. Stopping a stopped timer is a no-op.
func (c *Client) Stop(ctx context.Context, id string) (*timer.Snapshot, error) {
	return c.timer(ctx, http.MethodPost, "/timers/"+url.PathEscape(id)+"/stop", http.StatusOK)
}

// Delete removes a timer.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/timers/"+url.PathEscape(id), nil, http.StatusNoContent, nil)
}

// ListOptions filters List.
type ListOptions struct {
	Status *timer.Status
	Limit  int
	Offset int
}

// List returns timers, newest first.
func (c *Client) List(ctx context.Context, opts ListOptions) ([]timer.Snapshot, error) {
	q := url.Values{}
	if opts.Status != nil {
		q.Set("status", opts.Status.String())
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		q.Set("offset", strconv.Itoa(opts.Offset))
	}

	var resp struct {
		Timers []timer.Snapshot `json:"timers"`
	}
	if err := c.do(ctx, http.MethodGet, "/timers", q, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return resp.Timers, nil
}

func (c *Client) timer(ctx context.Context, method, path string, want int) (*timer.Snapshot, error) {
	var s timer.Snapshot
	if err := c.do(ctx, method, path, nil, want, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// do sends a request and decodes the JSON body into out when the status
// matches want.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, want int, out any) error {
	u := *c.base
	u.Path += path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := version.Check(resp.Header.Get(version.Header)); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode != want {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var er struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if json.Unmarshal(body, &er) == nil && er.Error != "" {
		apiErr.Message = er.Error
		apiErr.Details = er.Details
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
