package gallery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Backend defines the gallery operations the controller depends on.
// This interface is implemented by *Client and can be used for testing.
type Backend interface {
	Health(ctx context.Context) error
	ListImages(ctx context.Context) ([]ImageRecord, error)
	DeleteImage(ctx context.Context, publicID string) error
}

// Ensure Client implements Backend at compile time.
var _ Backend = (*Client)(nil)

// Client talks to the gallery backend HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	timeout   time.Duration
	userAgent string
	logger    zerolog.Logger
}

const (
	defaultBaseURL   = "http://127.0.0.1:3000"
	defaultUserAgent = "curator/0.1"

	// defaultTransportTimeout is a backstop; callers bound each request with
	// a context.
	defaultTransportTimeout = 30 * time.Second
	maxErrorBody     = 4 << 10
)

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTransportTimeout sets the HTTP client's backstop timeout. It must be
// at least the longest per-call context timeout or it silently caps it.
// Ignored when WithHTTPClient supplies the client.
func WithTransportTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger attaches a logger for per-request debug output.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient builds a Client for the backend rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		timeout:   defaultTransportTimeout,
		userAgent: defaultUserAgent,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	return c, nil
}

// TransportTimeout returns the HTTP client's backstop timeout.
func (c *Client) TransportTimeout() time.Duration {
	return c.http.Timeout
}

// BaseURL returns the normalized backend address.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// Health probes the liveness endpoint. It returns nil only for a 2xx response.
func (c *Client) Health(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// ListImages retrieves the current gallery contents.
func (c *Client) ListImages(ctx context.Context) ([]ImageRecord, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload ListResponse
	if err := c.do(ctx, http.MethodGet, "/gallery-images", nil, &payload); err != nil {
		return nil, err
	}
	if !payload.Success {
		return nil, &AppError{Op: "list images", Message: payload.Message}
	}
	if payload.Images == nil {
		return nil, fmt.Errorf("list images: %w: images missing", ErrMalformed)
	}
	return payload.Images, nil
}

// DeleteImage removes the image identified by publicID.
func (c *Client) DeleteImage(ctx context.Context, publicID string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	publicID = strings.TrimSpace(publicID)
	if publicID == "" {
		return fmt.Errorf("public id required")
	}
	var payload DeleteResponse
	if err := c.do(ctx, http.MethodPost, "/delete-image", DeleteRequest{PublicID: publicID}, &payload); err != nil {
		return err
	}
	if !payload.Success {
		return &AppError{Op: "delete image", Message: payload.Message}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug().Str("request_id", requestID).Str("path", path).Err(err).Msg("request failed")
		if IsTimeout(err) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("execute request: %w: %w", ErrTimeout, err)
		}
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug().
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("request complete")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.CopyN(io.Discard, resp.Body, maxErrorBody)
		return &StatusError{Path: rel.String(), Code: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if IsTimeout(err) {
			return fmt.Errorf("read response: %w: %w", ErrTimeout, err)
		}
		return fmt.Errorf("decode response: %w: %w", ErrMalformed, err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", raw)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
