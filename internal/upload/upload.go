// Package upload sends local images to the gallery's image host using an
// unsigned upload preset.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

const (
	DefaultEndpoint = "https://api.cloudinary.com"
	DefaultFolder   = "gallery"
	DefaultMaxBytes = 10_000_000
)

// DefaultFormats lists the extensions accepted when none are configured.
var DefaultFormats = []string{"png", "jpg", "jpeg", "gif", "webp"}

var (
	// ErrTooLarge is returned for files above the size cap.
	ErrTooLarge = errors.New("file exceeds size limit")

	// ErrFormat is returned for extensions outside the allowed list.
	ErrFormat = errors.New("file format not allowed")
)

// Settings is the fixed upload configuration.
type Settings struct {
	Endpoint  string
	CloudName string
	Preset    string
	Folder    string
	MaxBytes  int64
	Formats   []string
}

// Result mirrors the fields Curator reads from the host's upload response.
type Result struct {
	PublicID         string `json:"public_id"`
	SecureURL        string `json:"secure_url"`
	OriginalFilename string `json:"original_filename"`
	Format           string `json:"format"`
	Bytes            int64  `json:"bytes"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ReaderWrapper decorates the request body, typically to report progress.
// It is called once per attempt, just before the request is sent.
type ReaderWrapper func(r io.Reader, size int64, name string) io.Reader

// Client uploads files to the image host.
type Client struct {
	settings Settings
	http     *retryablehttp.Client
	logger   zerolog.Logger
	wrap     ReaderWrapper
}

// Option customizes a Client.
type Option func(*Client)

// WithLogger sets the client logger; retry warnings go through it too.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithReaderWrapper installs a body decorator.
func WithReaderWrapper(w ReaderWrapper) Option {
	return func(c *Client) {
		c.wrap = w
	}
}

// WithRetry overrides the retry budget.
func WithRetry(max int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.http.RetryMax = max
		c.http.RetryWaitMin = waitMin
		c.http.RetryWaitMax = waitMax
	}
}

// NewClient validates settings and builds a Client.
func NewClient(settings Settings, opts ...Option) (*Client, error) {
	settings = normalize(settings)
	if settings.CloudName == "" {
		return nil, fmt.Errorf("upload cloud_name is required")
	}
	if settings.Preset == "" {
		return nil, fmt.Errorf("upload preset is required")
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.HTTPClient.Timeout = 2 * time.Minute

	c := &Client{settings: settings, http: rc, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	rc.Logger = retryLogger{logger: c.logger}
	// Hand the final response to Upload so the host's error message survives
	// exhausted retries.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if c.wrap != nil {
		rc.RequestLogHook = c.wrapBody
	}
	return c, nil
}

type fileNameKey struct{}

// wrapBody runs before every attempt after retryablehttp rewinds the body.
func (c *Client) wrapBody(_ retryablehttp.Logger, req *http.Request, attempt int) {
	if req.Body == nil || req.Body == http.NoBody {
		return
	}
	name, _ := req.Context().Value(fileNameKey{}).(string)
	body := req.Body
	req.Body = wrappedBody{Reader: c.wrap(body, req.ContentLength, name), Closer: body}
}

type wrappedBody struct {
	io.Reader
	io.Closer
}

// Settings returns the normalized configuration.
func (c *Client) Settings() Settings {
	return c.settings
}

// Validate checks path against the size cap and format list.
func (c *Client) Validate(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat upload: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > c.settings.MaxBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrTooLarge, filepath.Base(path), info.Size(), c.settings.MaxBytes)
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	for _, allowed := range c.settings.Formats {
		if ext == allowed {
			return info, nil
		}
	}
	return nil, fmt.Errorf("%w: %q (allowed: %s)", ErrFormat, ext, strings.Join(c.settings.Formats, ", "))
}

// Upload validates and sends path. Server errors are retried; client
// errors are not. When retries run out the last response's message is
// reported.
func (c *Client) Upload(ctx context.Context, path string) (Result, error) {
	if _, err := c.Validate(path); err != nil {
		return Result{}, err
	}
	body, contentType, err := c.buildBody(path)
	if err != nil {
		return Result{}, err
	}

	name := filepath.Base(path)
	ctx = context.WithValue(ctx, fileNameKey{}, name)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL(), bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("execute upload: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return Result{}, fmt.Errorf("upload rejected (status %d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return Result{}, fmt.Errorf("upload rejected (status %d)", resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("decode upload response: %w", err)
	}
	if result.OriginalFilename == "" {
		result.OriginalFilename = strings.TrimSuffix(name, filepath.Ext(name))
	}
	c.logger.Info().Str("file", name).Str("public_id", result.PublicID).Int64("bytes", result.Bytes).Msg("upload accepted")
	return result, nil
}

func (c *Client) uploadURL() string {
	return fmt.Sprintf("%s/v1_1/%s/image/upload", c.settings.Endpoint, c.settings.CloudName)
}

func (c *Client) buildBody(path string) ([]byte, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open upload: %w", err)
	}
	defer func() { _ = file.Close() }()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("upload_preset", c.settings.Preset); err != nil {
		return nil, "", fmt.Errorf("write preset: %w", err)
	}
	if c.settings.Folder != "" {
		if err := mw.WriteField("folder", c.settings.Folder); err != nil {
			return nil, "", fmt.Errorf("write folder: %w", err)
		}
	}
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("finish multipart: %w", err)
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}

func normalize(s Settings) Settings {
	s.Endpoint = strings.TrimRight(strings.TrimSpace(s.Endpoint), "/")
	if s.Endpoint == "" {
		s.Endpoint = DefaultEndpoint
	}
	s.CloudName = strings.TrimSpace(s.CloudName)
	s.Preset = strings.TrimSpace(s.Preset)
	s.Folder = strings.TrimSpace(s.Folder)
	if s.MaxBytes <= 0 {
		s.MaxBytes = DefaultMaxBytes
	}
	formats := make([]string, 0, len(s.Formats))
	for _, f := range s.Formats {
		f = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(f), "."))
		if f != "" {
			formats = append(formats, f)
		}
	}
	if len(formats) == 0 {
		formats = append(formats, DefaultFormats...)
	}
	s.Formats = formats
	return s
}

// retryLogger implements retryablehttp.LeveledLogger on top of zerolog.
type retryLogger struct {
	logger zerolog.Logger
}

func (l retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error().Fields(keysAndValues).Msg(msg)
}

func (l retryLogger) Info(msg string, keysAndValues ...interface{}) {}

func (l retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn().Fields(keysAndValues).Msg(msg)
}
