// Package api is the typed client for the prism backend. All five tools
// share one Client so base URL, timeout, logging, and request telemetry
// are configured in a single place.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"prism/internal/reqtrace"
)

// DefaultTimeout bounds every backend call.
const DefaultTimeout = 30 * time.Second

const headerRequestID = "X-Request-ID"

// Client talks to the prism backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
	trace      *reqtrace.Log
	downloads  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client, timeout included.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger attaches a logger. Defaults to a nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithTrace attaches the request log feeding the requests overlay.
func WithTrace(trace *reqtrace.Log) Option {
	return func(c *Client) { c.trace = trace }
}

// WithDownloadDir overrides where binary responses are written.
func WithDownloadDir(dir string) Option {
	return func(c *Client) { c.downloads = dir }
}

// New creates a client for the given base URL. A trailing slash is trimmed
// so path joins stay predictable.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		log:        zap.NewNop(),
		downloads:  filepath.Join(os.TempDir(), "prism"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string { return c.baseURL }

// do issues one request and returns the raw response body. Every call gets
// a fresh X-Request-ID and is recorded in the request log whether it
// succeeded or not.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) ([]byte, error) {
	requestID := uuid.NewString()
	start := time.Now()

	data, status, err := c.roundTrip(ctx, method, path, contentType, body, requestID)

	event := reqtrace.Event{
		RequestID: requestID,
		Method:    method,
		Path:      path,
		Status:    status,
		Start:     start,
		Duration:  time.Since(start),
	}
	if err != nil {
		event.Err = err.Error()
		c.log.Warn("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err))
	} else {
		c.log.Debug("backend request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("elapsed", event.Duration))
	}
	if c.trace != nil {
		c.trace.Record(event)
	}
	return data, err
}

func (c *Client) roundTrip(ctx context.Context, method, path, contentType string, body io.Reader, requestID string) ([]byte, int, error) {
	if c.baseURL == "" {
		return nil, 0, fmt.Errorf("no backend configured for %s %s", method, path)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, 0, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set(headerRequestID, requestID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response for %s %s: %w", method, path, err)
	}
	if resp.StatusCode >= 400 {
		return data, resp.StatusCode, parseError(resp.StatusCode, requestID, data)
	}
	return data, resp.StatusCode, nil
}

// getJSON issues a GET and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	data, err := c.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return err
	}
	return decodeBody(path, data, out)
}

// postJSON issues a POST with a JSON body (nil for empty) and decodes the
// response into out (nil to discard).
func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request for %s: %w", path, err)
		}
		body = bytes.NewReader(payload)
	}
	data, err := c.do(ctx, http.MethodPost, path, "application/json", body)
	if err != nil {
		return err
	}
	return decodeBody(path, data, out)
}

// postFile uploads filePath as a multipart form and decodes the response.
func (c *Client) postFile(ctx context.Context, path, fileField, filePath string, fields map[string]string, out any) error {
	body, contentType, err := encodeMultipart(fileField, filePath, fields)
	if err != nil {
		return err
	}
	data, err := c.do(ctx, http.MethodPost, path, contentType, body)
	if err != nil {
		return err
	}
	return decodeBody(path, data, out)
}

// download fetches a binary response and writes it to a fresh file in the
// download directory. The name is a random UUID plus ext so concurrent
// downloads never collide.
func (c *Client) download(ctx context.Context, path, ext string) (string, error) {
	data, err := c.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(c.downloads, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}
	dest := filepath.Join(c.downloads, uuid.NewString()+ext)
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", fmt.Errorf("write download: %w", err)
	}
	return dest, nil
}

func decodeBody(path string, data []byte, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response for %s: %w", path, err)
	}
	return nil
}
