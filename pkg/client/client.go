// Package client is a thin typed client for the testflow mapping backend.
// Every call is fire-once: no retries, no backoff, no request deduplication.
// Responses are validated at this boundary so malformed DTOs never reach the
// store.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/poib/testflow/pkg/otelhelper"
)

const DefaultBaseURL = "http://localhost:8080"

const defaultTimeout = 60 * time.Second

// APIError is a non-2xx backend response. The message carries the HTTP
// status and the response body text, which the store surfaces to the user
// verbatim.
type APIError struct {
	Op     string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	body := e.Body
	if body == "" {
		body = http.StatusText(e.Status)
	}

	return fmt.Sprintf("%s failed (%d): %s", e.Op, e.Status, body)
}

// Client issues typed requests against a configurable backend base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	validate   *validator.Validate
	logger     *slog.Logger
	tracer     trace.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, mainly for tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTracer attaches a tracer; every backend call records a span.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) {
		c.tracer = tracer
	}
}

// New creates a client for the given base URL. An empty base URL falls back
// to the localhost default.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		logger:     slog.Default().With("module", "client"),
		tracer:     noop.NewTracerProvider().Tracer("client"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the normalized backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// wsURL converts the HTTP base URL into the websocket endpoint for one
// execution's log stream.
func (c *Client) wsURL(executionID string) string {
	base := c.baseURL
	if strings.HasPrefix(base, "https") {
		base = "wss" + strings.TrimPrefix(base, "https")
	} else {
		base = "ws" + strings.TrimPrefix(base, "http")
	}

	return base + "/ws/runner/" + url.PathEscape(executionID)
}

func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return c.do(op, req, out)
}

func (c *Client) postJSON(ctx context.Context, op, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req.Header.Set("Content-Type", "application/json")

	return c.do(op, req, out)
}

// postForm submits the given fields as multipart form-data, the transport the
// backend expects for file-bearing payloads.
func (c *Client) postForm(ctx context.Context, op, path string, fields map[string]string, out any) error {
	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(op, req, out)
}

func (c *Client) do(op string, req *http.Request, out any) error {
	started := time.Now()

	_, span := otelhelper.StartSpan(req.Context(), c.tracer, "client."+op)
	defer span.End()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		wrapped := fmt.Errorf("%s: %w", op, err)
		otelhelper.SetError(span, wrapped)

		return wrapped
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		wrapped := fmt.Errorf("%s: read response: %w", op, err)
		otelhelper.SetError(span, wrapped)

		return wrapped
	}

	c.logger.Debug("backend call finished",
		"op", op,
		"status", resp.StatusCode,
		"duration_ms", time.Since(started).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		otelhelper.SetError(span, apiErr)

		return apiErr
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}

	// Non-struct outputs (slices, maps) make validate.Struct return an
	// InvalidValidationError; only real field violations fail the call.
	if err := c.validate.Struct(out); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return fmt.Errorf("%s: invalid response: %w", op, err)
		}
	}

	return nil
}
