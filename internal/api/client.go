// Package api wraps the gastos personales REST backend behind typed,
// domain-level calls. Responses pass through a tolerant normalization step
// because field names drifted across backend versions.
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
	"net/url"
	"strings"
	"time"

	"github.com/gastos-cli/gastos/internal/common"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
)

// DefaultBaseURL is the fixed origin of this deployment's backend.
const DefaultBaseURL = "http://localhost:8080/api"

// defaultTimeout bounds every outbound request.
const defaultTimeout = 10 * time.Second

// Endpoint path groups.
const (
	pathMovimientos = "/movimientos"
	pathCategorias  = "/categorias"
	pathAuth        = "/auth"
)

// Config holds API client configuration.
type Config struct {
	// TokenSource returns the current bearer token, empty when the
	// deployment uses cookie sessions instead.
	TokenSource func() string
	BaseURL     string
	Timeout     time.Duration
}

// Client issues requests against the backend's fixed endpoint groups.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
	tokenFn    func() string
	baseURL    string
}

// NewClient creates a new API client with the given configuration.
func NewClient(cfg Config) (*Client, error) {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid base URL %q", common.ErrInvalidConfig, base)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "gastos-api",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
	})

	return &Client{
		baseURL:    strings.TrimRight(base, "/"),
		httpClient: &http.Client{Timeout: timeout},
		breaker:    breaker,
		tokenFn:    cfg.TokenSource,
		logger:     slog.Default().With("component", "api"),
	}, nil
}

// SetTokenSource installs the bearer token provider after construction. The
// session holder uses this to break the client/session dependency cycle.
func (c *Client) SetTokenSource(fn func() string) {
	c.tokenFn = fn
}

// do issues a request and returns the raw response body. Every failure comes
// back as a *Error carrying the HTTP status when one was received.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Message: "failed to encode request", Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, &Error{Message: "failed to create request", Err: err}
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.tokenFn != nil {
		if token := c.tokenFn(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	result, err := c.breaker.Execute(func() (any, error) {
		return c.httpClient.Do(req) //nolint:bodyclose // closed below
	})
	if err != nil {
		return nil, c.transportError(err, method, path, requestID)
	}

	resp := result.(*http.Response)
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Message: "failed to read response", Err: err}
	}

	c.logger.Debug("request completed",
		"request_id", requestID,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"elapsed", time.Since(start))

	if resp.StatusCode >= 400 {
		return data, newHTTPError(resp.StatusCode, data, "API request failed")
	}

	return data, nil
}

// transportError maps breaker and net failures into the typed error space.
func (c *Client) transportError(err error, method, path, requestID string) *Error {
	c.logger.Warn("request failed",
		"request_id", requestID,
		"method", method,
		"path", path,
		"error", err)

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &Error{Message: "backend unavailable", Err: common.ErrAPIUnavailable}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return &Error{Message: "request timed out", Err: common.ErrTimeout}
	}
	if errors.Is(err, context.Canceled) {
		return &Error{Message: "request canceled", Err: context.Canceled}
	}

	return &Error{Message: "connection failed", Err: fmt.Errorf("%w: %v", common.ErrAPIUnavailable, err)}
}

// get is a convenience wrapper for read calls.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

// extractMessage pulls a best-effort error message out of a response body.
func extractMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
