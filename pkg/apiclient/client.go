// Package apiclient is the shared request wrapper for every call made against the
// storefront backend. It owns header defaults, body encoding, response validation
// and error normalization so the typed endpoint layer stays declarative.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	pkgerrors "github.com/smarttech/storefront/pkg/errors"
	"github.com/smarttech/storefront/pkg/logger"
	"github.com/smarttech/storefront/pkg/metrics"
	"github.com/smarttech/storefront/pkg/validate"
)

const (
	DefaultBaseURL = "http://localhost:8000"

	errorBodyReadLimit int64 = 64 << 10
)

var errBaseURLScheme = errors.New("api base url must use http or https")

// Client sends requests to one backend base URL.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logg       *logger.Logger
	metrics    *metrics.APIClientMetrics
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client. The default enforces no timeout.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger attaches a structured logger for request tracing.
func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		if logg != nil {
			c.logg = logg
		}
	}
}

// WithMetrics records request counts and latency.
func WithMetrics(m *metrics.APIClientMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = strings.TrimSpace(ua)
	}
}

// New builds a client for baseURL. An empty baseURL falls back to DefaultBaseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errBaseURLScheme
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("api base url %q has no host", trimmed)
	}

	client := &Client{
		httpClient: &http.Client{},
		baseURL:    trimmed,
		logg:       logger.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// BaseURL returns the normalized backend URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request describes one backend call.
type Request struct {
	Method string
	Path   string
	// Route is the low-cardinality metrics label, e.g. "/api/orders/{id}". Defaults to Path.
	Route   string
	Query   url.Values
	Headers map[string]string
	// Body is JSON-encoded when set. Ignored when Multipart is set.
	Body      any
	Multipart *FilePart
	// ErrorFallback replaces the message used when an error body cannot be parsed.
	ErrorFallback string
}

// Call is the typed form of Do.
func Call[T any](ctx context.Context, c *Client, req Request) (T, error) {
	var out T
	err := c.Do(ctx, req, &out)
	return out, err
}

// Do executes req and decodes a successful JSON body into out (which may be nil).
// Every failure that involves the backend is returned as *Error.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "api client not configured")
	}
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodGet
	}
	route := req.Route
	if route == "" {
		route = req.Path
	}

	httpReq, err := c.newRequest(ctx, method, req)
	if err != nil {
		return err
	}

	start := time.Now()
	status, err := c.execute(httpReq, req, out)
	elapsed := time.Since(start)
	c.metrics.Observe(method, route, status, elapsed)

	logCtx := c.logg.WithFields(ctx, map[string]any{
		"method":      method,
		"path":        req.Path,
		"status":      status,
		"duration_ms": elapsed.Milliseconds(),
	})
	if err != nil {
		c.logg.Warn(c.logg.WithField(logCtx, "error", err.Error()), "api.request.failed")
		return err
	}
	c.logg.Debug(logCtx, "api.request.completed")
	return nil
}

func (c *Client) newRequest(ctx context.Context, method string, req Request) (*http.Request, error) {
	path := req.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	target := c.baseURL + path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var (
		body        io.Reader
		contentType = "application/json"
	)
	switch {
	case req.Multipart != nil:
		buf, ct, err := req.Multipart.encode()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "encode multipart body")
		}
		body = buf
		contentType = ct
	case req.Body != nil:
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "encode request body")
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "build request")
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", contentType)
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	for key, value := range req.Headers {
		// the multipart boundary lives in Content-Type, so callers cannot replace it
		if req.Multipart != nil && http.CanonicalHeaderKey(key) == "Content-Type" {
			continue
		}
		httpReq.Header.Set(key, value)
	}
	return httpReq, nil
}

func (c *Client) execute(httpReq *http.Request, req Request, out any) (int, error) {
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, transportError(httpReq.Context(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return resp.StatusCode, &Error{
			Status:  resp.StatusCode,
			Message: parseErrorMessage(raw, req.ErrorFallback),
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, transportError(httpReq.Context(), err)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return resp.StatusCode, &Error{Status: resp.StatusCode, Message: invalidPayloadMessage, cause: err}
	}
	if err := validatePayload(out); err != nil {
		return resp.StatusCode, &Error{Status: resp.StatusCode, Message: invalidPayloadMessage, cause: err}
	}
	return resp.StatusCode, nil
}

func transportError(ctx context.Context, err error) *Error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &Error{Message: cancelledMessage, canceled: true, cause: ctxErr}
	}
	return &Error{Message: networkErrorMessage, cause: err}
}

// validatePayload runs struct validation over a decoded body, descending into slices.
func validatePayload(out any) error {
	v := reflect.ValueOf(out)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Struct:
		return validate.Struct(v.Interface())
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := validatePayload(v.Index(i).Interface()); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
	}
	return nil
}
