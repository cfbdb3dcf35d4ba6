// Package fetch wraps net/http for the framework's content loading.
//
// It is a thin client used by remote-HTML routes and the preloader:
// context-aware, with a bounded timeout, structured logging, and an
// OpenTelemetry span per request.
package fetch

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/lumen-dev/lumen/internal/errors"
)

const tracerName = "lumen/fetch"

// DefaultTimeout bounds a single content fetch.
const DefaultTimeout = 10 * time.Second

// Client fetches remote content for routes.
type Client struct {
	http    *http.Client
	logger  *slog.Logger
	baseURL string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithBaseURL prefixes relative request paths with a base URL.
// Paths that already carry a scheme are used as-is.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = base }
}

// New creates a fetch client.
func New(opts ...Option) *Client {
	c := &Client{
		http:   &http.Client{Timeout: DefaultTimeout},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Text fetches the given URL and returns the response body as a string.
// Relative paths are resolved against the configured base URL. Non-2xx
// responses are errors.
func (c *Client) Text(ctx context.Context, url string) (string, error) {
	target := c.resolve(url)

	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "fetch.Text")
	defer span.End()
	span.SetAttributes(attribute.String("http.url", target))

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", errors.New(errors.CodeFetchFailed).WithPath(url).Wrap(err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.logger.Warn("content fetch failed", "url", target, "error", err)
		return "", errors.New(errors.CodeFetchFailed).WithPath(url).Wrap(err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("unexpected status %d", resp.StatusCode)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Warn("content fetch failed", "url", target, "status", resp.StatusCode)
		return "", errors.New(errors.CodeFetchFailed).WithPath(url).Wrap(err)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", errors.New(errors.CodeFetchFailed).WithPath(url).Wrap(err)
	}

	c.logger.Debug("content fetched",
		"url", target,
		"bytes", len(body),
		"duration", time.Since(start))

	return string(body), nil
}

// resolve joins a relative path with the base URL.
func (c *Client) resolve(url string) string {
	if c.baseURL == "" {
		return url
	}
	if len(url) >= 7 && (url[:7] == "http://" || (len(url) >= 8 && url[:8] == "https://")) {
		return url
	}
	base := c.baseURL
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	if len(url) == 0 || url[0] != '/' {
		url = "/" + url
	}
	return base + url
}
