// Package fetch provides the outbound HTTP client used for upstream
// API calls, combining response caching, rate-limit pacing and
// uniform outcome classification.
package fetch

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
	"strconv"
	"strings"
	"time"

	"github.com/webdevtodayjason/bookpeek/internal/cache"
	"github.com/webdevtodayjason/bookpeek/internal/ratelimit"
)

const (
	defaultTimeout        = 30 * time.Second
	defaultMaxConnections = 10
	defaultRateDelay      = 100 * time.Millisecond
	defaultRetryAfter     = 60 * time.Second
	maxErrorBodyBytes     = 4096
)

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client makes upstream HTTP calls. Each call waits on the shared rate
// limiter before dispatch; GET responses are cached when requested.
// Concurrent misses for the same key may both dispatch; there is no
// single-flight de-duplication.
type Client struct {
	httpClient HTTPDoer
	limiter    *ratelimit.Limiter
	cache      *cache.Store
}

// NewClient creates a fetch client with a bounded connection pool,
// a 30 second total timeout and 100ms pacing between outbound calls.
func NewClient(opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
			Transport: &http.Transport{
				MaxConnsPerHost:     defaultMaxConnections,
				MaxIdleConns:        defaultMaxConnections,
				MaxIdleConnsPerHost: defaultMaxConnections,
			},
		},
		limiter: ratelimit.New("upstream", defaultRateDelay),
		cache:   cache.NewStore(cache.DefaultTTL),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithRateLimiter sets a custom rate limiter.
func WithRateLimiter(limiter *ratelimit.Limiter) Option {
	return func(client *Client) {
		if limiter != nil {
			client.limiter = limiter
		}
	}
}

// WithCache sets a custom cache store.
func WithCache(store *cache.Store) Option {
	return func(client *Client) {
		if store != nil {
			client.cache = store
		}
	}
}

// WithTimeout sets the total timeout on the default HTTP client.
// It has no effect when a custom HTTPDoer is installed.
func WithTimeout(timeout time.Duration) Option {
	return func(client *Client) {
		if hc, ok := client.httpClient.(*http.Client); ok && timeout > 0 {
			hc.Timeout = timeout
		}
	}
}

// Cache returns the cache store owned by this client.
func (c *Client) Cache() *cache.Store {
	return c.cache
}

// Close releases idle connections held by the underlying transport.
func (c *Client) Close() {
	if hc, ok := c.httpClient.(*http.Client); ok {
		if transport, ok := hc.Transport.(*http.Transport); ok {
			transport.CloseIdleConnections()
		}
	}
}

// Get issues an upstream GET. With useCache set, a fresh cached
// response is returned without dispatching; a successful response is
// stored back. The cache is never written on failure.
func (c *Client) Get(ctx context.Context, rawURL string, params url.Values, headers http.Header, useCache bool) Result {
	var cacheKey string
	if useCache {
		cacheKey = cache.Key(rawURL, params)
		if data, ok := c.cache.Get(cacheKey); ok {
			return success(http.StatusOK, data, true)
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return classifyTransportError(err)
	}

	endpoint := rawURL
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return failure(KindUnexpected, 0, fmt.Sprintf("Unexpected error: %v", err))
	}
	applyHeaders(req, headers)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("Upstream request failed", "url", rawURL, "error", err)
		return classifyTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return failure(KindNetwork, 0, fmt.Sprintf("Network error: %v", err))
		}
		if useCache {
			c.cache.Set(cacheKey, body)
		}
		return success(resp.StatusCode, body, false)

	case resp.StatusCode == http.StatusTooManyRequests:
		slog.Warn("Rate limit exceeded", "url", rawURL)
		return rateLimited(resp.StatusCode, retryAfterHint(resp.Header))

	case resp.StatusCode == http.StatusNotFound:
		return failure(KindNotFound, resp.StatusCode, "Resource not found")

	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		detail := strings.TrimSpace(string(body))
		slog.Error("API error", "url", rawURL, "status", resp.StatusCode, "body", detail)
		return apiError(resp.StatusCode, detail)
	}
}

// Post issues an upstream POST with a JSON body. Responses are never
// cached; 200 and 201 count as success.
func (c *Client) Post(ctx context.Context, rawURL string, payload any, headers http.Header) Result {
	if err := c.limiter.Wait(ctx); err != nil {
		return classifyTransportError(err)
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return failure(KindUnexpected, 0, fmt.Sprintf("Unexpected error: %v", err))
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, body)
	if err != nil {
		return failure(KindUnexpected, 0, fmt.Sprintf("Unexpected error: %v", err))
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	applyHeaders(req, headers)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("Upstream POST failed", "url", rawURL, "error", err)
		return classifyTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return failure(KindNetwork, 0, fmt.Sprintf("Network error: %v", err))
		}
		return success(resp.StatusCode, data, false)
	}

	errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	detail := strings.TrimSpace(string(errBody))
	slog.Error("POST error", "url", rawURL, "status", resp.StatusCode, "body", detail)
	return apiError(resp.StatusCode, detail)
}

func applyHeaders(req *http.Request, headers http.Header) {
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
}

// retryAfterHint parses the Retry-After response header, defaulting
// to 60 seconds when absent or malformed.
func retryAfterHint(headers http.Header) time.Duration {
	raw := headers.Get("Retry-After")
	if raw == "" {
		return defaultRetryAfter
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 0 {
		return defaultRetryAfter
	}
	return time.Duration(seconds) * time.Second
}

func classifyTransportError(err error) Result {
	if errors.Is(err, context.DeadlineExceeded) {
		return failure(KindTimeout, 0, "Request timeout")
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return failure(KindTimeout, 0, "Request timeout")
		}
		return failure(KindNetwork, 0, fmt.Sprintf("Network error: %v", urlErr.Err))
	}

	return failure(KindUnexpected, 0, fmt.Sprintf("Unexpected error: %v", err))
}
