// Package httputil provides the HTTP plumbing shared by remote feed
// sources: retry with exponential backoff and a response-caching GET
// client instrumented through the observability hooks.
package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cascadelayout/cascade/pkg/cache"
	"github.com/cascadelayout/cascade/pkg/errors"
	"github.com/cascadelayout/cascade/pkg/observability"
)

// DefaultTimeout bounds a single HTTP request.
const DefaultTimeout = 30 * time.Second

// Client is a GET-only HTTP client that caches successful responses.
//
// Responses are cached as raw bytes under an HTTPKey; the TTL applies
// uniformly to all responses. Transient failures (network errors, 5xx,
// 429) are retried with exponential backoff before surfacing.
type Client struct {
	http  *http.Client
	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration
}

// NewClient creates a caching client. A nil cache disables caching and a
// nil keyer selects the default keyer.
func NewClient(c cache.Cache, keyer cache.Keyer, ttl time.Duration) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Client{
		http:  &http.Client{Timeout: DefaultTimeout},
		cache: c,
		keyer: keyer,
		ttl:   ttl,
	}
}

// GetJSON fetches url and unmarshals the response body into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	data, err := c.GetBytes(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode response from %s", url)
	}
	return nil
}

// GetBytes fetches url, serving from cache when possible.
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, error) {
	key := c.keyer.HTTPKey("get", url)
	if data, hit, err := c.cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "http")
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "http")

	var body []byte
	err := RetryWithBackoff(ctx, func() error {
		b, err := c.fetch(ctx, url)
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, body, c.ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, "http", len(body))
	}
	return body, nil
}

// fetch performs one GET round trip and maps the status code onto the
// error taxonomy. Network failures and 5xx/429 responses come back as
// retryable.
func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request for %s", url)
	}

	host, path := req.URL.Host, req.URL.Path
	observability.HTTP().OnRequest(ctx, req.Method, host, path)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, req.Method, host, path, err)
		return nil, &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "GET %s", url)}
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &RetryableError{Err: &errors.RateLimitedError{
			RetryAfter: retryAfterSeconds(resp.Header.Get("Retry-After")),
			Message:    url,
		}}
	case RetryableStatus(resp.StatusCode):
		return nil, &RetryableError{Err: errors.New(errors.ErrCodeNetwork, "GET %s: %s", url, resp.Status)}
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.New(errors.ErrCodeNotFound, "GET %s: %s", url, resp.Status)
	case resp.StatusCode >= 400:
		return nil, errors.New(errors.ErrCodeNetwork, "GET %s: %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RetryableError{Err: fmt.Errorf("read body from %s: %w", url, err)}
	}
	return body, nil
}

// retryAfterSeconds parses a Retry-After header value. Only the
// delta-seconds form is recognized; HTTP-date values fall back to 0 and the
// normal backoff schedule applies.
func retryAfterSeconds(v string) int {
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
