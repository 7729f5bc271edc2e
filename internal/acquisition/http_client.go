// Package acquisition fetches per-trial records from the public registry, one
// identifier at a time. Failures are isolated per identifier; a failed fetch
// is never retried within a run.
package acquisition

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// HTTPClientConfig holds configuration for the registry HTTP client.
type HTTPClientConfig struct {
	Timeout    time.Duration
	RateLimit  float64 // requests per second
	MaxRetries int     // transport-level retries; 0 keeps the no-retry contract
}

// DefaultHTTPClientConfig returns recommended defaults.
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:    30 * time.Second,
		RateLimit:  1.0,
		MaxRetries: 0,
	}
}

// HTTPClient wraps retryablehttp.Client with rate limiting.
type HTTPClient struct {
	client  *retryablehttp.Client
	limiter *rate.Limiter
}

// NewHTTPClient creates a new rate-limited HTTP client.
func NewHTTPClient(cfg HTTPClientConfig) *HTTPClient {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.Logger = nil

	return &HTTPClient{
		client:  retryClient,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
	}
}

// Do executes an HTTP request after waiting for the rate limiter.
func (c *HTTPClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	rreq, err := retryablehttp.FromRequest(req)
	if err != nil {
		return nil, err
	}
	return c.client.Do(rreq.WithContext(ctx))
}
