package github

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gh "github.com/google/go-github/v57/github"
	"go.uber.org/zap"
)

// RetryConfig controls retry behavior for GitHub API calls.
type RetryConfig struct {
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// ApplyDefaults fills in zero values with production settings.
func (c *RetryConfig) ApplyDefaults() {
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.InitialBackoff == 0 {
		c.InitialBackoff = 1 * time.Second
	}
	if c.MaxBackoff == 0 {
		c.MaxBackoff = 30 * time.Second
	}
	if c.BackoffMultiplier == 0 {
		c.BackoffMultiplier = 2.0
	}
}

// withRetry executes operation, retrying transient failures with
// exponential backoff. Rate limited calls wait for the limit window to
// reset instead of the normal backoff.
func (c *Client) withRetry(ctx context.Context, operation func() (*gh.Response, error)) (*gh.Response, error) {
	backoff := c.retry.InitialBackoff

	var resp *gh.Response
	var err error
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		resp, err = operation()
		if err == nil {
			return resp, nil
		}

		if !isRetryableError(resp, err) {
			return resp, err
		}
		if attempt == c.retry.MaxRetries {
			break
		}

		wait := backoff
		if isRateLimitError(resp) {
			wait = rateLimitBackoff(resp, c.retry.MaxBackoff)
		}

		c.logger.Warn("retrying GitHub API call",
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", c.retry.MaxRetries),
			zap.Int("status", statusCode(resp)),
			zap.Duration("backoff", wait),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return resp, ctx.Err()
		case <-time.After(wait):
		}

		backoff = time.Duration(float64(backoff) * c.retry.BackoffMultiplier)
		if backoff > c.retry.MaxBackoff {
			backoff = c.retry.MaxBackoff
		}
	}

	return resp, fmt.Errorf("GitHub API operation failed after %d retries: %w", c.retry.MaxRetries, err)
}

// isRetryableError reports whether the failed call is worth repeating.
// Client errors such as 404 and 422 never are.
func isRetryableError(resp *gh.Response, err error) bool {
	if err == nil {
		return false
	}
	if resp == nil {
		// Transport failure before any HTTP status arrived.
		return true
	}

	switch resp.StatusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	case http.StatusForbidden:
		// Forbidden is terminal unless it is rate limiting in disguise.
		return isRateLimitError(resp)
	default:
		return false
	}
}

// isRateLimitError reports whether the response failed because the API
// rate limit was exhausted.
func isRateLimitError(resp *gh.Response) bool {
	if resp == nil {
		return false
	}
	switch resp.StatusCode {
	case http.StatusForbidden, http.StatusTooManyRequests:
		return resp.Rate.Limit > 0 && resp.Rate.Remaining == 0
	default:
		return false
	}
}

// rateLimitBackoff returns how long to wait for the rate limit window
// to reset, with a one second buffer, capped at maxWait.
func rateLimitBackoff(resp *gh.Response, maxWait time.Duration) time.Duration {
	if resp == nil || resp.Rate.Reset.IsZero() {
		return time.Minute
	}

	wait := time.Until(resp.Rate.Reset.Time) + time.Second
	if wait < time.Second {
		wait = time.Second
	}
	if wait > maxWait {
		wait = maxWait
	}
	return wait
}

func statusCode(resp *gh.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}
