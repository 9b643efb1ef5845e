package confluence

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultRequestsPerSecond is the proactive throttle rate.
	DefaultRequestsPerSecond = 5.0

	// DefaultBurst is the token bucket size.
	DefaultBurst = 5

	// DefaultRetryAfter is used when a 429 carries no usable Retry-After header.
	DefaultRetryAfter = 30 * time.Second

	// HeaderRetryAfter is the retry-after header (seconds).
	HeaderRetryAfter = "Retry-After"
)

// RateLimiter throttles requests with a token bucket and holds back
// after a 429 until the advertised retry time.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// NewRateLimiter creates a rate limiter. A non-positive rps uses the default.
func NewRateLimiter(rps float64) *RateLimiter {
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(rps), DefaultBurst),
	}
}

// Wait blocks until a request can be made.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(retryAt)):
		}
	}

	return r.limiter.Wait(ctx)
}

// CheckRateLimit records the backoff of a 429 response and returns a
// RateLimitError for it. Other responses return nil.
func (r *RateLimiter) CheckRateLimit(resp *http.Response) error {
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		return nil
	}

	wait := DefaultRetryAfter
	if retryAfter := resp.Header.Get(HeaderRetryAfter); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds >= 0 {
			wait = time.Duration(seconds) * time.Second
		}
	}
	retryAt := time.Now().Add(wait)

	r.mu.Lock()
	r.retryAt = retryAt
	r.mu.Unlock()

	return &RateLimitError{RetryAt: retryAt}
}

// RetryAt returns the time before which no request is sent.
func (r *RateLimiter) RetryAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.retryAt
}
