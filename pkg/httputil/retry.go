package httputil

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/cascadelayout/cascade/pkg/errors"
)

// Retry policy for feed fetches. Page requests are small and idempotent, so
// a short budget with doubling delays covers the flaky-endpoint case without
// stalling a whole resolve for long.
const (
	DefaultAttempts   = 3
	DefaultRetryDelay = time.Second
)

// RetryableError marks a feed fetch failure as transient. Wrap network
// errors and retryable-status responses with this type so that [Retry]
// knows to attempt the page again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// RetryableStatus reports whether an HTTP status code indicates a transient
// condition worth retrying: 429 and every 5xx. 4xx responses other than 429
// mean the request itself is wrong and repeating it cannot help.
func RetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// Retry executes fn up to attempts times. Only errors wrapped with
// [RetryableError] are retried; everything else returns immediately. The
// delay doubles after each failed attempt, except when the failure carries a
// rate-limit hint, which takes precedence (see [retryDelay]).
// Returns the last error if all attempts fail, or ctx.Err() if cancelled.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryDelay(lastErr, delay)):
				delay *= 2
			}
		}
	}
	return lastErr
}

// RetryWithBackoff runs fn under the default feed retry policy.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, DefaultAttempts, DefaultRetryDelay, fn)
}

// retryDelay picks the wait before the next attempt. A rate-limited response
// carrying a Retry-After hint overrides the backoff schedule: the upstream
// told us exactly when the next page fetch may succeed.
func retryDelay(err error, fallback time.Duration) time.Duration {
	var rl *errors.RateLimitedError
	if stderrors.As(err, &rl) && rl.RetryAfter > 0 {
		return time.Duration(rl.RetryAfter) * time.Second
	}
	return fallback
}

func isRetryable(err error) bool {
	return stderrors.As(err, new(*RetryableError))
}
