// Path: internal/errs/errs.go
package errs

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the failure classes the fetch pipeline can hit.
// Handlers and the report CLI branch on these with errors.Is.
var (
	ErrAuth         = errors.New("authentication failed")
	ErrTimeout      = errors.New("upstream timeout")
	ErrRateLimited  = errors.New("rate limited")
	ErrEmptyPayload = errors.New("empty project payload")
	ErrNoCachedData = errors.New("no cached data available")
)

// FetchErr wraps an upstream failure with the HTTP status that caused it
// and, for 429 responses, the server-provided retry hint.
type FetchErr struct {
	StatusCode int
	RetryAfter time.Duration
	err        error
}

func (e *FetchErr) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d)", e.err.Error(), e.StatusCode)
	}
	return e.err.Error()
}

func (e *FetchErr) Unwrap() error {
	return e.err
}

// NewStatusErr classifies a non-2xx upstream response.
func NewStatusErr(statusCode int) *FetchErr {
	switch statusCode {
	case 401:
		return &FetchErr{StatusCode: statusCode, err: ErrAuth}
	case 429:
		return &FetchErr{StatusCode: statusCode, err: ErrRateLimited}
	default:
		return &FetchErr{StatusCode: statusCode, err: fmt.Errorf("unexpected upstream status")}
	}
}

// NewRateLimitErr carries the Retry-After hint from a 429 response.
func NewRateLimitErr(retryAfter time.Duration) *FetchErr {
	return &FetchErr{StatusCode: 429, RetryAfter: retryAfter, err: ErrRateLimited}
}

// NewTimeoutErr marks a fetch that exceeded its deadline.
func NewTimeoutErr(cause error) *FetchErr {
	return &FetchErr{err: fmt.Errorf("%w: %v", ErrTimeout, cause)}
}

// IsRetryable reports whether a fetch failure is worth another attempt.
// Auth failures are terminal; everything else (rate limits, timeouts,
// transient network errors) can be retried with backoff.
func IsRetryable(err error) bool {
	return err != nil && !errors.Is(err, ErrAuth)
}

// RetryAfter extracts the server's retry hint, if the error carries one.
func RetryAfter(err error) (time.Duration, bool) {
	var fe *FetchErr
	if errors.As(err, &fe) && fe.RetryAfter > 0 {
		return fe.RetryAfter, true
	}
	return 0, false
}
