package hubspot

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// IsAuthError reports whether err is an authentication or authorization
// failure. These are never retried.
func IsAuthError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
}

// IsRateLimited reports whether err is a 429 response.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusTooManyRequests
}

// RetryAfter returns the server-requested wait from a rate-limit response,
// zero when none was sent or err is not an API error.
func RetryAfter(err error) (d time.Duration) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		d = apiErr.RetryAfter
	}
	return d
}

// IsRetryable reports whether a request that failed with err is worth
// repeating: rate limits, server-side errors, request timeouts, and
// transport-level failures. Context cancellation and client errors such as
// 401 or 400 are permanent.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Status == http.StatusTooManyRequests:
			return true
		case apiErr.Status == http.StatusRequestTimeout:
			return true
		case apiErr.Status >= 500:
			return true
		default:
			return false
		}
	}
	// No HTTP response at all: DNS failure, connection reset, client timeout.
	return true
}
