package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"hubsync/internal/client/hubspot"
)

// objectLister is the slice of the HubSpot client the fetcher needs.
type objectLister interface {
	ListObjects(ctx context.Context, objectType string, params hubspot.ListParams) (*hubspot.Page, error)
}

// SleepFunc waits for d or until ctx is done. Tests swap in a recorder so
// retry timing is asserted without real sleeps.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// PageFetcher wraps the list endpoint with bounded retries. The delay doubles
// from InitialBackoff up to MaxBackoff; when the API sends a Retry-After hint
// longer than the computed delay, the hint wins.
type PageFetcher struct {
	Client         objectLister
	Logger         *zap.Logger
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Sleep          SleepFunc
}

// FetchPage returns one page of objects plus the number of retries it took.
// Non-retryable errors (auth, bad request, context cancellation) surface
// immediately; retryable ones are retried until MaxAttempts is spent, then the
// last error is returned as-is so callers can still classify it.
func (f *PageFetcher) FetchPage(ctx context.Context, objectType string, params hubspot.ListParams) (*hubspot.Page, int, error) {
	maxAttempts := f.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	backoff := f.InitialBackoff
	if backoff <= 0 {
		backoff = time.Second
	}
	sleep := f.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error
	retries := 0
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		page, err := f.Client.ListObjects(ctx, objectType, params)
		if err == nil {
			return page, retries, nil
		}
		lastErr = err
		if !hubspot.IsRetryable(err) || ctx.Err() != nil {
			return nil, retries, err
		}
		if attempt == maxAttempts {
			break
		}
		delay := backoff
		if ra := hubspot.RetryAfter(err); ra > delay {
			delay = ra
		}
		if f.Logger != nil {
			f.Logger.Warn("retrying page fetch",
				zap.String("object_type", objectType),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(err))
		}
		if serr := sleep(ctx, delay); serr != nil {
			return nil, retries, serr
		}
		retries++
		backoff *= 2
		if f.MaxBackoff > 0 && backoff > f.MaxBackoff {
			backoff = f.MaxBackoff
		}
	}
	return nil, retries, lastErr
}
