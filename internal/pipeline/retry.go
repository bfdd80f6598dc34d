package pipeline

import (
	"context"
	"time"
)

// Retry policy for adapter dispatch: a small fixed attempt bound with a
// linearly growing delay between attempts.
const (
	defaultMaxAttempts = 3
	defaultRetryBase   = 2 * time.Second
)

// withRetry runs fn up to attempts times, sleeping attempt*base between
// tries. The last error is returned when all attempts fail; context
// cancellation cuts the backoff short.
func withRetry(ctx context.Context, attempts int, base time.Duration, fn func() error) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		select {
		case <-time.After(time.Duration(attempt) * base):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
