// Package retry is the single bounded-retry primitive shared by the waiting
// queue poller and the payment confirmation loop.
package retry

import (
	"context"
	"time"
)

// Policy describes how Do schedules attempts. The delay runs BEFORE each
// attempt: with Interval=2s and Linear=true, attempts happen at 2s, 6s and
// 12s of elapsed time.
type Policy struct {
	// MaxAttempts caps the number of calls to fn. Zero means unbounded,
	// which only makes sense with a cancellable context.
	MaxAttempts int

	// Interval is the base delay. With Linear set, attempt n waits
	// n*Interval; otherwise every attempt waits Interval.
	Interval time.Duration

	Linear bool
}

// Do runs fn until it succeeds, the policy is exhausted, or ctx is done.
// It returns nil on the first success and the last error otherwise.
func Do(ctx context.Context, policy Policy, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; policy.MaxAttempts == 0 || attempt <= policy.MaxAttempts; attempt++ {
		delay := policy.Interval
		if policy.Linear {
			delay = time.Duration(attempt) * policy.Interval
		}

		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				if lastErr != nil {
					return lastErr
				}
				return ctx.Err()
			case <-timer.C:
			}
		} else if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}

		if lastErr = fn(ctx); lastErr == nil {
			return nil
		}
	}

	return lastErr
}
