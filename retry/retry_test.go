package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tekcit/retry"
)

func TestDo_StopsAfterMaxAttempts(t *testing.T) {
	calls := 0
	err := retry.Do(context.Background(), retry.Policy{MaxAttempts: 3}, func(ctx context.Context) error {
		calls++
		return errors.New("still failing")
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ReturnsNilOnFirstSuccess(t *testing.T) {
	calls := 0
	err := retry.Do(context.Background(), retry.Policy{MaxAttempts: 3}, func(ctx context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("not yet")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDo_LinearBackoffDelays(t *testing.T) {
	interval := 10 * time.Millisecond

	start := time.Now()
	var offsets []time.Duration
	err := retry.Do(context.Background(), retry.Policy{MaxAttempts: 3, Interval: interval, Linear: true}, func(ctx context.Context) error {
		offsets = append(offsets, time.Since(start))
		return errors.New("no")
	})
	require.Error(t, err)
	require.Len(t, offsets, 3)

	// attempts at ~1x, ~3x and ~6x the base interval
	assert.GreaterOrEqual(t, offsets[0], interval)
	assert.GreaterOrEqual(t, offsets[1], 3*interval)
	assert.GreaterOrEqual(t, offsets[2], 6*interval)
}

func TestDo_ContextCancelStopsUnbounded(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	err := retry.Do(ctx, retry.Policy{Interval: 5 * time.Millisecond}, func(ctx context.Context) error {
		calls++
		return errors.New("keep going")
	})

	require.Error(t, err)
	assert.Greater(t, calls, 1)
}

func TestDo_CancelledBeforeFirstAttempt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := retry.Do(ctx, retry.Policy{MaxAttempts: 3, Interval: time.Hour}, func(ctx context.Context) error {
		calls++
		return nil
	})

	require.Error(t, err)
	assert.Zero(t, calls)
}
