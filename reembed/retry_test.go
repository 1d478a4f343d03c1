package reembed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingOp fails the first n calls and records how often it ran.
func failingOp(n int, calls *int) func() error {
	return func() error {
		*calls++
		if *calls <= n {
			return errors.New("rate limited")
		}
		return nil
	}
}

func TestRetryWithBackoff(t *testing.T) {
	tests := []struct {
		name        string
		failures    int
		maxAttempts int
		wantErr     bool
		wantCalls   int
	}{
		{name: "first try", failures: 0, maxAttempts: 3, wantCalls: 1},
		{name: "eventual success", failures: 2, maxAttempts: 5, wantCalls: 3},
		{name: "exhausted", failures: 10, maxAttempts: 3, wantErr: true, wantCalls: 3},
		{name: "single attempt", failures: 1, maxAttempts: 1, wantErr: true, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(context.Background(), failingOp(tt.failures, &calls), tt.maxAttempts, time.Millisecond)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, "rate limited", err.Error())
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, calls)
		})
	}
}

func TestRetryWithBackoff_InvalidMaxAttempts(t *testing.T) {
	for _, n := range []int{0, -1} {
		calls := 0
		err := RetryWithBackoff(context.Background(), failingOp(0, &calls), n, time.Millisecond)
		assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
		assert.Zero(t, calls)
	}
}

func TestRetryWithBackoff_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	op := func() error {
		calls++
		if calls == 2 {
			cancel()
		}
		return errors.New("boom")
	}

	err := RetryWithBackoff(ctx, op, 10, time.Millisecond)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, calls)
}

func TestRetryWithBackoff_CanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := RetryWithBackoff(ctx, failingOp(0, &calls), 3, time.Millisecond)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestRetryWithBackoff_DelayGrows(t *testing.T) {
	var stamps []time.Time
	op := func() error {
		stamps = append(stamps, time.Now())
		if len(stamps) < 4 {
			return errors.New("boom")
		}
		return nil
	}

	require.NoError(t, RetryWithBackoff(context.Background(), op, 5, 10*time.Millisecond))
	require.Len(t, stamps, 4)

	// 10ms, 20ms, 40ms
	assert.GreaterOrEqual(t, stamps[1].Sub(stamps[0]), 10*time.Millisecond)
	assert.GreaterOrEqual(t, stamps[2].Sub(stamps[1]), 20*time.Millisecond)
	assert.GreaterOrEqual(t, stamps[3].Sub(stamps[2]), 40*time.Millisecond)
}

func TestBackoffDelay(t *testing.T) {
	tests := []struct {
		name    string
		base    time.Duration
		attempt int
		want    time.Duration
	}{
		{"first retry", time.Second, 1, time.Second},
		{"doubles", time.Second, 3, 4 * time.Second},
		{"capped", time.Second, 10, MaxRetryDelay},
		{"large attempt does not overflow", time.Second, 1000, MaxRetryDelay},
		{"base above cap", 2 * time.Hour, 1, MaxRetryDelay},
		{"zero base", 0, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, backoffDelay(tt.base, tt.attempt))
		})
	}
}
