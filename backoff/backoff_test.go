package backoff

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExponential(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		base     time.Duration
		attempt  int
		expected time.Duration
	}{
		{name: "attempt 0 returns base", base: 100 * time.Millisecond, attempt: 0, expected: 100 * time.Millisecond},
		{name: "attempt 1 doubles base", base: 100 * time.Millisecond, attempt: 1, expected: 200 * time.Millisecond},
		{name: "attempt 3 is 8x base", base: 100 * time.Millisecond, attempt: 3, expected: 800 * time.Millisecond},
		{name: "negative attempt treated as 0", base: time.Second, attempt: -5, expected: time.Second},
		{name: "zero base returns 0", base: 0, attempt: 4, expected: 0},
		{name: "negative base returns 0", base: -time.Second, attempt: 2, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, Exponential(tt.base, tt.attempt))
		})
	}
}

func TestExponential_OverflowIsClamped(t *testing.T) {
	t.Parallel()

	got := Exponential(time.Hour, 62)
	assert.Positive(t, got)
}

func TestFullJitter_Bounds(t *testing.T) {
	t.Parallel()

	delay := 50 * time.Millisecond
	for i := 0; i < 100; i++ {
		got := FullJitter(delay)
		assert.GreaterOrEqual(t, got, time.Duration(0))
		assert.Less(t, got, delay)
	}

	assert.Equal(t, time.Duration(0), FullJitter(0))
	assert.Equal(t, time.Duration(0), FullJitter(-time.Second))
}

func TestExponentialWithJitter_RespectsCap(t *testing.T) {
	t.Parallel()

	capDelay := 10 * time.Millisecond
	for i := 0; i < 50; i++ {
		got := ExponentialWithJitter(time.Second, 10, capDelay)
		assert.Less(t, got, capDelay)
	}
}

func TestSleepWithContext(t *testing.T) {
	t.Parallel()

	t.Run("completes", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, SleepWithContext(context.Background(), time.Millisecond))
	})

	t.Run("zero duration returns immediately", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, SleepWithContext(context.Background(), 0))
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := SleepWithContext(ctx, time.Minute)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("cancelled context fails zero duration too", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := SleepWithContext(ctx, 0)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

// ---------------------------------------------------------------------------
// Policy
// ---------------------------------------------------------------------------

var errTransient = errors.New("transient")

func TestPolicy_Do_SucceedsFirstAttempt(t *testing.T) {
	t.Parallel()

	calls := 0
	policy := Policy{MaxAttempts: 3, Base: time.Microsecond}

	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		return nil
	}, func(error) bool { return true })

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestPolicy_Do_RetriesTransientUntilSuccess(t *testing.T) {
	t.Parallel()

	calls := 0
	policy := Policy{MaxAttempts: 5, Base: time.Microsecond}

	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	}, func(err error) bool { return errors.Is(err, errTransient) })

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestPolicy_Do_ExhaustsBudget(t *testing.T) {
	t.Parallel()

	calls := 0
	policy := Policy{MaxAttempts: 4, Base: time.Microsecond}

	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		return errTransient
	}, func(err error) bool { return errors.Is(err, errTransient) })

	require.ErrorIs(t, err, errTransient)
	assert.Equal(t, 4, calls)
}

func TestPolicy_Do_StopsOnNonRetryable(t *testing.T) {
	t.Parallel()

	terminal := errors.New("terminal")
	calls := 0
	policy := Policy{MaxAttempts: 5, Base: time.Microsecond}

	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		return terminal
	}, func(err error) bool { return errors.Is(err, errTransient) })

	require.ErrorIs(t, err, terminal)
	assert.Equal(t, 1, calls)
}

func TestPolicy_Do_ZeroValueUsesDefaults(t *testing.T) {
	t.Parallel()

	calls := 0
	var policy Policy

	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		return errTransient
	}, func(error) bool { return true })

	require.ErrorIs(t, err, errTransient)
	assert.Equal(t, DefaultMaxAttempts, calls)
}

func TestPolicy_Do_CancelledContextReturnsLastError(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	policy := Policy{MaxAttempts: 5, Base: time.Hour}

	err := policy.Do(ctx, func(context.Context) error {
		calls++
		cancel()
		return errTransient
	}, func(error) bool { return true })

	require.ErrorIs(t, err, errTransient)
	assert.Equal(t, 1, calls)
}

// Even when the jittered delay rounds down to zero, a dead context must end
// the retry loop instead of letting further attempts through.
func TestPolicy_Do_CancelledContextStopsTinyDelays(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	policy := Policy{MaxAttempts: 5, Base: 1}

	err := policy.Do(ctx, func(context.Context) error {
		calls++
		cancel()
		return errTransient
	}, func(error) bool { return true })

	require.ErrorIs(t, err, errTransient)
	assert.Equal(t, 1, calls)
}
