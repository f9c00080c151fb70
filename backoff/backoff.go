package backoff

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"time"
)

const maxShift = 62

// Exponential calculates exponential delay based on attempt number.
// The delay is calculated as base * 2^attempt with overflow protection.
// Negative attempts are treated as 0.
func Exponential(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		return 0
	}

	if attempt < 0 {
		attempt = 0
	} else if attempt > maxShift {
		attempt = maxShift
	}

	multiplier := int64(1 << attempt)

	baseInt := int64(base)
	if baseInt > math.MaxInt64/multiplier {
		return time.Duration(math.MaxInt64)
	}

	return time.Duration(baseInt * multiplier)
}

// FullJitter returns a random duration in the range [0, delay).
// Returns 0 for zero or negative delays. If the random source fails the
// deterministic midpoint is used so retry loops never stall.
func FullJitter(delay time.Duration) time.Duration {
	if delay <= 0 {
		return 0
	}

	n, err := rand.Int(rand.Reader, big.NewInt(int64(delay)))
	if err != nil {
		return delay / 2
	}

	return time.Duration(n.Int64())
}

// ExponentialWithJitter combines exponential backoff with full jitter.
// Returns a random duration in [0, base * 2^attempt), capped at cap when
// cap is positive. This implements the "Full Jitter" strategy.
func ExponentialWithJitter(base time.Duration, attempt int, capDelay time.Duration) time.Duration {
	delay := Exponential(base, attempt)
	if capDelay > 0 && delay > capDelay {
		delay = capDelay
	}

	return FullJitter(delay)
}

// SleepWithContext sleeps for the specified duration but respects context
// cancellation. Returns nil if the sleep completes, or an error if the
// context is cancelled. A dead context fails even for zero or negative
// durations, so retry loops stop instead of spinning on it.
func SleepWithContext(ctx context.Context, duration time.Duration) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context done: %w", err)
	}

	if duration <= 0 {
		return nil
	}

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context done: %w", ctx.Err())
	}
}
