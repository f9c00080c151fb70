package backoff

import (
	"context"
	"time"
)

// Default policy values used when a zero-value Policy is executed.
const (
	DefaultMaxAttempts = 3
	DefaultBase        = 50 * time.Millisecond
	DefaultCap         = 2 * time.Second
)

// Policy is a bounded retry policy with exponential backoff and full jitter.
// The zero value is usable and falls back to the package defaults.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first one.
	MaxAttempts int
	// Base is the backoff base delay for the first retry.
	Base time.Duration
	// Cap bounds the delay of any single retry.
	Cap time.Duration
}

func (p Policy) maxAttempts() int {
	if p.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}

	return p.MaxAttempts
}

func (p Policy) base() time.Duration {
	if p.Base <= 0 {
		return DefaultBase
	}

	return p.Base
}

func (p Policy) capDelay() time.Duration {
	if p.Cap <= 0 {
		return DefaultCap
	}

	return p.Cap
}

// Do runs attempt until it succeeds, fails with a non-retryable error, the
// attempt budget is exhausted, or the context is cancelled. The error of the
// last attempt is returned; retry never masks the original failure.
func (p Policy) Do(ctx context.Context, attempt func(ctx context.Context) error, retryable func(error) bool) error {
	var err error

	for i := 0; i < p.maxAttempts(); i++ {
		if i > 0 {
			if sleepErr := SleepWithContext(ctx, ExponentialWithJitter(p.base(), i-1, p.capDelay())); sleepErr != nil {
				return err
			}
		}

		err = attempt(ctx)
		if err == nil {
			return nil
		}

		if retryable == nil || !retryable(err) {
			return err
		}
	}

	return err
}
