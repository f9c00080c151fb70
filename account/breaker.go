package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"

	constant "github.com/Dhruv-9623/Bank-Hub/constant"
	"github.com/Dhruv-9623/Bank-Hub/log"
)

// BreakerConfig holds circuit breaker tuning for a wrapped ledger.
type BreakerConfig struct {
	// MaxRequests is the number of probe requests allowed while half-open.
	MaxRequests uint32
	// Interval resets the failure counts while closed.
	Interval time.Duration
	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration
	// ConsecutiveFailures trips the breaker open.
	ConsecutiveFailures uint32
}

// DefaultBreakerConfig returns the configuration used when none is given.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:         1,
		Interval:            60 * time.Second,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 5,
	}
}

// Breaker decorates a Ledger with a circuit breaker. An open circuit, a
// breaker rejection or a deadline expiry all surface as
// constant.ErrUpstreamUnavailable, which the coordinator treats as a
// retryable transient. Business failures (not found, inactive, insufficient
// funds, version conflicts) pass through unchanged and do not trip the
// breaker.
type Breaker struct {
	next    Ledger
	breaker *gobreaker.CircuitBreaker
	logger  log.Logger
}

// Compile-time assertion: *Breaker implements Ledger.
var _ Ledger = (*Breaker)(nil)

// NewBreaker wraps the given ledger with a circuit breaker.
func NewBreaker(next Ledger, cfg BreakerConfig, logger log.Logger) *Breaker {
	if logger == nil {
		logger = log.NewNop()
	}

	b := &Breaker{next: next, logger: logger}

	b.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "account-ledger",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnf("circuit breaker %s: %s -> %s", name, from, to)
		},
		IsSuccessful: func(err error) bool {
			// Only infrastructure failures count against the breaker.
			return err == nil || !isInfrastructure(err)
		},
	})

	return b
}

// Get reads an account snapshot through the breaker.
func (b *Breaker) Get(ctx context.Context, number string) (Snapshot, error) {
	return b.execute(ctx, func(ctx context.Context) (Snapshot, error) {
		return b.next.Get(ctx, number)
	})
}

// Withdraw debits through the breaker.
func (b *Breaker) Withdraw(ctx context.Context, number string, amount decimal.Decimal, memo string) (Snapshot, error) {
	return b.execute(ctx, func(ctx context.Context) (Snapshot, error) {
		return b.next.Withdraw(ctx, number, amount, memo)
	})
}

// Deposit credits through the breaker.
func (b *Breaker) Deposit(ctx context.Context, number string, amount decimal.Decimal, memo string) (Snapshot, error) {
	return b.execute(ctx, func(ctx context.Context) (Snapshot, error) {
		return b.next.Deposit(ctx, number, amount, memo)
	})
}

func (b *Breaker) execute(ctx context.Context, op func(ctx context.Context) (Snapshot, error)) (Snapshot, error) {
	result, err := b.breaker.Execute(func() (any, error) {
		return op(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return Snapshot{}, fmt.Errorf("account ledger circuit open: %w", constant.ErrUpstreamUnavailable)
		}

		if errors.Is(err, context.DeadlineExceeded) {
			return Snapshot{}, fmt.Errorf("account ledger timeout: %w", constant.ErrUpstreamUnavailable)
		}

		return Snapshot{}, err
	}

	snapshot, ok := result.(Snapshot)
	if !ok {
		return Snapshot{}, fmt.Errorf("account ledger returned unexpected result: %w", constant.ErrUpstreamUnavailable)
	}

	return snapshot, nil
}

// isInfrastructure reports whether the error is a transport-level failure
// rather than a business outcome.
func isInfrastructure(err error) bool {
	switch {
	case errors.Is(err, constant.ErrAccountNotFound),
		errors.Is(err, constant.ErrInactiveAccount),
		errors.Is(err, constant.ErrInsufficientFunds),
		errors.Is(err, constant.ErrConcurrencyConflict),
		errors.Is(err, constant.ErrValidation):
		return false
	default:
		return true
	}
}
