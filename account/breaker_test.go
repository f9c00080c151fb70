package account

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	constant "github.com/Dhruv-9623/Bank-Hub/constant"
)

// flakyLedger fails every call with the configured error.
type flakyLedger struct {
	err   error
	calls int
}

func (f *flakyLedger) Get(context.Context, string) (Snapshot, error) {
	f.calls++
	return Snapshot{}, f.err
}

func (f *flakyLedger) Withdraw(context.Context, string, decimal.Decimal, string) (Snapshot, error) {
	f.calls++
	return Snapshot{}, f.err
}

func (f *flakyLedger) Deposit(context.Context, string, decimal.Decimal, string) (Snapshot, error) {
	f.calls++
	return Snapshot{}, f.err
}

func TestBreaker_PassesThroughHealthyCalls(t *testing.T) {
	t.Parallel()

	svc := NewService(NewMemoryStore())
	snap := openTestAccount(t, svc, 100)

	breaker := NewBreaker(svc, DefaultBreakerConfig(), nil)

	got, err := breaker.Get(context.Background(), snap.Number)
	require.NoError(t, err)
	assert.Equal(t, snap.Number, got.Number)

	got, err = breaker.Withdraw(context.Background(), snap.Number, decimal.NewFromInt(25), "test")
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(75)))
}

func TestBreaker_OpensAfterConsecutiveInfrastructureFailures(t *testing.T) {
	t.Parallel()

	ledger := &flakyLedger{err: assert.AnError}
	cfg := BreakerConfig{
		MaxRequests:         1,
		Interval:            time.Minute,
		Timeout:             time.Minute,
		ConsecutiveFailures: 3,
	}
	breaker := NewBreaker(ledger, cfg, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := breaker.Get(ctx, "ACC0000000001")
		require.ErrorIs(t, err, assert.AnError)
	}

	// Breaker is now open: the ledger is no longer reached and callers see
	// the upstream-unavailable transient.
	before := ledger.calls

	_, err := breaker.Get(ctx, "ACC0000000001")
	require.ErrorIs(t, err, constant.ErrUpstreamUnavailable)
	assert.Equal(t, before, ledger.calls)
}

func TestBreaker_BusinessErrorsDoNotTrip(t *testing.T) {
	t.Parallel()

	svc := NewService(NewMemoryStore())
	snap := openTestAccount(t, svc, 10)

	cfg := BreakerConfig{
		MaxRequests:         1,
		Interval:            time.Minute,
		Timeout:             time.Minute,
		ConsecutiveFailures: 2,
	}
	breaker := NewBreaker(svc, cfg, nil)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := breaker.Withdraw(ctx, snap.Number, decimal.NewFromInt(1000), "overdraft")
		require.ErrorIs(t, err, constant.ErrInsufficientFunds,
			"business failures must pass through, the breaker must stay closed")
	}
}

func TestBreaker_MapsDeadlineToUpstreamUnavailable(t *testing.T) {
	t.Parallel()

	ledger := &flakyLedger{err: context.DeadlineExceeded}
	breaker := NewBreaker(ledger, DefaultBreakerConfig(), nil)

	_, err := breaker.Deposit(context.Background(), "ACC0000000001", decimal.NewFromInt(1), "test")
	require.ErrorIs(t, err, constant.ErrUpstreamUnavailable)
}
