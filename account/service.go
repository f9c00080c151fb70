package account

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	constant "github.com/Dhruv-9623/Bank-Hub/constant"
	"github.com/Dhruv-9623/Bank-Hub/identifier"
	"github.com/Dhruv-9623/Bank-Hub/log"
)

// Ledger is the mutator surface consumed by the transfer coordinator.
type Ledger interface {
	Get(ctx context.Context, number string) (Snapshot, error)
	Withdraw(ctx context.Context, number string, amount decimal.Decimal, memo string) (Snapshot, error)
	Deposit(ctx context.Context, number string, amount decimal.Decimal, memo string) (Snapshot, error)
}

// Service exposes validated account operations over a Store. Every balance
// mutation is a single optimistic read-modify-write: the Service never
// retries a lost version race, it returns constant.ErrConcurrencyConflict
// and leaves the retry decision to the caller.
type Service struct {
	store   Store
	numbers *identifier.Generator
	logger  log.Logger
	now     func() time.Time
}

// Compile-time assertion: *Service implements Ledger.
var _ Ledger = (*Service)(nil)

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger attaches a logger to the service.
func WithLogger(logger log.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithNumberGenerator overrides the account-number generator.
func WithNumberGenerator(gen *identifier.Generator) ServiceOption {
	return func(s *Service) {
		if gen != nil {
			s.numbers = gen
		}
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates an account service over the given store.
func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{
		store:   store,
		numbers: identifier.New("account-number", identifier.AccountNumber),
		logger:  log.NewNop(),
		now:     time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

// Open creates a new active account with a freshly generated account number
// and the given opening balance. The number is drawn from the bounded
// generator against the store, so creation fails with
// constant.ErrGenerationExhausted instead of looping forever.
func (s *Service) Open(ctx context.Context, userID, accountType string, openingBalance decimal.Decimal) (Snapshot, error) {
	if userID == "" {
		return Snapshot{}, fmt.Errorf("user id is required: %w", constant.ErrValidation)
	}

	if openingBalance.IsNegative() {
		return Snapshot{}, fmt.Errorf("opening balance must not be negative: %w", constant.ErrValidation)
	}

	number, err := s.numbers.Generate(ctx, s.store.ExistsByNumber)
	if err != nil {
		return Snapshot{}, err
	}

	now := s.now().UTC()
	acct := &Account{
		ID:                uuid.New(),
		Number:            number,
		UserID:            userID,
		Type:              accountType,
		Balance:           openingBalance,
		Active:            true,
		Version:           0,
		CreatedAt:         now,
		LastTransactionAt: now,
	}

	if err := s.store.Create(ctx, acct); err != nil {
		return Snapshot{}, fmt.Errorf("create account: %w", err)
	}

	s.logger.Infof("account opened: %s for user %s", acct.Number, acct.UserID)

	return acct.snapshot(), nil
}

// Get returns a snapshot of the account with the given number.
func (s *Service) Get(ctx context.Context, number string) (Snapshot, error) {
	acct, err := s.store.GetByNumber(ctx, number)
	if err != nil {
		return Snapshot{}, err
	}

	return acct.snapshot(), nil
}

// ListByUser returns snapshots of the user's accounts in opening order.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Snapshot, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required: %w", constant.ErrValidation)
	}

	accts, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	snapshots := make([]Snapshot, 0, len(accts))
	for _, acct := range accts {
		snapshots = append(snapshots, acct.snapshot())
	}

	return snapshots, nil
}

// Withdraw debits amount from the account. Fails with
// constant.ErrAccountNotFound, constant.ErrInactiveAccount,
// constant.ErrInsufficientFunds or constant.ErrConcurrencyConflict.
func (s *Service) Withdraw(ctx context.Context, number string, amount decimal.Decimal, memo string) (Snapshot, error) {
	return s.mutate(ctx, number, amount, memo, true)
}

// Deposit credits amount to the account. Same failure modes as Withdraw
// minus insufficient funds.
func (s *Service) Deposit(ctx context.Context, number string, amount decimal.Decimal, memo string) (Snapshot, error) {
	return s.mutate(ctx, number, amount, memo, false)
}

// Deactivate marks an account inactive. The record is retained.
func (s *Service) Deactivate(ctx context.Context, number string) error {
	if err := s.store.Deactivate(ctx, number); err != nil {
		return err
	}

	s.logger.Infof("account deactivated: %s", number)

	return nil
}

func (s *Service) mutate(ctx context.Context, number string, amount decimal.Decimal, memo string, debit bool) (Snapshot, error) {
	if !amount.IsPositive() {
		return Snapshot{}, fmt.Errorf("amount must be greater than zero: %w", constant.ErrValidation)
	}

	acct, err := s.store.GetByNumber(ctx, number)
	if err != nil {
		return Snapshot{}, err
	}

	if !acct.Active {
		return Snapshot{}, fmt.Errorf("account %s: %w", number, constant.ErrInactiveAccount)
	}

	if debit {
		if acct.Balance.LessThan(amount) {
			return Snapshot{}, fmt.Errorf(
				"account %s balance %s cannot cover %s: %w",
				number, acct.Balance, amount, constant.ErrInsufficientFunds,
			)
		}

		acct.Balance = acct.Balance.Sub(amount)
	} else {
		acct.Balance = acct.Balance.Add(amount)
	}

	acct.LastTransactionAt = s.now().UTC()

	if err := s.store.Update(ctx, acct); err != nil {
		return Snapshot{}, err
	}

	op := "deposit"
	if debit {
		op = "withdraw"
	}

	s.logger.Infof("%s %s on %s, new balance %s (%s)", op, amount, number, acct.Balance, memo)

	return acct.snapshot(), nil
}
