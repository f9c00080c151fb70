package transfer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	bankhub "github.com/Dhruv-9623/Bank-Hub"
	"github.com/Dhruv-9623/Bank-Hub/account"
	"github.com/Dhruv-9623/Bank-Hub/backoff"
	constant "github.com/Dhruv-9623/Bank-Hub/constant"
	"github.com/Dhruv-9623/Bank-Hub/event"
	"github.com/Dhruv-9623/Bank-Hub/identifier"
	"github.com/Dhruv-9623/Bank-Hub/log"
)

// CreateRequest carries the inputs of a new transfer.
type CreateRequest struct {
	FromAccount string `validate:"required"`
	ToAccount   string `validate:"required,nefield=FromAccount"`
	Amount      decimal.Decimal
	UserID      string `validate:"required"`
	Description string `validate:"max=255"`
}

// Result is the outer-boundary view of a transaction outcome.
type Result struct {
	TransactionID   string
	ReferenceNumber string
	Status          Status
	Reason          string
}

// Coordinator runs the transfer saga. All collaborators are explicit
// capabilities handed in at construction; there is no ambient client state.
type Coordinator struct {
	store    Store
	ledger   account.Ledger
	emitter  event.Emitter
	ids      *identifier.Generator
	retry    backoff.Policy
	validate *validator.Validate
	logger   log.Logger
	now      func() time.Time
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger attaches a logger.
func WithLogger(logger log.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRetryPolicy overrides the bounded retry policy applied to transient
// failures (concurrency conflicts, unavailable upstreams).
func WithRetryPolicy(policy backoff.Policy) Option {
	return func(c *Coordinator) {
		c.retry = policy
	}
}

// WithIDGenerator overrides the transaction-id generator.
func WithIDGenerator(gen *identifier.Generator) Option {
	return func(c *Coordinator) {
		if gen != nil {
			c.ids = gen
		}
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCoordinator creates a transfer coordinator.
func NewCoordinator(store Store, ledger account.Ledger, emitter event.Emitter, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:    store,
		ledger:   ledger,
		emitter:  emitter,
		ids:      identifier.New("transaction-id", identifier.TransactionID),
		retry:    backoff.Policy{},
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   log.NewNop(),
		now:      time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

// Create validates the request and persists a new PENDING transaction with
// a collision-checked transaction id. The reference number is cosmetic and
// deliberately not collision-checked, mirroring how references are issued
// to customers.
func (c *Coordinator) Create(ctx context.Context, req CreateRequest) (*Transaction, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err, constant.ErrValidation)
	}

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("amount must be greater than zero: %w", constant.ErrValidation)
	}

	transactionID, err := c.ids.Generate(ctx, c.store.ExistsByTransactionID)
	if err != nil {
		return nil, err
	}

	txn := &Transaction{
		ID:              uuid.New(),
		TransactionID:   transactionID,
		FromAccount:     req.FromAccount,
		ToAccount:       req.ToAccount,
		Amount:          req.Amount,
		Type:            constant.TRANSFER,
		Status:          StatusPending,
		Description:     req.Description,
		UserID:          req.UserID,
		ReferenceNumber: identifier.ReferenceNumber(),
		CreatedAt:       c.now().UTC(),
	}

	if err := c.store.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	c.logger.Infof("transfer created: %s from %s to %s amount %s",
		txn.TransactionID, txn.FromAccount, txn.ToAccount, txn.Amount)

	return txn, nil
}

// Execute runs a PENDING transaction to a terminal state.
//
// The PENDING → PROCESSING transition is the idempotency boundary: a second
// Execute on the same transaction id fails with constant.ErrAlreadyProcessing
// and performs no balance mutation. Once the claim succeeds the saga runs
// detached from the caller's cancellation and always reaches a terminal
// state, compensating the withdraw if the deposit cannot be applied; it is
// never abandoned mid-flight.
func (c *Coordinator) Execute(ctx context.Context, transactionID string) (*Transaction, error) {
	txn, err := c.store.Begin(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	// The claim succeeded; from here the saga must reach a terminal state
	// even if the caller goes away. Detach from the caller's cancellation so
	// a dropped request cannot strand the transaction in PROCESSING after
	// balances have moved.
	ctx = context.WithoutCancel(ctx)

	c.logger.Infof("transfer processing: %s", txn.TransactionID)

	// Fail fast on definitive account state before touching balances.
	if err := c.preflight(ctx, txn); err != nil {
		return c.fail(ctx, txn, err)
	}

	memo := fmt.Sprintf("Transfer %s to %s", txn.TransactionID, txn.ToAccount)
	if err := c.withRetry(ctx, func(ctx context.Context) error {
		_, werr := c.ledger.Withdraw(ctx, txn.FromAccount, txn.Amount, memo)
		return werr
	}); err != nil {
		// Nothing has moved yet; no compensation needed.
		return c.fail(ctx, txn, err)
	}

	memo = fmt.Sprintf("Transfer %s from %s", txn.TransactionID, txn.FromAccount)
	if err := c.withRetry(ctx, func(ctx context.Context) error {
		_, derr := c.ledger.Deposit(ctx, txn.ToAccount, txn.Amount, memo)
		return derr
	}); err != nil {
		return c.compensate(ctx, txn, err)
	}

	settled, err := c.store.Settle(ctx, txn.TransactionID, StatusCompleted, "", false, c.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("settle completed transaction %s: %w", txn.TransactionID, err)
	}

	c.logger.Infof("transfer completed: %s", settled.TransactionID)
	c.emit(ctx, settled)

	return settled, nil
}

// CreateAndExecute is the outer-boundary operation: create a transfer and
// run it to a terminal state. Terminal failures of the execution phase are
// reported through the Result, not as a Go error.
func (c *Coordinator) CreateAndExecute(ctx context.Context, req CreateRequest) (Result, error) {
	txn, err := c.Create(ctx, req)
	if err != nil {
		return Result{}, err
	}

	executed, err := c.Execute(ctx, txn.TransactionID)
	if err != nil {
		return Result{}, err
	}

	return Result{
		TransactionID:   executed.TransactionID,
		ReferenceNumber: executed.ReferenceNumber,
		Status:          executed.Status,
		Reason:          executed.Reason,
	}, nil
}

// Cancel withdraws a PENDING transaction administratively. It is not part
// of the automatic flow and never touches balances.
func (c *Coordinator) Cancel(ctx context.Context, transactionID string) (*Transaction, error) {
	txn, err := c.store.Cancel(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	c.logger.Infof("transfer cancelled: %s", txn.TransactionID)

	return txn, nil
}

// Get returns the transaction with the given transaction id.
func (c *Coordinator) Get(ctx context.Context, transactionID string) (*Transaction, error) {
	return c.store.GetByTransactionID(ctx, transactionID)
}

// HistoryByUser returns the user's transactions, newest first.
func (c *Coordinator) HistoryByUser(ctx context.Context, userID string) ([]*Transaction, error) {
	return c.store.ListByUser(ctx, userID)
}

// HistoryByAccount returns the account's transactions, newest first.
func (c *Coordinator) HistoryByAccount(ctx context.Context, accountNumber string) ([]*Transaction, error) {
	return c.store.ListByAccount(ctx, accountNumber)
}

// preflight reads both accounts and rejects the transfer before any money
// moves if either account is invalid or the source cannot cover the amount.
func (c *Coordinator) preflight(ctx context.Context, txn *Transaction) error {
	from, err := c.ledger.Get(ctx, txn.FromAccount)
	if err != nil {
		return fmt.Errorf("source account: %w", err)
	}

	to, err := c.ledger.Get(ctx, txn.ToAccount)
	if err != nil {
		return fmt.Errorf("destination account: %w", err)
	}

	if !from.Active {
		return fmt.Errorf("source account %s: %w", txn.FromAccount, constant.ErrInactiveAccount)
	}

	if !to.Active {
		return fmt.Errorf("destination account %s: %w", txn.ToAccount, constant.ErrInactiveAccount)
	}

	if from.Balance.LessThan(txn.Amount) {
		return fmt.Errorf(
			"source account %s balance %s cannot cover %s: %w",
			txn.FromAccount, from.Balance, txn.Amount, constant.ErrInsufficientFunds,
		)
	}

	return nil
}

// compensate re-deposits the already-withdrawn amount into the source
// account, then records the failure. If the compensation itself fails the
// transaction is flagged for manual reconciliation with the distinct
// CompensationFailed reason; it is never silently lost.
func (c *Coordinator) compensate(ctx context.Context, txn *Transaction, cause error) (*Transaction, error) {
	c.logger.Warnf("transfer %s: deposit failed, compensating withdraw on %s: %v",
		txn.TransactionID, txn.FromAccount, cause)

	memo := fmt.Sprintf("Compensation for %s", txn.TransactionID)

	compErr := c.withRetry(ctx, func(ctx context.Context) error {
		_, derr := c.ledger.Deposit(ctx, txn.FromAccount, txn.Amount, memo)
		return derr
	})
	if compErr != nil {
		c.logger.Errorf("transfer %s: compensation failed, manual reconciliation required: %v",
			txn.TransactionID, compErr)

		return c.settleFailed(ctx, txn, constant.ErrCompensationFailed, true)
	}

	return c.fail(ctx, txn, cause)
}

// fail records a terminal FAILED outcome with a human-readable reason.
func (c *Coordinator) fail(ctx context.Context, txn *Transaction, cause error) (*Transaction, error) {
	return c.settleFailed(ctx, txn, cause, false)
}

func (c *Coordinator) settleFailed(ctx context.Context, txn *Transaction, cause error, reconcile bool) (*Transaction, error) {
	reason := reasonFor(cause)

	settled, err := c.store.Settle(ctx, txn.TransactionID, StatusFailed, reason, reconcile, c.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("settle failed transaction %s: %w", txn.TransactionID, err)
	}

	c.logger.Warnf("transfer failed: %s: %s", settled.TransactionID, settled.Reason)

	return settled, nil
}

// emit publishes the completed fact. Publishing is at-most-once and
// fire-and-forget: a failure is logged and swallowed, never unwinding the
// already-committed transaction.
func (c *Coordinator) emit(ctx context.Context, txn *Transaction) {
	timestamp := txn.CreatedAt
	if txn.ProcessedAt != nil {
		timestamp = *txn.ProcessedAt
	}

	fact := event.TransferCompleted{
		TransactionID: txn.TransactionID,
		FromAccount:   txn.FromAccount,
		ToAccount:     txn.ToAccount,
		Amount:        txn.Amount,
		Type:          txn.Type,
		Status:        string(txn.Status),
		Timestamp:     timestamp,
	}

	if err := c.emitter.EmitTransferCompleted(ctx, fact); err != nil {
		c.logger.Errorf("publish transfer-completed %s: %v", txn.TransactionID, err)
	}
}

// withRetry applies the bounded backoff policy to transient failures only.
func (c *Coordinator) withRetry(ctx context.Context, attempt func(ctx context.Context) error) error {
	return c.retry.Do(ctx, attempt, retryable)
}

// retryable reports whether the coordinator may try the operation again.
// External-call timeouts count as unavailable upstreams.
func retryable(err error) bool {
	return errors.Is(err, constant.ErrConcurrencyConflict) ||
		errors.Is(err, constant.ErrUpstreamUnavailable) ||
		errors.Is(err, context.DeadlineExceeded)
}

// reasonFor maps a cause to the human-readable reason stored on the
// transaction. Deadline expiries read as unavailable upstreams, the same
// way the retry loop classifies them.
func reasonFor(cause error) string {
	if errors.Is(cause, context.DeadlineExceeded) {
		return bankhub.ValidateBusinessError(constant.ErrUpstreamUnavailable, "transaction").Error()
	}

	for _, sentinel := range []error{
		constant.ErrValidation,
		constant.ErrAccountNotFound,
		constant.ErrInactiveAccount,
		constant.ErrInsufficientFunds,
		constant.ErrConcurrencyConflict,
		constant.ErrUpstreamUnavailable,
		constant.ErrCompensationFailed,
	} {
		if errors.Is(cause, sentinel) {
			return bankhub.ValidateBusinessError(sentinel, "transaction").Error()
		}
	}

	return cause.Error()
}
