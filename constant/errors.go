package constant

import "errors"

var (
	// ErrValidation indicates the request failed pre-flight validation.
	ErrValidation = errors.New("validation failed")
	// ErrAccountNotFound indicates no account exists for the given number.
	ErrAccountNotFound = errors.New("account not found")
	// ErrTransactionNotFound indicates no transaction exists for the given id.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrInactiveAccount indicates the account is deactivated and cannot transact.
	ErrInactiveAccount = errors.New("account is inactive")
	// ErrInsufficientFunds indicates the source balance cannot cover the amount.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrConcurrencyConflict indicates an optimistic write lost to a concurrent
	// mutation of the same record. Retryable.
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	// ErrGenerationExhausted indicates the identifier generator ran out of
	// attempts without finding a free candidate.
	ErrGenerationExhausted = errors.New("identifier generation exhausted")
	// ErrUpstreamUnavailable indicates a dependency was unreachable or timed
	// out. Retryable.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrAlreadyProcessing indicates the transaction left PENDING already;
	// a second Execute on the same transaction is rejected here.
	ErrAlreadyProcessing = errors.New("transaction already processing")
	// ErrCompensationFailed indicates a withdraw was committed but both the
	// deposit and the compensating re-deposit failed. The transaction must be
	// reconciled manually.
	ErrCompensationFailed = errors.New("compensation failed")
)
