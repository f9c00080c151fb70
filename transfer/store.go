package transfer

import (
	"context"
	"time"
)

// Store defines persistence operations for transactions.
//
// Begin and Settle are guarded transitions, not plain writes: Begin moves
// PENDING → PROCESSING under compare-and-swap and is the saga's idempotency
// boundary, so a second Begin on the same transaction loses with
// constant.ErrAlreadyProcessing and mutates nothing. Settle moves
// PROCESSING → COMPLETED/FAILED and stamps the processed-at time.
type Store interface {
	Create(ctx context.Context, txn *Transaction) error
	GetByTransactionID(ctx context.Context, transactionID string) (*Transaction, error)
	ExistsByTransactionID(ctx context.Context, transactionID string) (bool, error)
	Begin(ctx context.Context, transactionID string) (*Transaction, error)
	Settle(ctx context.Context, transactionID string, status Status, reason string, reconcile bool, processedAt time.Time) (*Transaction, error)
	Cancel(ctx context.Context, transactionID string) (*Transaction, error)
	ListByUser(ctx context.Context, userID string) ([]*Transaction, error)
	ListByAccount(ctx context.Context, accountNumber string) ([]*Transaction, error)
}
