package account

import (
	"context"
)

// Store defines persistence operations for accounts.
//
// Update is the optimistic write-commit point: the write succeeds only if
// the stored version still equals acct.Version as read, and increments the
// version on success. A lost race surfaces as constant.ErrConcurrencyConflict
// and leaves the stored record untouched.
type Store interface {
	Create(ctx context.Context, acct *Account) error
	GetByNumber(ctx context.Context, number string) (*Account, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	// ListByUser returns the user's accounts in opening order.
	ListByUser(ctx context.Context, userID string) ([]*Account, error)
	Update(ctx context.Context, acct *Account) error
	Deactivate(ctx context.Context, number string) error
}
