package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is the ledger record for one account. It is owned exclusively by
// the Store; callers outside this package see Snapshots. Accounts are never
// physically deleted, only deactivated.
type Account struct {
	ID                uuid.UUID
	Number            string
	UserID            string
	Type              string
	Balance           decimal.Decimal
	Active            bool
	Version           int64
	CreatedAt         time.Time
	LastTransactionAt time.Time
}

// Snapshot is an immutable view of an account at a point in time.
type Snapshot struct {
	ID                uuid.UUID
	Number            string
	UserID            string
	Type              string
	Balance           decimal.Decimal
	Active            bool
	Version           int64
	CreatedAt         time.Time
	LastTransactionAt time.Time
}

// snapshot copies the account into an immutable view.
func (a *Account) snapshot() Snapshot {
	return Snapshot{
		ID:                a.ID,
		Number:            a.Number,
		UserID:            a.UserID,
		Type:              a.Type,
		Balance:           a.Balance,
		Active:            a.Active,
		Version:           a.Version,
		CreatedAt:         a.CreatedAt,
		LastTransactionAt: a.LastTransactionAt,
	}
}
