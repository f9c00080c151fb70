package transfer

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	constant "github.com/Dhruv-9623/Bank-Hub/constant"
)

// Status represents the lifecycle state of a transaction.
//
// Transitions:
//
//	PENDING → PROCESSING → {COMPLETED, FAILED}
//	PENDING → CANCELLED (administrative path only)
//
// No other transition is legal. COMPLETED, FAILED and CANCELLED are
// terminal; a terminal transaction is immutable.
type Status string

const (
	// StatusPending marks a transaction recorded but not yet executed.
	StatusPending Status = constant.PENDING
	// StatusProcessing marks a transaction with balance updates in flight.
	StatusProcessing Status = constant.PROCESSING
	// StatusCompleted marks a transaction whose both legs committed.
	StatusCompleted Status = constant.COMPLETED
	// StatusFailed marks a transaction that terminated without net money
	// movement, or whose partial movement was compensated.
	StatusFailed Status = constant.FAILED
	// StatusCancelled marks a transaction withdrawn before execution.
	StatusCancelled Status = constant.CANCELLED
)

// Terminal reports whether the status permits no further transitions.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	case StatusPending, StatusProcessing:
		return false
	default:
		return false
	}
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing || next == StatusCancelled
	case StatusProcessing:
		return next == StatusCompleted || next == StatusFailed
	case StatusCompleted, StatusFailed, StatusCancelled:
		return false
	default:
		return false
	}
}

// Transaction is the record of one transfer intent and its outcome. It is
// created once in PENDING and mutated only by the coordinator through the
// Store's guarded transitions.
type Transaction struct {
	ID            uuid.UUID
	TransactionID string
	FromAccount   string
	ToAccount     string
	Amount        decimal.Decimal
	Type          string
	Status        Status
	Description   string
	UserID        string
	// ReferenceNumber is human-facing and not guaranteed globally unique.
	ReferenceNumber string
	// Reason carries the human-readable failure reason on terminal FAILED.
	Reason string
	// ReconcileRequired is set when compensation itself failed and the
	// transaction needs manual reconciliation.
	ReconcileRequired bool
	CreatedAt         time.Time
	ProcessedAt       *time.Time
	Version           int64
}

// Clone returns a deep copy of the transaction.
func (t *Transaction) Clone() *Transaction {
	clone := *t

	if t.ProcessedAt != nil {
		processedAt := *t.ProcessedAt
		clone.ProcessedAt = &processedAt
	}

	return &clone
}
