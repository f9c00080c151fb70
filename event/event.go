package event

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TransferCompletedKey is the routing key carrying transfer-completed facts.
// Failed transfers are deliberately not announced on this channel; if
// failure visibility is ever needed it gets its own explicitly named key.
const TransferCompletedKey = "transfer.completed"

// TransferCompleted is the immutable fact published for a completed
// transfer. The payload is flat key/value on purpose so consumers on any
// stack can read it.
type TransferCompleted struct {
	TransactionID string          `json:"transactionId"`
	FromAccount   string          `json:"fromAccount"`
	ToAccount     string          `json:"toAccount"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	Status        string          `json:"status"`
	Timestamp     time.Time       `json:"timestamp"`
}

// Emitter publishes transfer-completed facts.
type Emitter interface {
	EmitTransferCompleted(ctx context.Context, fact TransferCompleted) error
}
