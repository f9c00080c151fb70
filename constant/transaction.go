package constant

const (
	// PENDING identifies transactions recorded but not yet executed.
	PENDING = "PENDING"
	// PROCESSING identifies transactions with balance updates in flight.
	PROCESSING = "PROCESSING"
	// COMPLETED identifies transactions whose both legs committed.
	COMPLETED = "COMPLETED"
	// FAILED identifies transactions that terminated without moving money,
	// or whose partial movement was compensated.
	FAILED = "FAILED"
	// CANCELLED identifies transactions withdrawn administratively before
	// execution started.
	CANCELLED = "CANCELLED"

	// TRANSFER identifies account-to-account transfers.
	TRANSFER = "TRANSFER"
	// DEPOSIT identifies single-leg credits.
	DEPOSIT = "DEPOSIT"
	// WITHDRAWAL identifies single-leg debits.
	WITHDRAWAL = "WITHDRAWAL"
)
