package bankhub

import (
	constant "github.com/Dhruv-9623/Bank-Hub/constant"
)

// Response represents a business error with code, title, and message.
type Response struct {
	EntityType string `json:"entityType,omitempty"`
	Title      string `json:"title,omitempty"`
	Message    string `json:"message,omitempty"`
	Code       string `json:"code,omitempty"`
	Err        error  `json:"err,omitempty"`
}

func (e Response) Error() string {
	return e.Message
}

// Unwrap exposes the underlying sentinel so errors.Is keeps working after
// the error has been mapped.
func (e Response) Unwrap() error {
	return e.Err
}

// ValidateBusinessError maps a sentinel error from the constant package to a
// business error with code, title, and human-readable message. Unknown
// errors pass through unchanged.
func ValidateBusinessError(err error, entityType string, _ ...any) error {
	errorMap := map[error]error{
		constant.ErrValidation: Response{
			EntityType: entityType,
			Code:       "0001",
			Title:      "Validation Error",
			Message:    "The request is invalid. Please review the provided values and try again.",
			Err:        constant.ErrValidation,
		},
		constant.ErrAccountNotFound: Response{
			EntityType: entityType,
			Code:       "0002",
			Title:      "Account Not Found",
			Message:    "The referenced account does not exist in our records. Please verify the account number and try again.",
			Err:        constant.ErrAccountNotFound,
		},
		constant.ErrTransactionNotFound: Response{
			EntityType: entityType,
			Code:       "0003",
			Title:      "Transaction Not Found",
			Message:    "The referenced transaction does not exist in our records. Please verify the transaction id and try again.",
			Err:        constant.ErrTransactionNotFound,
		},
		constant.ErrInactiveAccount: Response{
			EntityType: entityType,
			Code:       "0004",
			Title:      "Inactive Account",
			Message:    "One or more accounts involved are inactive and cannot take part in transactions. Reactivate the account(s) and try again.",
			Err:        constant.ErrInactiveAccount,
		},
		constant.ErrInsufficientFunds: Response{
			EntityType: entityType,
			Code:       "0005",
			Title:      "Insufficient Funds",
			Message:    "The transfer could not be completed due to insufficient funds in the source account. Please add sufficient funds and try again.",
			Err:        constant.ErrInsufficientFunds,
		},
		constant.ErrConcurrencyConflict: Response{
			EntityType: entityType,
			Code:       "0006",
			Title:      "Concurrency Conflict",
			Message:    "The account was modified by a concurrent operation. The operation was retried and still could not be applied.",
			Err:        constant.ErrConcurrencyConflict,
		},
		constant.ErrGenerationExhausted: Response{
			EntityType: entityType,
			Code:       "0007",
			Title:      "Identifier Generation Exhausted",
			Message:    "A unique identifier could not be generated within the attempt budget. Please try again later.",
			Err:        constant.ErrGenerationExhausted,
		},
		constant.ErrUpstreamUnavailable: Response{
			EntityType: entityType,
			Code:       "0008",
			Title:      "Upstream Unavailable",
			Message:    "A dependency required to complete the operation is currently unavailable. Please try again later.",
			Err:        constant.ErrUpstreamUnavailable,
		},
		constant.ErrAlreadyProcessing: Response{
			EntityType: entityType,
			Code:       "0009",
			Title:      "Transaction Already Processing",
			Message:    "This transaction is already being processed. A transaction can only be executed once.",
			Err:        constant.ErrAlreadyProcessing,
		},
		constant.ErrCompensationFailed: Response{
			EntityType: entityType,
			Code:       "0010",
			Title:      "Compensation Failed",
			Message:    "The transfer failed after the debit was applied and the compensating credit could not be completed. The transaction is flagged for manual reconciliation.",
			Err:        constant.ErrCompensationFailed,
		},
	}
	if mappedError, found := errorMap[err]; found {
		return mappedError
	}

	return err
}
