package bankhub

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	constant "github.com/Dhruv-9623/Bank-Hub/constant"
)

func TestValidateBusinessError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{name: "validation", err: constant.ErrValidation, wantCode: "0001"},
		{name: "account not found", err: constant.ErrAccountNotFound, wantCode: "0002"},
		{name: "transaction not found", err: constant.ErrTransactionNotFound, wantCode: "0003"},
		{name: "inactive account", err: constant.ErrInactiveAccount, wantCode: "0004"},
		{name: "insufficient funds", err: constant.ErrInsufficientFunds, wantCode: "0005"},
		{name: "concurrency conflict", err: constant.ErrConcurrencyConflict, wantCode: "0006"},
		{name: "generation exhausted", err: constant.ErrGenerationExhausted, wantCode: "0007"},
		{name: "upstream unavailable", err: constant.ErrUpstreamUnavailable, wantCode: "0008"},
		{name: "already processing", err: constant.ErrAlreadyProcessing, wantCode: "0009"},
		{name: "compensation failed", err: constant.ErrCompensationFailed, wantCode: "0010"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mapped := ValidateBusinessError(tt.err, "transaction")

			var resp Response
			require.True(t, errors.As(mapped, &resp))
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.Equal(t, "transaction", resp.EntityType)
			assert.NotEmpty(t, resp.Title)
			assert.NotEmpty(t, resp.Message)

			// The sentinel must stay reachable for errors.Is after mapping.
			assert.True(t, errors.Is(mapped, tt.err))
		})
	}
}

func TestValidateBusinessError_UnknownErrorPassesThrough(t *testing.T) {
	t.Parallel()

	unknown := errors.New("disk on fire")
	assert.Equal(t, unknown, ValidateBusinessError(unknown, "account"))
}

func TestResponse_Error(t *testing.T) {
	t.Parallel()

	resp := Response{Message: "something went wrong"}
	assert.Equal(t, "something went wrong", resp.Error())
}
