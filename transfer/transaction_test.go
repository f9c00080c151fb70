package transfer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ---------------------------------------------------------------------------
// Status machine -- exhaustive transition matrix
// ---------------------------------------------------------------------------

func TestStatus_CanTransitionTo(t *testing.T) {
	t.Parallel()

	statuses := []Status{StatusPending, StatusProcessing, StatusCompleted, StatusFailed, StatusCancelled}

	legal := map[Status][]Status{
		StatusPending:    {StatusProcessing, StatusCancelled},
		StatusProcessing: {StatusCompleted, StatusFailed},
		StatusCompleted:  {},
		StatusFailed:     {},
		StatusCancelled:  {},
	}

	for _, from := range statuses {
		for _, to := range statuses {
			want := false

			for _, allowed := range legal[from] {
				if to == allowed {
					want = true
				}
			}

			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestStatus_CanTransitionTo_UnknownStatus(t *testing.T) {
	t.Parallel()

	assert.False(t, Status("EXPLODED").CanTransitionTo(StatusProcessing))
	assert.False(t, StatusPending.CanTransitionTo(Status("EXPLODED")))
}

func TestStatus_Terminal(t *testing.T) {
	t.Parallel()

	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusProcessing.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.True(t, StatusCancelled.Terminal())
}

func TestTransaction_Clone_IsDeep(t *testing.T) {
	t.Parallel()

	original := &Transaction{TransactionID: "TXN0000000001", Status: StatusPending}

	clone := original.Clone()
	clone.Status = StatusCancelled

	assert.Equal(t, StatusPending, original.Status)
	assert.Nil(t, clone.ProcessedAt)
}
