package event

import (
	"context"

	"github.com/Dhruv-9623/Bank-Hub/log"
)

// LogEmitter records facts on the logger instead of a broker. It backs
// tests and deployments without messaging infrastructure.
type LogEmitter struct {
	logger log.Logger
}

// Compile-time assertion: *LogEmitter implements Emitter.
var _ Emitter = (*LogEmitter)(nil)

// NewLogEmitter creates an emitter that only logs.
func NewLogEmitter(logger log.Logger) *LogEmitter {
	if logger == nil {
		logger = log.NewNop()
	}

	return &LogEmitter{logger: logger}
}

// EmitTransferCompleted logs the fact and always succeeds.
func (e *LogEmitter) EmitTransferCompleted(_ context.Context, fact TransferCompleted) error {
	e.logger.Infof("transfer completed: %s %s from %s to %s",
		fact.TransactionID, fact.Amount, fact.FromAccount, fact.ToAccount)

	return nil
}
