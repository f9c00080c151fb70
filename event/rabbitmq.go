package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Dhruv-9623/Bank-Hub/log"
)

// DefaultExchange is the topic exchange transfer facts are published to.
const DefaultExchange = "bankhub.transactions"

// Channel is the subset of the AMQP channel used by the emitter. Narrowed
// so tests can substitute a fake without a broker.
type Channel interface {
	PublishWithContext(
		ctx context.Context,
		exchange, key string,
		mandatory, immediate bool,
		msg amqp.Publishing,
	) error
}

// RabbitMQEmitter publishes transfer-completed facts to a topic exchange.
//
// Delivery is at-most-once: there is no outbox and no publisher confirm
// loop here. A crash between transaction commit and publish loses the
// event, which the transfer coordinator accepts by contract. Upgrading to
// an outbox-with-retry is a consumer-visible change and is intentionally
// not done in this package.
type RabbitMQEmitter struct {
	channel  Channel
	exchange string
	logger   log.Logger
}

// Compile-time assertion: *RabbitMQEmitter implements Emitter.
var _ Emitter = (*RabbitMQEmitter)(nil)

// RabbitMQOption configures a RabbitMQEmitter.
type RabbitMQOption func(*RabbitMQEmitter)

// WithExchange overrides the target exchange.
func WithExchange(exchange string) RabbitMQOption {
	return func(e *RabbitMQEmitter) {
		if exchange != "" {
			e.exchange = exchange
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger log.Logger) RabbitMQOption {
	return func(e *RabbitMQEmitter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewRabbitMQEmitter creates an emitter over an open AMQP channel.
func NewRabbitMQEmitter(channel Channel, opts ...RabbitMQOption) (*RabbitMQEmitter, error) {
	if channel == nil {
		return nil, fmt.Errorf("rabbitmq channel is required")
	}

	e := &RabbitMQEmitter{
		channel:  channel,
		exchange: DefaultExchange,
		logger:   log.NewNop(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	return e, nil
}

// EmitTransferCompleted publishes the fact as a persistent JSON message
// keyed by the transaction id.
func (e *RabbitMQEmitter) EmitTransferCompleted(ctx context.Context, fact TransferCompleted) error {
	body, err := json.Marshal(fact)
	if err != nil {
		return fmt.Errorf("marshal transfer-completed fact: %w", err)
	}

	err = e.channel.PublishWithContext(ctx, e.exchange, TransferCompletedKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    fact.TransactionID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish transfer-completed %s: %w", fact.TransactionID, err)
	}

	e.logger.Infof("published transfer-completed fact: %s", fact.TransactionID)

	return nil
}
