package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/lockstake/staking-ledger/internal/config"
	"github.com/lockstake/staking-ledger/internal/types"
)

// QueueManager publishes ledger events to a durable topic exchange,
// routing key = event type, so indexing/UI consumers can bind to the
// subset they care about.
type QueueManager struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// envelope is the wire format of one published event.
type envelope struct {
	EventID   string          `json:"event_id"`
	EventType types.EventType `json:"event_type"`
	EmittedAt int64           `json:"emitted_at"`
	Payload   any             `json:"payload"`
}

func NewQueueManager(cfg *config.QueueConfig) (*QueueManager, error) {
	conn, err := amqp.Dial(cfg.AmqpURI())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to queue: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open queue channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		cfg.Exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	return &QueueManager{
		conn:     conn,
		channel:  channel,
		exchange: cfg.Exchange,
	}, nil
}

func (qm *QueueManager) Push(ctx context.Context, eventType types.EventType, payload any) error {
	now := time.Now()
	env := envelope{
		EventID:   uuid.New().String(),
		EventType: eventType,
		EmittedAt: now.Unix(),
		Payload:   payload,
	}

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", eventType, err)
	}

	err = qm.channel.PublishWithContext(
		ctx,
		qm.exchange,
		eventType.String(),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			MessageId:   env.EventID,
			Timestamp:   now,
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event %s: %w", eventType, err)
	}

	return nil
}

// Shutdown gracefully stops the interaction with the queue, ensuring all resources are properly released.
func (qm *QueueManager) Shutdown() {
	log.Info().Msg("Shutting down queue manager")

	if err := qm.channel.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close queue channel")
	}
	if err := qm.conn.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close queue connection")
	}
}
