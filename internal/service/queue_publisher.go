package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/cinemavault/internal/queue"
)

// EventPublisher delivers rental events.  Publishing is best effort: the
// ledger logs a failure and keeps the recorded rental.
type EventPublisher interface {
	PublishRental(ctx context.Context, ev queue.RentalEvent) error
}

// NoopPublisher drops every event.  Used when RabbitMQ is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishRental(context.Context, queue.RentalEvent) error { return nil }

// RabbitPublisher publishes rental events to a durable RabbitMQ queue.
// A connection is dialed per event; rental writes are rare.
type RabbitPublisher struct {
	URL   string
	Queue string
}

// PublishRental publishes ev to the configured queue.  Any error is
// logged and returned so the caller can choose to ignore it.  Messages
// are marked as persistent.
func (p RabbitPublisher) PublishRental(ctx context.Context, ev queue.RentalEvent) error {
	logger := log.With().Str("component", "queue").Str("rental_id", ev.RentalID).Logger()
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		logger.Warn().Err(err).Msg("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.Warn().Err(err).Msg("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(p.Queue, true, false, false, false, nil); err != nil {
		logger.Warn().Err(err).Msg("rabbitmq: queue declare failed")
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Type,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.Queue, false, false, pub); err != nil {
		logger.Warn().Err(err).Msg("rabbitmq: publish failed")
		return err
	}
	return nil
}
