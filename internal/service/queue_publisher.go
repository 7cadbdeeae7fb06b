package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/reservation-dashboard/internal/queue"
)

// Publisher announces reservation changes.
type Publisher interface {
	Publish(ctx context.Context, ev queue.ReservationChangedEvent) error
}

// AMQPPublisher publishes to a RabbitMQ fanout exchange, so every
// instance's consumer receives each event.  Each call dials its own
// connection; mutations are rare.
type AMQPPublisher struct {
	url      string
	exchange string
}

func NewAMQPPublisher(url, exchange string) *AMQPPublisher {
	return &AMQPPublisher{url: url, exchange: exchange}
}

// amqpChannel is the part of *amqp.Channel Publish uses.
type amqpChannel interface {
	queue.ExchangeDeclarer
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publish sends ev as a persistent JSON message.
func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.ReservationChangedEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()
	return p.publishOn(ctx, ch, ev)
}

func (p *AMQPPublisher) publishOn(ctx context.Context, ch amqpChannel, ev queue.ReservationChangedEvent) error {
	if err := queue.DeclareExchange(ch, p.exchange); err != nil {
		return fmt.Errorf("rabbitmq: %w", err)
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.EventID,
		Timestamp:    time.Now().UTC(),
		Type:         "reservation.changed",
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, p.exchange, "", false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}
