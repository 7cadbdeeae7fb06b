package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// Handler reacts to one event.  A returned error rejects the delivery.
type Handler func(ctx context.Context, ev ReservationChangedEvent) error

// Consume connects to the broker at url, binds a private queue to the
// fanout exchange and hands every delivery to h.  Broken connections are
// redialled with exponential backoff and a fresh queue.  Events published
// while disconnected are missed.  It returns only when ctx is done.
func Consume(ctx context.Context, url, exchange string, h Handler) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn().Err(err).Dur("retry_in", backoff).Msg("event consumer: dial failed")
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, exchange, h)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn().Err(err).Msg("event consumer: consume loop ended, reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, exchange string, h Handler) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn().Err(err).Msg("event consumer: set QoS failed")
	}
	queue, err := bindInstanceQueue(ch, exchange)
	if err != nil {
		return err
	}
	msgs, err := ch.Consume(queue, "", false, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	log.Info().Str("exchange", exchange).Str("queue", queue).Msg("event consumer started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := HandleMessage(ctx, d.Body, h); err != nil {
				log.Error().Err(err).Msg("event consumer: handle message failed")
				_ = d.Nack(false, false) // no requeue, a poison message would loop
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// HandleMessage decodes one delivery body and passes it to h.
func HandleMessage(ctx context.Context, body []byte, h Handler) error {
	var ev ReservationChangedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.OrderID == "" {
		return errors.New("event without order_id")
	}
	log.Debug().
		Str("event_id", ev.EventID).
		Str("order_id", ev.OrderID).
		Str("action", string(ev.Action)).
		Msg("reservation changed")
	return h(ctx, ev)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
