package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultExchange is the fanout exchange carrying ReservationChangedEvent.
// Every dashboard instance binds its own queue to it, so each change
// reaches all of them.
const DefaultExchange = "reservation_events"

// ExchangeDeclarer is the part of *amqp.Channel a publisher needs to set up
// the exchange.
type ExchangeDeclarer interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
}

// queueBinder is the part of *amqp.Channel a consumer needs.
type queueBinder interface {
	ExchangeDeclarer
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
}

// DeclareExchange declares the durable fanout exchange.
func DeclareExchange(ch ExchangeDeclarer, exchange string) error {
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		return fmt.Errorf("exchange declare: %w", err)
	}
	return nil
}

// bindInstanceQueue declares a server-named, exclusive, auto-delete queue
// bound to exchange and returns its name.  It disappears with the
// connection.
func bindInstanceQueue(ch queueBinder, exchange string) (string, error) {
	if err := DeclareExchange(ch, exchange); err != nil {
		return "", err
	}
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return "", fmt.Errorf("queue declare: %w", err)
	}
	if err := ch.QueueBind(q.Name, "", exchange, false, nil); err != nil {
		return "", fmt.Errorf("queue bind: %w", err)
	}
	return q.Name, nil
}
