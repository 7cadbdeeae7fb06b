// Package queue defines the reservation change events exchanged over
// RabbitMQ and the consumer that reacts to them.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/reservation-dashboard/internal/model"
)

// Action names what happened to a reservation.
type Action string

const (
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// ReservationChangedEvent is published after a successful mutation so that
// other dashboard instances can evict cached views and refetch.  Day is
// zero when the reservation's day is unknown to the publisher.
type ReservationChangedEvent struct {
	EventID   string     `json:"event_id"`
	OrderID   string     `json:"order_id"`
	Action    Action     `json:"action"`
	Day       model.Date `json:"day"`
	Origin    string     `json:"origin,omitempty"`
	ChangedAt time.Time  `json:"changed_at"`
}

// NewReservationChanged stamps a fresh event id.
func NewReservationChanged(orderID string, action Action, day model.Date, at time.Time) ReservationChangedEvent {
	return ReservationChangedEvent{
		EventID:   uuid.NewString(),
		OrderID:   orderID,
		Action:    action,
		Day:       day,
		ChangedAt: at.UTC(),
	}
}
