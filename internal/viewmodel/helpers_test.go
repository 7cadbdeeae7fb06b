package viewmodel

import (
	"time"

	"github.com/iliyamo/reservation-dashboard/internal/model"
)

var testDay = model.NewDate(2024, time.January, 1)

func at(hour, minute int) time.Time {
	return time.Date(2024, time.January, 1, hour, minute, 0, 0, time.UTC)
}

func booking(id string, place int, from, to time.Time, payed model.PaymentStatus) model.Reservation {
	return model.Reservation{
		OrderID:  id,
		Name:     id,
		Place:    place,
		Day:      model.DateOf(from, time.UTC),
		TimeFrom: from,
		TimeTo:   to,
		Payed:    payed,
		Period:   int(to.Sub(from) / (30 * time.Minute)),
	}
}
