// Package service wires the pure view-model engine to a reservation source:
// a stateful dashboard Board, stateless per-day queries and the refresh
// scheduler.
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/reservation-dashboard/internal/model"
	"github.com/iliyamo/reservation-dashboard/internal/viewmodel"
)

// ErrUnavailable wraps every failure to read from the reservation source.
var ErrUnavailable = errors.New("reservation source unavailable")

// Options are the presentation constants shared by Board and Days.
type Options struct {
	Mapper    *viewmodel.Mapper
	UnitPrice decimal.Decimal
	Currency  string
	Places    []int
	MinGap    time.Duration
}

func (o Options) view() viewmodel.Options {
	return viewmodel.Options{Mapper: o.Mapper, UnitPrice: o.UnitPrice, Currency: o.Currency}
}

func (o Options) today(now time.Time) model.Date {
	return model.DateOf(now, o.Mapper.Location())
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}
