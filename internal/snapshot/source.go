// Package snapshot holds the latest accepted reservation list for the
// selected date and guards it against out-of-order fetch completions.
package snapshot

import (
	"context"
	"errors"

	"github.com/iliyamo/reservation-dashboard/internal/model"
)

// ErrNotFound is returned by a Source when an order id does not exist.
var ErrNotFound = errors.New("reservation not found")

// ErrUnsupported is returned by a Source for operations it cannot serve.
var ErrUnsupported = errors.New("operation not supported by source")

// Source is the reservation backend.  Implementations are the REST client
// and the MySQL repository.
type Source interface {
	ListByDay(ctx context.Context, day model.Date) ([]model.Reservation, error)
	Update(ctx context.Context, r model.Reservation) (model.Reservation, error)
	Delete(ctx context.Context, orderID string) error
	GlobalStats(ctx context.Context) (model.GlobalStats, error)
}
