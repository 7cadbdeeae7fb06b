// Package viewmodel derives render-ready dashboard state from a reservation
// snapshot.  Everything here is pure: inputs are a snapshot, the current
// filters and an explicit clock reading, outputs are plain values.
package viewmodel

import (
	"time"

	"github.com/iliyamo/reservation-dashboard/internal/model"
)

// IsExpired reports whether r has started by now.  The start instant itself
// counts as expired.  A record without a start time never expires.
func IsExpired(r model.Reservation, now time.Time) bool {
	if r.TimeFrom.IsZero() {
		return false
	}
	return !r.TimeFrom.After(now)
}

// PaymentBucket returns model.PaymentPaid or model.PaymentPending.
func PaymentBucket(r model.Reservation) model.PaymentStatus {
	return r.Payed.Bucket()
}

// BelongsToDay reports whether r is booked on day.  The logical Day field
// wins; only records without one fall back to the start instant, read in loc.
func BelongsToDay(r model.Reservation, day model.Date, loc *time.Location) bool {
	if !r.Day.IsZero() {
		return r.Day == day
	}
	if r.TimeFrom.IsZero() {
		return false
	}
	return model.DateOf(r.TimeFrom, loc) == day
}
