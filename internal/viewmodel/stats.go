package viewmodel

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/reservation-dashboard/internal/model"
)

// PendingEntry is an unpaid reservation with its display amount.
type PendingEntry struct {
	Reservation model.Reservation `json:"reservation"`
	Amount      decimal.Decimal   `json:"amount"`
}

// DayStats summarises one day of a snapshot.
type DayStats struct {
	Date            model.Date      `json:"date"`
	Total           int             `json:"total"`
	ActiveBookings  int             `json:"active_bookings"`
	ExpiredBookings int             `json:"expired_bookings"`
	PendingCount    int             `json:"pending_count"`
	PendingAmount   decimal.Decimal `json:"pending_amount"`
	Pending         []PendingEntry  `json:"pending"`
	Currency        string          `json:"currency,omitempty"`
}

// Amount is the display price of r: booked half-hour units times unitPrice.
func Amount(r model.Reservation, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(r.Period)))
}

// Aggregate reduces the reservations of rs booked on day.  Pending keeps
// the input order.
func Aggregate(rs []model.Reservation, day model.Date, loc *time.Location, now time.Time, unitPrice decimal.Decimal) DayStats {
	st := DayStats{Date: day, Pending: []PendingEntry{}, PendingAmount: decimal.Zero}
	for _, r := range rs {
		if !BelongsToDay(r, day, loc) {
			continue
		}
		st.Total++
		if IsExpired(r, now) {
			st.ExpiredBookings++
		} else {
			st.ActiveBookings++
		}
		if PaymentBucket(r) == model.PaymentPending {
			amount := Amount(r, unitPrice)
			st.Pending = append(st.Pending, PendingEntry{Reservation: r, Amount: amount})
			st.PendingAmount = st.PendingAmount.Add(amount)
		}
	}
	st.PendingCount = len(st.Pending)
	return st
}
