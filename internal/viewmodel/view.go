package viewmodel

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/reservation-dashboard/internal/model"
)

// Status describes what the view is able to show.
type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusEmpty   Status = "empty"
	StatusError   Status = "error"
)

// Input is the snapshot the view is built from.  Date is the day the
// snapshot was fetched for; a snapshot for another day is never shown.
type Input struct {
	Date         model.Date
	Reservations []model.Reservation
	Loading      bool
	Err          error
}

// Options carry the presentation constants.  Currency labels every amount.
type Options struct {
	Mapper    *Mapper
	UnitPrice decimal.Decimal
	Currency  string
}

// ListItem is one row of the reservation table.
type ListItem struct {
	Reservation model.Reservation `json:"reservation"`
	Expired     bool              `json:"expired"`
	Status      string            `json:"status"`
	Amount      decimal.Decimal   `json:"amount"`
}

// View is the render-ready dashboard.
type View struct {
	State        ViewState         `json:"state"`
	Status       Status            `json:"status"`
	Error        string            `json:"error,omitempty"`
	Calendar     CalendarGrid      `json:"calendar"`
	Items        []ListItem        `json:"items"`
	Places       []int             `json:"places"`
	Window       Window            `json:"window"`
	Axis         []string          `json:"axis,omitempty"`
	ColumnHeight float64           `json:"column_height,omitempty"`
	Timetable    []TimetableColumn `json:"timetable,omitempty"`
	Timeline     []TimelineRow     `json:"timeline,omitempty"`
	Skipped      []string          `json:"skipped,omitempty"`
	Stats        DayStats          `json:"stats"`
	Currency     string            `json:"currency,omitempty"`
	GeneratedAt  time.Time         `json:"generated_at"`
}

// Build recomputes the whole view: filter, then geometry, then stats.
func Build(s ViewState, in Input, opts Options, now time.Time) View {
	loc := opts.Mapper.Location()
	v := View{
		State:       s,
		Calendar:    BuildCalendar(s.Date, model.DateOf(now, loc)),
		Items:       []ListItem{},
		Places:      []int{},
		Window:      opts.Mapper.Window(),
		Stats:       DayStats{Date: s.Date, Pending: []PendingEntry{}, PendingAmount: decimal.Zero, Currency: opts.Currency},
		Currency:    opts.Currency,
		GeneratedAt: now,
	}

	switch {
	case in.Loading || in.Date != s.Date:
		v.Status = StatusLoading
		return v
	case in.Err != nil:
		v.Status = StatusError
		v.Error = "no data available for this date"
		return v
	}

	day := s.Date
	c := s.Criteria()
	c.Day, c.Location = &day, loc
	visible := Filter(in.Reservations, c, now)

	for _, r := range visible {
		v.Items = append(v.Items, ListItem{
			Reservation: r,
			Expired:     IsExpired(r, now),
			Status:      itemStatus(r, now),
			Amount:      Amount(r, opts.UnitPrice),
		})
	}
	v.Places = Places(visible)
	v.Stats = Aggregate(in.Reservations, day, loc, now, opts.UnitPrice)
	v.Stats.Currency = opts.Currency

	if s.Mode == ModeTimetable {
		v.Axis = v.Window.SlotLabels()
		v.ColumnHeight = opts.Mapper.ColumnHeight()
		v.Timetable, v.Skipped = opts.Mapper.Timetable(visible)
		v.Timeline, _ = opts.Mapper.Horizontal(visible)
	}

	if len(v.Items) == 0 {
		v.Status = StatusEmpty
	} else {
		v.Status = StatusReady
	}
	return v
}

func itemStatus(r model.Reservation, now time.Time) string {
	switch {
	case r.Invalid:
		return "invalid"
	case IsExpired(r, now):
		return "expired"
	}
	return PaymentBucket(r).String()
}
