package service

import (
	"context"
	"time"

	"github.com/iliyamo/reservation-dashboard/internal/model"
	"github.com/iliyamo/reservation-dashboard/internal/snapshot"
	"github.com/iliyamo/reservation-dashboard/internal/viewmodel"
)

// Availability is the free time of one day.
type Availability struct {
	Date    model.Date                    `json:"date"`
	Minutes int                           `json:"minutes"`
	Places  []viewmodel.PlaceAvailability `json:"places"`
	Slots   []viewmodel.SlotOffer         `json:"slots"`
}

// Days answers stateless per-day queries straight from the source.
type Days struct {
	src  snapshot.Source
	opts Options
	now  func() time.Time
}

func NewDays(src snapshot.Source, opts Options) *Days {
	return &Days{src: src, opts: opts, now: time.Now}
}

func (d *Days) fetch(ctx context.Context, day model.Date) ([]model.Reservation, error) {
	rs, err := d.src.ListByDay(ctx, day)
	if err != nil {
		return nil, unavailable("list reservations for "+day.String(), err)
	}
	return rs, nil
}

// View builds the view for s without touching any session.
func (d *Days) View(ctx context.Context, s viewmodel.ViewState) (viewmodel.View, error) {
	rs, err := d.fetch(ctx, s.Date)
	if err != nil {
		return viewmodel.View{}, err
	}
	in := viewmodel.Input{Date: s.Date, Reservations: rs}
	return viewmodel.Build(s, in, d.opts.view(), d.now()), nil
}

// Stats aggregates one day.
func (d *Days) Stats(ctx context.Context, day model.Date) (viewmodel.DayStats, error) {
	rs, err := d.fetch(ctx, day)
	if err != nil {
		return viewmodel.DayStats{}, err
	}
	st := viewmodel.Aggregate(rs, day, d.opts.Mapper.Location(), d.now(), d.opts.UnitPrice)
	st.Currency = d.opts.Currency
	return st, nil
}

// Availability lists the free gaps of day and the start times at which a
// booking of the given length fits.  Start times already past are left out;
// a day before today offers none.
func (d *Days) Availability(ctx context.Context, day model.Date, length time.Duration) (Availability, error) {
	rs, err := d.fetch(ctx, day)
	if err != nil {
		return Availability{}, err
	}
	if length <= 0 {
		length = viewmodel.SlotMinutes * time.Minute
	}
	loc := d.opts.Mapper.Location()
	now := d.now()
	gaps := viewmodel.FreeGaps(rs, day, d.opts.Places, d.opts.Mapper.Window(), loc, d.opts.MinGap)
	slots := []viewmodel.SlotOffer{}
	if !day.Before(d.opts.today(now)) {
		slots = viewmodel.FreeSlots(gaps, length, now, loc)
	}
	return Availability{
		Date:    day,
		Minutes: int(length / time.Minute),
		Places:  gaps,
		Slots:   slots,
	}, nil
}

// GlobalStats passes the legacy counters through.
func (d *Days) GlobalStats(ctx context.Context) (model.GlobalStats, error) {
	st, err := d.src.GlobalStats(ctx)
	if err != nil {
		return model.GlobalStats{}, unavailable("global stats", err)
	}
	return st, nil
}
