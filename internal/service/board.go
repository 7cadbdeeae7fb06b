package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iliyamo/reservation-dashboard/internal/model"
	"github.com/iliyamo/reservation-dashboard/internal/queue"
	"github.com/iliyamo/reservation-dashboard/internal/snapshot"
	"github.com/iliyamo/reservation-dashboard/internal/viewmodel"
)

// Invalidator evicts cached responses of one day.
type Invalidator interface {
	InvalidateDay(ctx context.Context, day model.Date) error
}

// Hooks are the optional side effects of a mutation.
type Hooks struct {
	Publisher   Publisher
	Invalidator Invalidator
	// Origin tags published events so this instance can skip its own.
	Origin string
}

// Board is the dashboard session: one ViewState and the snapshot of its
// date.  Events are applied in arrival order; fetches they trigger run in
// the background and only the latest one may land.
type Board struct {
	loader *snapshot.Loader
	opts   Options
	hooks  Hooks
	now    func() time.Time

	mu    sync.Mutex
	state viewmodel.ViewState
}

// NewBoard starts on today's date in the business location.  Call Load to
// fetch the first snapshot.
func NewBoard(loader *snapshot.Loader, opts Options, hooks Hooks) *Board {
	b := &Board{loader: loader, opts: opts, hooks: hooks, now: time.Now}
	b.state = viewmodel.NewViewState(opts.today(b.now()))
	return b
}

// State returns the current view state.
func (b *Board) State() viewmodel.ViewState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Load fetches the snapshot of the current date and waits for it.  A date
// change dispatched meanwhile supersedes it.
func (b *Board) Load(ctx context.Context) error {
	b.mu.Lock()
	t := b.loader.Store().Begin(b.state.Date)
	b.mu.Unlock()
	err := b.loader.Run(ctx, t)
	if snapshot.IsStale(err) {
		return nil
	}
	return err
}

// Dispatch applies e and, when the date changed or e is a Refresh, starts
// fetching the new date.  GoToday without a date means today.
func (b *Board) Dispatch(ctx context.Context, e viewmodel.Event) viewmodel.ViewState {
	if gt, ok := e.(viewmodel.GoToday); ok && gt.Today.IsZero() {
		e = viewmodel.GoToday{Today: b.opts.today(b.now())}
	}

	b.mu.Lock()
	next, refetch := viewmodel.Apply(b.state, e)
	b.state = next
	if refetch {
		// Begin runs under mu so ticket order follows event order.
		b.loader.Start(context.WithoutCancel(ctx), next.Date, nil)
	}
	b.mu.Unlock()

	log.Debug().
		Str("event", e.Kind()).
		Str("date", next.Date.String()).
		Bool("refetch", refetch).
		Msg("board event applied")
	return next
}

// View renders the current state against the current snapshot.
func (b *Board) View() viewmodel.View {
	s := b.State()
	return viewmodel.Build(s, b.loader.Store().Current().Input(), b.opts.view(), b.now())
}

// UpdateReservation writes the edit through the source and refetches the
// current date.  When the record is in the current snapshot the edit is
// laid over it, so the source receives the full record.
func (b *Board) UpdateReservation(ctx context.Context, edit model.Reservation) (model.Reservation, error) {
	r := edit
	var before model.Date
	if stored, ok := b.recordOf(edit.OrderID); ok {
		r = stored.WithEdits(edit)
		before = reservationDay(stored, b.opts.Mapper.Location())
	}
	updated, err := b.loader.Source().Update(ctx, r)
	if err != nil {
		return model.Reservation{}, err
	}
	day := reservationDay(updated, b.opts.Mapper.Location())
	b.changed(ctx, queue.ActionUpdated, updated.OrderID, day, before)
	return updated, nil
}

// DeleteReservation removes orderID through the source and refetches the
// current date.
func (b *Board) DeleteReservation(ctx context.Context, orderID string) error {
	day := b.dayOf(orderID)
	if err := b.loader.Source().Delete(ctx, orderID); err != nil {
		return err
	}
	b.changed(ctx, queue.ActionDeleted, orderID, day)
	return nil
}

// Notify handles a change announced by another instance.
func (b *Board) Notify(ctx context.Context, ev queue.ReservationChangedEvent) error {
	if ev.Origin != "" && ev.Origin == b.hooks.Origin {
		return nil
	}
	b.invalidate(ctx, ev.Day)
	if ev.Day.IsZero() || ev.Day == b.State().Date {
		b.Dispatch(ctx, viewmodel.Refresh{})
	}
	return nil
}

func (b *Board) changed(ctx context.Context, action queue.Action, orderID string, days ...model.Date) {
	for _, d := range days {
		b.invalidate(ctx, d)
	}
	b.Dispatch(ctx, viewmodel.Refresh{})

	if b.hooks.Publisher == nil {
		return
	}
	var day model.Date
	if len(days) > 0 {
		day = days[0]
	}
	ev := queue.NewReservationChanged(orderID, action, day, b.now())
	ev.Origin = b.hooks.Origin
	if err := b.hooks.Publisher.Publish(ctx, ev); err != nil {
		log.Warn().Err(err).Str("order_id", orderID).Msg("publish reservation change failed")
	}
}

func (b *Board) invalidate(ctx context.Context, day model.Date) {
	if b.hooks.Invalidator == nil || day.IsZero() {
		return
	}
	if err := b.hooks.Invalidator.InvalidateDay(ctx, day); err != nil {
		log.Warn().Err(err).Str("date", day.String()).Msg("cache invalidation failed")
	}
}

// recordOf looks orderID up in the current snapshot.
func (b *Board) recordOf(orderID string) (model.Reservation, bool) {
	for _, r := range b.loader.Store().Current().Reservations {
		if r.OrderID == orderID {
			return r, true
		}
	}
	return model.Reservation{}, false
}

func (b *Board) dayOf(orderID string) model.Date {
	r, ok := b.recordOf(orderID)
	if !ok {
		return model.Date{}
	}
	return reservationDay(r, b.opts.Mapper.Location())
}

func reservationDay(r model.Reservation, loc *time.Location) model.Date {
	if !r.Day.IsZero() || r.TimeFrom.IsZero() {
		return r.Day
	}
	return model.DateOf(r.TimeFrom, loc)
}

// IsNotFound reports whether err means the reservation does not exist.
func IsNotFound(err error) bool { return errors.Is(err, snapshot.ErrNotFound) }
