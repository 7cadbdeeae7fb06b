package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/reservation-dashboard/internal/model"
	"github.com/iliyamo/reservation-dashboard/internal/queue"
	"github.com/iliyamo/reservation-dashboard/internal/snapshot"
	"github.com/iliyamo/reservation-dashboard/internal/viewmodel"
)

var (
	jan1     = model.NewDate(2024, time.January, 1)
	jan2     = model.NewDate(2024, time.January, 2)
	fixedNow = time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)
)

func booking(id string, place int, day model.Date, fromHour, toHour int, payed model.PaymentStatus) model.Reservation {
	from := day.In(time.UTC).Add(time.Duration(fromHour) * time.Hour)
	to := day.In(time.UTC).Add(time.Duration(toHour) * time.Hour)
	return model.Reservation{
		OrderID: id, Name: id, Place: place, Day: day,
		TimeFrom: from, TimeTo: to, Payed: payed,
		Period: (toHour - fromHour) * 2,
	}
}

// memSource is an in-memory snapshot.Source.
type memSource struct {
	mu      sync.Mutex
	days    map[model.Date][]model.Reservation
	fail    error
	lists   int
	updates []model.Reservation
}

func newMemSource(rs ...model.Reservation) *memSource {
	s := &memSource{days: map[model.Date][]model.Reservation{}}
	for _, r := range rs {
		s.days[r.Day] = append(s.days[r.Day], r)
	}
	return s
}

func (s *memSource) ListByDay(_ context.Context, day model.Date) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	if s.fail != nil {
		return nil, s.fail
	}
	return append([]model.Reservation{}, s.days[day]...), nil
}

func (s *memSource) Update(_ context.Context, r model.Reservation) (model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, r)
	for day, rs := range s.days {
		for i := range rs {
			if rs[i].OrderID == r.OrderID {
				s.days[day] = append(rs[:i:i], rs[i+1:]...)
				s.days[r.Day] = append(s.days[r.Day], r)
				return r, nil
			}
		}
	}
	return model.Reservation{}, snapshot.ErrNotFound
}

func (s *memSource) Delete(_ context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for day, rs := range s.days {
		for i := range rs {
			if rs[i].OrderID == orderID {
				s.days[day] = append(rs[:i:i], rs[i+1:]...)
				return nil
			}
		}
	}
	return snapshot.ErrNotFound
}

func (s *memSource) GlobalStats(context.Context) (model.GlobalStats, error) {
	if s.fail != nil {
		return model.GlobalStats{}, s.fail
	}
	return model.GlobalStats{TodayBookings: len(s.days[jan1])}, nil
}

func (s *memSource) listCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lists
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.ReservationChangedEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.ReservationChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

type recordingInvalidator struct {
	mu   sync.Mutex
	days []model.Date
}

func (i *recordingInvalidator) InvalidateDay(_ context.Context, day model.Date) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.days = append(i.days, day)
	return nil
}

func testOptions(t *testing.T) Options {
	t.Helper()
	w, err := viewmodel.NewWindow(9, 21)
	require.NoError(t, err)
	m, err := viewmodel.NewMapper(w, 40, time.UTC)
	require.NoError(t, err)
	return Options{Mapper: m, UnitPrice: decimal.NewFromInt(100), Currency: "CZK", MinGap: 30 * time.Minute}
}

func newTestBoard(t *testing.T, src snapshot.Source, hooks Hooks) *Board {
	t.Helper()
	opts := testOptions(t)
	b := NewBoard(snapshot.NewLoader(src, snapshot.NewStore(), time.Second), opts, hooks)
	b.now = func() time.Time { return fixedNow }
	b.state = viewmodel.NewViewState(jan1)
	return b
}

func newTestDays(t *testing.T, src snapshot.Source) *Days {
	t.Helper()
	d := NewDays(src, testOptions(t))
	d.now = func() time.Time { return fixedNow }
	return d
}

// settled waits until the board's snapshot is the finished fetch of day.
func settled(t *testing.T, b *Board, day model.Date) {
	t.Helper()
	require.Eventually(t, func() bool {
		cur := b.loader.Store().Current()
		return cur.Date == day && !cur.Loading
	}, time.Second, 5*time.Millisecond)
}

var errBackend = errors.New("backend down")
