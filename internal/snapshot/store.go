package snapshot

import (
	"errors"
	"sync"
	"time"

	"github.com/iliyamo/reservation-dashboard/internal/model"
	"github.com/iliyamo/reservation-dashboard/internal/viewmodel"
)

// ErrStale marks a fetch completion that was superseded by a newer request.
var ErrStale = errors.New("stale snapshot discarded")

// Ticket tags one in-flight fetch with the date it was requested for.
type Ticket struct {
	Date       model.Date
	Generation uint64
}

// State is the store's current content.  While Loading is set the list is
// empty: the previous date's data is never presented as the new date's.
type State struct {
	Date         model.Date
	Reservations []model.Reservation
	Places       []int
	Loading      bool
	Err          error
	FetchedAt    time.Time
	Generation   uint64
}

// Input adapts s for viewmodel.Build.
func (s State) Input() viewmodel.Input {
	return viewmodel.Input{
		Date:         s.Date,
		Reservations: s.Reservations,
		Loading:      s.Loading,
		Err:          s.Err,
	}
}

// Store keeps one snapshot.  Each Begin supersedes every earlier ticket, so
// only the most recent request can complete.  The mutex only serialises
// HTTP handler goroutines; there is still a single logical writer.
type Store struct {
	mu    sync.RWMutex
	gen   uint64
	state State
}

func NewStore() *Store { return &Store{} }

// Begin registers a fetch for date and returns its ticket.
func (s *Store) Begin(date model.Date) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.state = State{Date: date, Loading: true, Generation: s.gen}
	return Ticket{Date: date, Generation: s.gen}
}

// Complete installs the result of t.  It returns ErrStale, leaving the
// store untouched, when a newer ticket has been issued since.
func (s *Store) Complete(t Ticket, rs []model.Reservation, fetchErr error, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.Generation != s.gen {
		return ErrStale
	}
	next := State{Date: t.Date, Generation: t.Generation, FetchedAt: at}
	if fetchErr != nil {
		next.Err = fetchErr
	} else {
		next.Reservations = rs
		next.Places = viewmodel.Places(rs)
	}
	s.state = next
	return nil
}

// Current returns a copy of the current state.
func (s *Store) Current() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Latest reports whether t is still the newest ticket.
func (s *Store) Latest(t Ticket) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return t.Generation == s.gen
}
