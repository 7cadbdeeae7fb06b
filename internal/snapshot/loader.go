package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iliyamo/reservation-dashboard/internal/model"
)

// Loader fetches snapshots from a Source into a Store.
type Loader struct {
	src     Source
	store   *Store
	timeout time.Duration
	now     func() time.Time
}

// NewLoader returns a Loader.  A zero timeout means no per-fetch deadline.
func NewLoader(src Source, store *Store, timeout time.Duration) *Loader {
	return &Loader{src: src, store: store, timeout: timeout, now: time.Now}
}

// Store returns the loader's store.
func (l *Loader) Store() *Store { return l.store }

// Source returns the loader's source.
func (l *Loader) Source() Source { return l.src }

// Load fetches day synchronously.  The error is ErrStale when another load
// started meanwhile, or the fetch error otherwise.
func (l *Loader) Load(ctx context.Context, day model.Date) error {
	return l.Run(ctx, l.store.Begin(day))
}

// Start begins an asynchronous load and returns immediately.  done, when
// non-nil, receives the outcome.
func (l *Loader) Start(ctx context.Context, day model.Date, done func(error)) Ticket {
	t := l.store.Begin(day)
	go func() {
		err := l.Run(ctx, t)
		if done != nil {
			done(err)
		}
	}()
	return t
}

// Run fetches the date of a ticket obtained from Store.Begin.  Callers that
// must order tickets against other events take them under their own lock
// and run the fetch outside it.  A ticket superseded before the fetch
// starts is dropped without calling the source.
func (l *Loader) Run(ctx context.Context, t Ticket) error {
	if !l.store.Latest(t) {
		fetchTotal.WithLabelValues("stale").Inc()
		return ErrStale
	}
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	started := l.now()
	rs, fetchErr := l.src.ListByDay(ctx, t.Date)
	fetchDuration.Observe(l.now().Sub(started).Seconds())
	if fetchErr != nil {
		fetchErr = fmt.Errorf("list reservations for %s: %w", t.Date, fetchErr)
	}

	if err := l.store.Complete(t, rs, fetchErr, l.now()); err != nil {
		fetchTotal.WithLabelValues("stale").Inc()
		log.Debug().
			Str("date", t.Date.String()).
			Uint64("generation", t.Generation).
			Msg("discarded superseded snapshot")
		return err
	}
	if fetchErr != nil {
		fetchTotal.WithLabelValues("failed").Inc()
		log.Warn().Err(fetchErr).Str("date", t.Date.String()).Msg("snapshot fetch failed")
		return fetchErr
	}

	fetchTotal.WithLabelValues("accepted").Inc()
	snapshotSize.Set(float64(len(rs)))
	log.Debug().
		Str("date", t.Date.String()).
		Int("reservations", len(rs)).
		Uint64("generation", t.Generation).
		Msg("snapshot accepted")
	return nil
}

// IsStale reports whether err marks a discarded completion.
func IsStale(err error) bool { return errors.Is(err, ErrStale) }
