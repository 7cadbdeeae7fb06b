package viewmodel

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/iliyamo/reservation-dashboard/internal/model"
)

// FilterType selects reservations by payment bucket.
type FilterType string

const (
	FilterAll     FilterType = "all"
	FilterPaid    FilterType = "paid"
	FilterPending FilterType = "pending"
)

// ParseFilterType accepts "", "all", "paid" and "pending".
func ParseFilterType(s string) (FilterType, error) {
	switch FilterType(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterPaid:
		return FilterPaid, nil
	case FilterPending:
		return FilterPending, nil
	}
	return "", fmt.Errorf("unknown filter %q", s)
}

// Criteria are the list filters.  Day, when set, also scopes the result to
// one calendar day in Location.
type Criteria struct {
	SearchTerm  string
	Filter      FilterType
	ShowExpired bool
	Day         *model.Date
	Location    *time.Location
}

// matcher holds per-call state; cases.Caser must not be shared.
type matcher struct {
	c    Criteria
	fold cases.Caser
	term string
	now  time.Time
}

func newMatcher(c Criteria, now time.Time) *matcher {
	m := &matcher{c: c, fold: cases.Fold(), now: now}
	m.term = m.fold.String(strings.TrimSpace(c.SearchTerm))
	return m
}

func (m *matcher) match(r model.Reservation) bool {
	if m.term != "" &&
		!strings.Contains(m.fold.String(r.Name), m.term) &&
		!strings.Contains(m.fold.String(r.OrderID), m.term) {
		return false
	}
	switch m.c.Filter {
	case FilterPaid:
		if PaymentBucket(r) != model.PaymentPaid {
			return false
		}
	case FilterPending:
		if PaymentBucket(r) != model.PaymentPending {
			return false
		}
	}
	if !m.c.ShowExpired && IsExpired(r, m.now) {
		return false
	}
	if m.c.Day != nil && !BelongsToDay(r, *m.c.Day, m.c.Location) {
		return false
	}
	return true
}

// Match reports whether a single reservation passes c.
func (c Criteria) Match(r model.Reservation, now time.Time) bool {
	return newMatcher(c, now).match(r)
}

// Filter returns the reservations of rs passing c, in input order.  The
// result never aliases rs.
func Filter(rs []model.Reservation, c Criteria, now time.Time) []model.Reservation {
	m := newMatcher(c, now)
	out := make([]model.Reservation, 0, len(rs))
	for _, r := range rs {
		if m.match(r) {
			out = append(out, r)
		}
	}
	return out
}
