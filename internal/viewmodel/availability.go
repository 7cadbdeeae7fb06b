package viewmodel

import (
	"sort"
	"time"

	"github.com/iliyamo/reservation-dashboard/internal/model"
)

// Gap is a free interval of one place inside the workday window.
type Gap struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Minutes float64   `json:"minutes"`
}

// PlaceAvailability lists the free gaps of one place, in time order.
type PlaceAvailability struct {
	Place int   `json:"place"`
	Gaps  []Gap `json:"gaps"`
}

// SlotOffer is a bookable start time and the places free for the whole
// requested duration from it.
type SlotOffer struct {
	Start  time.Time `json:"start"`
	Label  string    `json:"label"`
	Places []int     `json:"places"`
}

// FreeGaps finds, for every place, the gaps between valid reservations of
// day inside w that last at least minDuration.  places lists the known
// resources; when empty the places seen in rs are used.  Overlapping
// reservations are merged rather than rejected.
func FreeGaps(rs []model.Reservation, day model.Date, places []int, w Window, loc *time.Location, minDuration time.Duration) []PlaceAvailability {
	if loc == nil {
		loc = time.UTC
	}
	if len(places) == 0 {
		places = Places(rs)
	}
	midnight := day.In(loc)
	dayStart := midnight.Add(time.Duration(w.StartHour) * time.Hour)
	dayEnd := midnight.Add(time.Duration(w.EndHour) * time.Hour)

	byPlace := make(map[int][]model.Reservation)
	for _, r := range rs {
		if r.Valid() && BelongsToDay(r, day, loc) {
			byPlace[r.Place] = append(byPlace[r.Place], r)
		}
	}

	out := make([]PlaceAvailability, 0, len(places))
	for _, p := range sortedCopy(places) {
		booked := byPlace[p]
		sort.SliceStable(booked, func(i, j int) bool { return booked[i].TimeFrom.Before(booked[j].TimeFrom) })

		pa := PlaceAvailability{Place: p, Gaps: []Gap{}}
		cursor := dayStart
		add := func(from, to time.Time) {
			if d := to.Sub(from); d > 0 && d >= minDuration {
				pa.Gaps = append(pa.Gaps, Gap{Start: from, End: to, Minutes: d.Minutes()})
			}
		}
		for _, r := range booked {
			if r.TimeFrom.After(cursor) {
				end := r.TimeFrom
				if end.After(dayEnd) {
					end = dayEnd
				}
				add(cursor, end)
			}
			if r.TimeTo.After(cursor) {
				cursor = r.TimeTo
			}
		}
		if cursor.Before(dayEnd) {
			add(cursor, dayEnd)
		}
		out = append(out, pa)
	}
	return out
}

// FreeSlots walks every gap on the slot stride and offers each start time at
// which duration fits.  Starts before notBefore are dropped so that today's
// past slots are never offered.
func FreeSlots(avail []PlaceAvailability, duration time.Duration, notBefore time.Time, loc *time.Location) []SlotOffer {
	if loc == nil {
		loc = time.UTC
	}
	stride := SlotMinutes * time.Minute
	byStart := make(map[int64]*SlotOffer)
	for _, pa := range avail {
		for _, g := range pa.Gaps {
			for cur := g.Start; !cur.Add(duration).After(g.End); cur = cur.Add(stride) {
				if cur.Before(notBefore) {
					continue
				}
				key := cur.Unix()
				offer, ok := byStart[key]
				if !ok {
					offer = &SlotOffer{Start: cur, Label: cur.In(loc).Format("15:04")}
					byStart[key] = offer
				}
				offer.Places = append(offer.Places, pa.Place)
			}
		}
	}

	out := make([]SlotOffer, 0, len(byStart))
	for _, o := range byStart {
		sort.Ints(o.Places)
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

func sortedCopy(in []int) []int {
	out := append([]int(nil), in...)
	sort.Ints(out)
	return out
}
