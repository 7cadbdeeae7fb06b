package viewmodel

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/iliyamo/reservation-dashboard/internal/model"
)

// SlotMinutes is the scheduling granularity.
const SlotMinutes = 30

var (
	// ErrEmptyWindow is returned when the workday window has no extent.
	ErrEmptyWindow = errors.New("workday window is empty")
	// ErrSlotHeight is returned for a non-positive slot height.
	ErrSlotHeight = errors.New("slot height must be positive")
)

// Window is the inclusive hour range rendered on the timetable and timeline.
type Window struct {
	StartHour int `json:"start_hour"`
	EndHour   int `json:"end_hour"`
}

// NewWindow validates the hour bounds.
func NewWindow(startHour, endHour int) (Window, error) {
	w := Window{StartHour: startHour, EndHour: endHour}
	if err := w.Validate(); err != nil {
		return Window{}, err
	}
	return w, nil
}

// Validate fails fast on a window that would divide by zero.
func (w Window) Validate() error {
	if w.StartHour < 0 || w.EndHour > 24 {
		return fmt.Errorf("%w: hours %d..%d outside 0..24", ErrEmptyWindow, w.StartHour, w.EndHour)
	}
	if w.EndHour <= w.StartHour {
		return fmt.Errorf("%w: end %d <= start %d", ErrEmptyWindow, w.EndHour, w.StartHour)
	}
	return nil
}

func (w Window) startMinutes() float64 { return float64(w.StartHour * 60) }
func (w Window) endMinutes() float64   { return float64(w.EndHour * 60) }

// TotalMinutes is the window length in minutes.
func (w Window) TotalMinutes() int { return (w.EndHour - w.StartHour) * 60 }

// Slots is the number of half-hour slots in the window.
func (w Window) Slots() int { return w.TotalMinutes() / SlotMinutes }

// SlotLabels returns the start time of every slot, "09:00", "09:30", ...
func (w Window) SlotLabels() []string {
	labels := make([]string, 0, w.Slots())
	for m := w.StartHour * 60; m < w.EndHour*60; m += SlotMinutes {
		labels = append(labels, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return labels
}

// VerticalBox is a reservation positioned in a single timetable column, in pixels.
type VerticalBox struct {
	OrderID       string  `json:"order_id"`
	Place         int     `json:"place"`
	Top           float64 `json:"top"`
	Height        float64 `json:"height"`
	Start         string  `json:"start"`
	End           string  `json:"end"`
	ClippedTop    bool    `json:"clipped_top,omitempty"`
	ClippedBottom bool    `json:"clipped_bottom,omitempty"`
}

// HorizontalBox is a reservation positioned in a timeline row, in percent.
type HorizontalBox struct {
	OrderID      string  `json:"order_id"`
	Place        int     `json:"place"`
	Left         float64 `json:"left"`
	Width        float64 `json:"width"`
	Start        string  `json:"start"`
	End          string  `json:"end"`
	ClippedStart bool    `json:"clipped_start,omitempty"`
	ClippedEnd   bool    `json:"clipped_end,omitempty"`
}

// TimetableColumn holds the vertical boxes of one place.
type TimetableColumn struct {
	Place int           `json:"place"`
	Boxes []VerticalBox `json:"boxes"`
}

// TimelineRow holds the horizontal boxes of one place.
type TimelineRow struct {
	Place int             `json:"place"`
	Boxes []HorizontalBox `json:"boxes"`
}

// Mapper converts reservation intervals into layout coordinates.  Both
// layouts read time of day in the same location so they cannot disagree.
type Mapper struct {
	window     Window
	slotHeight float64
	loc        *time.Location
}

// NewMapper returns a Mapper for the window.  loc defaults to UTC.
func NewMapper(w Window, slotHeightPx float64, loc *time.Location) (*Mapper, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if slotHeightPx <= 0 {
		return nil, ErrSlotHeight
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Mapper{window: w, slotHeight: slotHeightPx, loc: loc}, nil
}

// Window returns the mapper's workday window.
func (m *Mapper) Window() Window { return m.window }

// Location returns the zone used for time-of-day extraction.
func (m *Mapper) Location() *time.Location { return m.loc }

// ColumnHeight is the full pixel height of the vertical layout.
func (m *Mapper) ColumnHeight() float64 {
	return float64(m.window.TotalMinutes()) / SlotMinutes * m.slotHeight
}

type span struct {
	start, end               float64
	clippedStart, clippedEnd bool
	startLabel, endLabel     string
}

// span returns r's visible interval in minutes since midnight.  ok is false
// for invalid records and for records that lie wholly outside the window.
func (m *Mapper) span(r model.Reservation) (span, bool) {
	if !r.Valid() {
		return span{}, false
	}
	local := r.TimeFrom.In(m.loc)
	start := float64(local.Hour()*60+local.Minute()) + float64(local.Second())/60
	end := start + r.TimeTo.Sub(r.TimeFrom).Minutes()

	lo, hi := m.window.startMinutes(), m.window.endMinutes()
	if end <= lo || start >= hi {
		return span{}, false
	}
	s := span{
		start:      start,
		end:        end,
		startLabel: local.Format("15:04"),
		endLabel:   r.TimeTo.In(m.loc).Format("15:04"),
	}
	if s.start < lo {
		s.start, s.clippedStart = lo, true
	}
	if s.end > hi {
		s.end, s.clippedEnd = hi, true
	}
	return s, true
}

// Vertical lays out rs in a single column.  The second result lists the
// order ids that could not be placed.
func (m *Mapper) Vertical(rs []model.Reservation) ([]VerticalBox, []string) {
	boxes := make([]VerticalBox, 0, len(rs))
	var skipped []string
	lo := m.window.startMinutes()
	for _, r := range rs {
		s, ok := m.span(r)
		if !ok {
			skipped = append(skipped, r.OrderID)
			continue
		}
		boxes = append(boxes, VerticalBox{
			OrderID:       r.OrderID,
			Place:         r.Place,
			Top:           (s.start - lo) / SlotMinutes * m.slotHeight,
			Height:        (s.end - s.start) / SlotMinutes * m.slotHeight,
			Start:         s.startLabel,
			End:           s.endLabel,
			ClippedTop:    s.clippedStart,
			ClippedBottom: s.clippedEnd,
		})
	}
	return boxes, skipped
}

// Timetable lays out rs as one vertical column per place.
func (m *Mapper) Timetable(rs []model.Reservation) ([]TimetableColumn, []string) {
	boxes, skipped := m.Vertical(rs)
	places := Places(rs)
	cols := make([]TimetableColumn, len(places))
	index := make(map[int]int, len(places))
	for i, p := range places {
		cols[i] = TimetableColumn{Place: p, Boxes: []VerticalBox{}}
		index[p] = i
	}
	for _, b := range boxes {
		i := index[b.Place]
		cols[i].Boxes = append(cols[i].Boxes, b)
	}
	return cols, skipped
}

// Horizontal lays out rs as one row per place, positions in percent of the
// window.  Overlapping boxes are returned as they are.
func (m *Mapper) Horizontal(rs []model.Reservation) ([]TimelineRow, []string) {
	places := Places(rs)
	rows := make([]TimelineRow, len(places))
	index := make(map[int]int, len(places))
	for i, p := range places {
		rows[i] = TimelineRow{Place: p, Boxes: []HorizontalBox{}}
		index[p] = i
	}

	var skipped []string
	lo := m.window.startMinutes()
	total := float64(m.window.TotalMinutes())
	for _, r := range rs {
		s, ok := m.span(r)
		if !ok {
			skipped = append(skipped, r.OrderID)
			continue
		}
		i := index[r.Place]
		rows[i].Boxes = append(rows[i].Boxes, HorizontalBox{
			OrderID:      r.OrderID,
			Place:        r.Place,
			Left:         (s.start - lo) / total * 100,
			Width:        (s.end - s.start) / total * 100,
			Start:        s.startLabel,
			End:          s.endLabel,
			ClippedStart: s.clippedStart,
			ClippedEnd:   s.clippedEnd,
		})
	}
	return rows, skipped
}

// Places returns the distinct place ids in rs, ascending.
func Places(rs []model.Reservation) []int {
	seen := make(map[int]struct{}, len(rs))
	places := make([]int, 0, len(rs))
	for _, r := range rs {
		if _, ok := seen[r.Place]; ok {
			continue
		}
		seen[r.Place] = struct{}{}
		places = append(places, r.Place)
	}
	sort.Ints(places)
	return places
}
