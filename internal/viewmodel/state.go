package viewmodel

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iliyamo/reservation-dashboard/internal/model"
)

// ViewMode selects the main presentation.
type ViewMode string

const (
	ModeList      ViewMode = "list"
	ModeTimetable ViewMode = "timetable"
)

// ParseViewMode accepts "", "list" and "timetable".
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeList:
		return ModeList, nil
	case ModeTimetable:
		return ModeTimetable, nil
	}
	return "", fmt.Errorf("unknown view mode %q", s)
}

// ViewState is the complete, serialisable UI state of a dashboard session.
type ViewState struct {
	Date        model.Date `json:"date"`
	SearchTerm  string     `json:"search_term"`
	Filter      FilterType `json:"filter"`
	ShowExpired bool       `json:"show_expired"`
	Mode        ViewMode   `json:"mode"`
}

// NewViewState returns the initial state for today.
func NewViewState(today model.Date) ViewState {
	return ViewState{Date: today, Filter: FilterAll, Mode: ModeList}
}

// Criteria converts the list filters of s.
func (s ViewState) Criteria() Criteria {
	return Criteria{SearchTerm: s.SearchTerm, Filter: s.Filter, ShowExpired: s.ShowExpired}
}

// Event is a state transition.  Implementations are the exported event
// structs below.
type Event interface {
	apply(ViewState) ViewState
	Kind() string
}

type SelectDate struct {
	Date model.Date `json:"date"`
}

type ShiftMonth struct {
	Delta int `json:"delta"`
}

// GoToday carries today's date explicitly so Apply stays clock free.
type GoToday struct {
	Today model.Date `json:"today"`
}

type SetSearch struct {
	Term string `json:"term"`
}

type SetFilter struct {
	Filter FilterType `json:"filter"`
}

type SetShowExpired struct {
	Show bool `json:"show"`
}

type SetViewMode struct {
	Mode ViewMode `json:"mode"`
}

// Refresh asks for a new snapshot of the current date.
type Refresh struct{}

func (e SelectDate) apply(s ViewState) ViewState     { s.Date = e.Date; return s }
func (e ShiftMonth) apply(s ViewState) ViewState     { s.Date = s.Date.AddMonths(e.Delta); return s }
func (e GoToday) apply(s ViewState) ViewState        { s.Date = e.Today; return s }
func (e SetSearch) apply(s ViewState) ViewState      { s.SearchTerm = e.Term; return s }
func (e SetFilter) apply(s ViewState) ViewState      { s.Filter = e.Filter; return s }
func (e SetShowExpired) apply(s ViewState) ViewState { s.ShowExpired = e.Show; return s }
func (e SetViewMode) apply(s ViewState) ViewState    { s.Mode = e.Mode; return s }
func (e Refresh) apply(s ViewState) ViewState        { return s }

func (SelectDate) Kind() string     { return "select_date" }
func (ShiftMonth) Kind() string     { return "shift_month" }
func (GoToday) Kind() string        { return "go_today" }
func (SetSearch) Kind() string      { return "set_search" }
func (SetFilter) Kind() string      { return "set_filter" }
func (SetShowExpired) Kind() string { return "set_show_expired" }
func (SetViewMode) Kind() string    { return "set_view_mode" }
func (Refresh) Kind() string        { return "refresh" }

// Apply returns the state after e and whether the snapshot must be
// refetched, which is the case when the date changed or on Refresh.
func Apply(s ViewState, e Event) (ViewState, bool) {
	next := e.apply(s)
	_, refresh := e.(Refresh)
	return next, refresh || next.Date != s.Date
}

// DecodeEvent parses {"type": "...", ...} into an Event and validates it.
func DecodeEvent(b []byte) (Event, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}

	var e Event
	switch head.Type {
	case "select_date":
		var v SelectDate
		if err := json.Unmarshal(b, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", head.Type, err)
		}
		if v.Date.IsZero() {
			return nil, fmt.Errorf("decode %s: date is required", head.Type)
		}
		e = v
	case "shift_month":
		var v ShiftMonth
		if err := json.Unmarshal(b, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", head.Type, err)
		}
		e = v
	case "go_today":
		e = GoToday{}
	case "set_search":
		var v SetSearch
		if err := json.Unmarshal(b, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", head.Type, err)
		}
		e = v
	case "set_filter":
		var raw struct {
			Filter string `json:"filter"`
		}
		if err := json.Unmarshal(b, &raw); err != nil {
			return nil, fmt.Errorf("decode %s: %w", head.Type, err)
		}
		f, err := ParseFilterType(raw.Filter)
		if err != nil {
			return nil, err
		}
		e = SetFilter{Filter: f}
	case "set_show_expired":
		var v SetShowExpired
		if err := json.Unmarshal(b, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", head.Type, err)
		}
		e = v
	case "set_view_mode":
		var raw struct {
			Mode string `json:"mode"`
		}
		if err := json.Unmarshal(b, &raw); err != nil {
			return nil, fmt.Errorf("decode %s: %w", head.Type, err)
		}
		m, err := ParseViewMode(raw.Mode)
		if err != nil {
			return nil, err
		}
		e = SetViewMode{Mode: m}
	case "refresh":
		e = Refresh{}
	default:
		return nil, fmt.Errorf("unknown event type %q", head.Type)
	}
	return e, nil
}
