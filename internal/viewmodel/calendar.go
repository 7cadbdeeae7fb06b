package viewmodel

import (
	"strconv"
	"time"

	"github.com/iliyamo/reservation-dashboard/internal/model"
)

// WeekdayLabels are the Monday-first column headers of the month grid.
var WeekdayLabels = [7]string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// CalendarCell is one square of the month grid.  Blank cells pad the first
// week and carry no date.
type CalendarCell struct {
	Blank      bool       `json:"blank,omitempty"`
	Day        int        `json:"day,omitempty"`
	Date       model.Date `json:"date"`
	IsSelected bool       `json:"is_selected,omitempty"`
	IsToday    bool       `json:"is_today,omitempty"`
}

// CalendarGrid is the row-major, Monday-first grid of a month.
type CalendarGrid struct {
	Year     int            `json:"year"`
	Month    time.Month     `json:"month"`
	Title    string         `json:"title"`
	Weekdays [7]string      `json:"weekdays"`
	Leading  int            `json:"leading"`
	Cells    []CalendarCell `json:"cells"`
	Prev     model.Date     `json:"prev"`
	Next     model.Date     `json:"next"`
}

// BuildCalendar lays out the month containing ref.  The cell whose day of
// month equals ref's is selected; the cell equal to today is marked.
func BuildCalendar(ref, today model.Date) CalendarGrid {
	first := model.Date{Year: ref.Year, Month: ref.Month, Day: 1}
	leading := (first.ISOWeekday() - 1) % 7
	days := model.DaysIn(ref.Year, ref.Month)

	cells := make([]CalendarCell, 0, leading+days)
	for i := 0; i < leading; i++ {
		cells = append(cells, CalendarCell{Blank: true})
	}
	for d := 1; d <= days; d++ {
		date := model.Date{Year: ref.Year, Month: ref.Month, Day: d}
		cells = append(cells, CalendarCell{
			Day:        d,
			Date:       date,
			IsSelected: d == ref.Day,
			IsToday:    date == today,
		})
	}

	return CalendarGrid{
		Year:     ref.Year,
		Month:    ref.Month,
		Title:    ref.Month.String() + " " + strconv.Itoa(ref.Year),
		Weekdays: WeekdayLabels,
		Leading:  leading,
		Cells:    cells,
		Prev:     AddMonths(ref, -1),
		Next:     AddMonths(ref, 1),
	}
}

// AddMonths moves d by n months, clamping the day to the target month.
func AddMonths(d model.Date, n int) model.Date {
	return d.AddMonths(n)
}
