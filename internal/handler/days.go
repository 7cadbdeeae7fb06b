package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/reservation-dashboard/internal/model"
	"github.com/iliyamo/reservation-dashboard/internal/service"
	"github.com/iliyamo/reservation-dashboard/internal/viewmodel"
)

// maxBookingMinutes caps the availability query at a full day.
const maxBookingMinutes = 24 * 60

// DaysHandler serves stateless, date-addressed reads.
type DaysHandler struct {
	Days     *service.Days
	Location *time.Location
	now      func() time.Time
}

func NewDaysHandler(d *service.Days, loc *time.Location) *DaysHandler {
	if d == nil {
		panic("nil days service passed to NewDaysHandler")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &DaysHandler{Days: d, Location: loc, now: time.Now}
}

func (h *DaysHandler) today() model.Date { return model.DateOf(h.now(), h.Location) }

func pathDate(c echo.Context) (model.Date, error) {
	d, err := model.ParseDate(c.Param("date"))
	if err == nil && d.IsZero() {
		err = echo.ErrBadRequest
	}
	return d, err
}

// Calendar handles GET /v1/calendar?date=YYYY-MM-DD; the date defaults to
// today.
func (h *DaysHandler) Calendar(c echo.Context) error {
	ref := h.today()
	if s := c.QueryParam("date"); s != "" {
		d, err := model.ParseDate(s)
		if err != nil || d.IsZero() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
		}
		ref = d
	}
	return c.JSON(http.StatusOK, viewmodel.BuildCalendar(ref, h.today()))
}

// View handles GET /v1/days/:date/view?q=&filter=&expired=&mode=.
func (h *DaysHandler) View(c echo.Context) error {
	day, err := pathDate(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}
	s := viewmodel.NewViewState(day)
	s.SearchTerm = strings.TrimSpace(c.QueryParam("q"))
	if s.Filter, err = viewmodel.ParseFilterType(c.QueryParam("filter")); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if v := c.QueryParam("expired"); v != "" {
		if s.ShowExpired, err = strconv.ParseBool(v); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "expired must be a boolean"})
		}
	}
	if s.Mode, err = viewmodel.ParseViewMode(c.QueryParam("mode")); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	v, err := h.Days.View(c.Request().Context(), s)
	if err != nil {
		return sourceError(c, err, "no data available for this date")
	}
	return c.JSON(http.StatusOK, v)
}

// Stats handles GET /v1/days/:date/stats.
func (h *DaysHandler) Stats(c echo.Context) error {
	day, err := pathDate(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}
	st, err := h.Days.Stats(c.Request().Context(), day)
	if err != nil {
		return sourceError(c, err, "no data available for this date")
	}
	return c.JSON(http.StatusOK, st)
}

// Availability handles GET /v1/days/:date/availability?minutes=60.
// minutes defaults to one slot and must be a whole number of slots.
func (h *DaysHandler) Availability(c echo.Context) error {
	day, err := pathDate(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}
	minutes := viewmodel.SlotMinutes
	if s := c.QueryParam("minutes"); s != "" {
		minutes, err = strconv.Atoi(s)
		if err != nil || minutes <= 0 || minutes > maxBookingMinutes || minutes%viewmodel.SlotMinutes != 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "minutes must be a positive multiple of 30"})
		}
	}
	av, err := h.Days.Availability(c.Request().Context(), day, time.Duration(minutes)*time.Minute)
	if err != nil {
		return sourceError(c, err, "no data available for this date")
	}
	return c.JSON(http.StatusOK, av)
}

// GlobalStats handles GET /v1/stats.
func (h *DaysHandler) GlobalStats(c echo.Context) error {
	st, err := h.Days.GlobalStats(c.Request().Context())
	if err != nil {
		return sourceError(c, err, "failed to load stats")
	}
	return c.JSON(http.StatusOK, st)
}
