package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/reservation-dashboard/internal/model"
)

func boolPtr(b bool) *bool { return &b }

func TestValidatorSlotRule(t *testing.T) {
	v := NewValidator()
	from := time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)

	ok := updateRequest{Name: "Anna", Place: 1, TimeFrom: from, TimeTo: from.Add(90 * time.Minute), Payed: boolPtr(true)}
	require.NoError(t, v.Validate(&ok))

	off := ok
	off.TimeTo = from.Add(45 * time.Minute)
	require.ErrorContains(t, v.Validate(&off), "slot")

	reversed := ok
	reversed.TimeTo = from.Add(-time.Hour)
	require.ErrorContains(t, v.Validate(&reversed), "gtfield")

	missing := ok
	missing.Payed = nil
	missing.Name = ""
	require.Error(t, v.Validate(&missing))
}

func TestUpdateRequestToModel(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	from := time.Date(2030, 1, 1, 10, 0, 0, 0, loc)
	req := updateRequest{Name: " Anna ", Place: 2, TimeFrom: from, TimeTo: from.Add(time.Hour), Payed: boolPtr(false)}

	r := req.toModel("A")
	require.Equal(t, "A", r.OrderID)
	require.Equal(t, "Anna", r.Name)
	require.Equal(t, 2, r.Period)
	require.Equal(t, model.PaymentPending, r.Payed)
	require.Equal(t, time.UTC, r.TimeFrom.Location())
	require.True(t, r.Valid())
	require.Empty(t, r.TelegramID)
	require.Nil(t, r.Sum)

	sum := 666.0
	req.TelegramID, req.Sum = "77", &sum
	r = req.toModel("A")
	require.Equal(t, "77", r.TelegramID)
	require.Equal(t, &sum, r.Sum)
}

func TestUpdateRejectsBadBody(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	h := &ReservationHandler{}
	e.PUT("/v1/reservations/:order_id", h.Update)

	req := httptest.NewRequest(http.MethodPut, "/v1/reservations/A", strings.NewReader(`{"name":`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPut, "/v1/reservations/A", strings.NewReader(`{"name":"Anna","place":0}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHealth(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/healthz", nil), rec)
	require.NoError(t, Health(c))
	require.Equal(t, "ok", rec.Body.String())
}
