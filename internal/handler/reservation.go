package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/reservation-dashboard/internal/model"
	"github.com/iliyamo/reservation-dashboard/internal/service"
)

// ReservationHandler edits and deletes reservations through the board so
// that the displayed snapshot is refetched afterwards.
type ReservationHandler struct {
	Board *service.Board
}

func NewReservationHandler(b *service.Board) *ReservationHandler {
	if b == nil {
		panic("nil board passed to NewReservationHandler")
	}
	return &ReservationHandler{Board: b}
}

// updateRequest is the editable part of a reservation plus the bookkeeping
// fields a client may echo back from the record it edits.
type updateRequest struct {
	Name     string     `json:"name" validate:"required,max=200"`
	Type     string     `json:"type" validate:"max=100"`
	Place    int        `json:"place" validate:"min=1"`
	Day      model.Date `json:"day"`
	TimeFrom time.Time  `json:"time_from" validate:"required,slot"`
	TimeTo   time.Time  `json:"time_to" validate:"required,slot,gtfield=TimeFrom"`
	Payed    *bool      `json:"payed" validate:"required"`

	TelegramID              string     `json:"telegram_id" validate:"max=64"`
	Sum                     *float64   `json:"sum" validate:"omitempty,gte=0"`
	PaymentConfirmationLink string     `json:"payment_confirmation_link" validate:"omitempty,url"`
	CreatedAt               *time.Time `json:"created_at"`
}

func (r updateRequest) toModel(orderID string) model.Reservation {
	res := model.Reservation{
		OrderID:  orderID,
		Name:     strings.TrimSpace(r.Name),
		Type:     r.Type,
		Place:    r.Place,
		Day:      r.Day,
		TimeFrom: r.TimeFrom.UTC(),
		TimeTo:   r.TimeTo.UTC(),
		Payed:    model.PaymentPending,

		TelegramID:              r.TelegramID,
		Sum:                     r.Sum,
		PaymentConfirmationLink: r.PaymentConfirmationLink,
		CreatedAt:               r.CreatedAt,
	}
	res.Period = int(res.Duration() / (30 * time.Minute))
	if *r.Payed {
		res.Payed = model.PaymentPaid
	}
	return res
}

// Update handles PUT /v1/reservations/:order_id.
func (h *ReservationHandler) Update(c echo.Context) error {
	orderID := strings.TrimSpace(c.Param("order_id"))
	if orderID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	}

	updated, err := h.Board.UpdateReservation(c.Request().Context(), req.toModel(orderID))
	if err != nil {
		return sourceError(c, err, "failed to update reservation")
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/reservations/:order_id.
func (h *ReservationHandler) Delete(c echo.Context) error {
	orderID := strings.TrimSpace(c.Param("order_id"))
	if orderID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	if err := h.Board.DeleteReservation(c.Request().Context(), orderID); err != nil {
		return sourceError(c, err, "failed to delete reservation")
	}
	return c.NoContent(http.StatusNoContent)
}
