package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/reservation-dashboard/internal/service"
	"github.com/iliyamo/reservation-dashboard/internal/viewmodel"
)

const maxEventBytes = 4 << 10

// BoardHandler exposes the dashboard session.
type BoardHandler struct {
	Board *service.Board
}

func NewBoardHandler(b *service.Board) *BoardHandler {
	if b == nil {
		panic("nil board passed to NewBoardHandler")
	}
	return &BoardHandler{Board: b}
}

// Get handles GET /v1/board.
func (h *BoardHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Board.View())
}

// PostEvent handles POST /v1/board/events with a body such as
// {"type": "select_date", "date": "2024-01-02"}.  The response is the view
// right after the transition, usually still loading when the date changed.
func (h *BoardHandler) PostEvent(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxEventBytes))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable body"})
	}
	ev, err := viewmodel.DecodeEvent(body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	h.Board.Dispatch(c.Request().Context(), ev)
	return c.JSON(http.StatusOK, h.Board.View())
}
