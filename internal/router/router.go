// Package router registers the HTTP routes of the dashboard API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/reservation-dashboard/internal/handler"
)

// Handlers bundles everything RegisterRoutes mounts.
type Handlers struct {
	Board        *handler.BoardHandler
	Days         *handler.DaysHandler
	Reservations *handler.ReservationHandler
}

// RegisterRoutes mounts the probes at the root and the API under /v1.
// Every /v1 route is rate limited.
func RegisterRoutes(e *echo.Echo, h Handlers, limit echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/v1", limit)

	v1.GET("/board", h.Board.Get)
	v1.POST("/board/events", h.Board.PostEvent)

	v1.GET("/calendar", h.Days.Calendar)
	v1.GET("/stats", h.Days.GlobalStats)

	days := v1.Group("/days/:date")
	days.GET("/view", h.Days.View)
	days.GET("/stats", h.Days.Stats)
	days.GET("/availability", h.Days.Availability)

	v1.PUT("/reservations/:order_id", h.Reservations.Update)
	v1.DELETE("/reservations/:order_id", h.Reservations.Delete)
}
