// Package handler contains the HTTP handlers of the dashboard API.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/reservation-dashboard/internal/service"
)

// sourceError maps a failure of the reservation source to a response.
func sourceError(c echo.Context, err error, msg string) error {
	switch {
	case service.IsNotFound(err):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	case errors.Is(err, service.ErrUnavailable):
		log.Warn().Err(err).Str("path", c.Path()).Msg(msg)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": msg})
	}
	log.Error().Err(err).Str("path", c.Path()).Msg(msg)
	return c.JSON(http.StatusBadGateway, echo.Map{"error": msg})
}
