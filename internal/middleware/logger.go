package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RequestLogger logs one line per request, at a level chosen by status.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req, res := c.Request(), c.Response()
			var ev *zerolog.Event
			switch {
			case res.Status >= 500:
				ev = log.Error()
			case res.Status >= 400:
				ev = log.Warn()
			default:
				ev = log.Info()
			}
			if err != nil {
				ev = ev.Err(err)
			}
			ev.Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("query", req.URL.RawQuery).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("client_ip", c.RealIP()).
				Int64("body_size", res.Size).
				Msg("HTTP request")
			return nil
		}
	}
}
