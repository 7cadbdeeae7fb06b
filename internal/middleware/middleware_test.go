package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/reservation-dashboard/internal/config"
)

func serve(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = "192.0.2.1:1234"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestLocalRateLimit(t *testing.T) {
	cfg := config.RateLimitConfig{
		Enabled: true, Capacity: 2, RefillTokens: 1,
		RefillInterval: time.Hour, TTL: 5 * time.Hour, KeyStrategy: "ip", Prefix: "rl",
	}
	e := echo.New()
	e.Use(NewTokenBucket(cfg, nil))
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })

	require.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/ping").Code)
	rec := serve(e, http.MethodGet, "/ping")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = serve(e, http.MethodGet, "/ping")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.Contains(t, rec.Body.String(), "too_many_requests")
}

func TestLocalBucketSweepsIdleKeys(t *testing.T) {
	cfg := config.RateLimitConfig{Capacity: 1, RefillTokens: 1, RefillInterval: time.Second, TTL: time.Minute}
	b := newLocalBucket(cfg)
	now := time.Now()
	b.now = func() time.Time { return now }

	_, err := b.take(nil, "a")
	require.NoError(t, err)
	require.Len(t, b.visitors, 1)

	now = now.Add(2 * time.Minute)
	_, err = b.take(nil, "b")
	require.NoError(t, err)
	require.Len(t, b.visitors, 1)
	require.Contains(t, b.visitors, "b")
}

func TestRateLimitDisabled(t *testing.T) {
	e := echo.New()
	e.Use(NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil))
	e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	rec := serve(e, http.MethodGet, "/ping")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/board", nil), httptest.NewRecorder())
	c.Request().RemoteAddr = "192.0.2.1:1234"
	c.SetPath("/v1/board")

	require.Equal(t, "rl:ip:192.0.2.1:route:GET /v1/board", buildRateKey(config.RateLimitConfig{Prefix: "rl"}, c))
	require.Equal(t, "rl:route:GET /v1/board", buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "route"}, c))
}

func TestRequestLoggerHandlesErrors(t *testing.T) {
	e := echo.New()
	e.Use(RequestLogger())
	e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusTeapot, "short and stout") })

	rec := serve(e, http.MethodGet, "/boom")
	require.Equal(t, http.StatusTeapot, rec.Code)
}
