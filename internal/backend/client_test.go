package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/reservation-dashboard/internal/model"
	"github.com/iliyamo/reservation-dashboard/internal/snapshot"
)

var _ snapshot.Source = (*Client)(nil)

func TestListByDay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/reservations", r.URL.Path)
		require.Equal(t, "2024-01-01", r.URL.Query().Get("date"))
		_, _ = io.WriteString(w, `[{"order_id":"A","name":"Anna","place":1,"payed":"False",
			"time_from":"2024-01-01T09:00:00.000Z","time_to":"2024-01-01T10:00:00.000Z","day":"2024-01-01"}]`)
	}))
	defer srv.Close()

	c := New(srv.URL+"/", time.Second)
	rs, err := c.ListByDay(context.Background(), model.NewDate(2024, time.January, 1))
	require.NoError(t, err)
	require.Len(t, rs, 1)
	require.Equal(t, model.PaymentPending, rs[0].Payed)
	require.True(t, rs[0].Valid())
}

func TestListByDayFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "db down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).ListByDay(context.Background(), model.NewDate(2024, time.January, 1))
	var se *StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusBadGateway, se.Code)
	require.Equal(t, "db down", se.Body)
}

func TestListByDayNullBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `null`)
	}))
	defer srv.Close()

	rs, err := New(srv.URL, time.Second).ListByDay(context.Background(), model.NewDate(2024, time.January, 1))
	require.NoError(t, err)
	require.NotNil(t, rs)
	require.Empty(t, rs)
}

func TestUpdateSendsCanonicalBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/reservations/A 1", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, true, body["payed"])
		require.Equal(t, "Anna B", body["name"])
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	in := model.Reservation{OrderID: "A 1", Name: "Anna B", Payed: model.PaymentPaid}
	out, err := New(srv.URL, time.Second).Update(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, "Anna B", out.Name)
}

func TestUpdateReturnsServerRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"order_id":"A","name":"Server Name","place":1,"payed":true,
			"time_from":"2024-01-01T09:00:00Z","time_to":"2024-01-01T10:00:00Z"}`)
	}))
	defer srv.Close()

	out, err := New(srv.URL, time.Second).Update(context.Background(), model.Reservation{OrderID: "A", Name: "x"})
	require.NoError(t, err)
	require.Equal(t, "Server Name", out.Name)
}

func TestUpdateNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success": false}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Update(context.Background(), model.Reservation{OrderID: "A"})
	require.ErrorIs(t, err, snapshot.ErrNotFound)
}

func TestDeleteNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/reservations/gone":
			_, _ = io.WriteString(w, `{"success": false}`)
		case "/api/reservations/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			_, _ = io.WriteString(w, `{"success": true}`)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	require.ErrorIs(t, c.Delete(context.Background(), "gone"), snapshot.ErrNotFound)
	require.ErrorIs(t, c.Delete(context.Background(), "missing"), snapshot.ErrNotFound)
	require.NoError(t, c.Delete(context.Background(), "ok"))
}

func TestGlobalStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/stats", r.URL.Path)
		_, _ = io.WriteString(w, `{"todayBookings": 7, "pendingPayments": 2}`)
	}))
	defer srv.Close()

	st, err := New(srv.URL, time.Second).GlobalStats(context.Background())
	require.NoError(t, err)
	require.Equal(t, model.GlobalStats{TodayBookings: 7, PendingPayments: 2}, st)
}
