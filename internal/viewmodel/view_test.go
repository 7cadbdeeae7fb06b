package viewmodel

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/reservation-dashboard/internal/model"
)

func testOptions(t *testing.T) Options {
	return Options{Mapper: newTestMapper(t), UnitPrice: decimal.NewFromInt(100), Currency: "CZK"}
}

func TestBuildReadyView(t *testing.T) {
	rs := []model.Reservation{
		booking("a", 1, at(9, 0), at(10, 0), model.PaymentPending),
		booking("b", 2, at(13, 0), at(14, 0), model.PaymentPaid),
		{OrderID: "broken", Name: "Broken", Place: 2, Day: testDay, Invalid: true},
	}
	s := NewViewState(testDay)
	s.Mode = ModeTimetable

	v := Build(s, Input{Date: testDay, Reservations: rs}, testOptions(t), at(12, 0))

	require.Equal(t, StatusReady, v.Status)
	require.Equal(t, []string{"b", "broken"}, itemIDs(v.Items))
	require.Equal(t, "paid", v.Items[0].Status)
	require.Equal(t, "invalid", v.Items[1].Status)
	require.True(t, v.Items[0].Amount.Equal(decimal.NewFromInt(200)))
	require.Equal(t, []int{2}, v.Places)
	require.Equal(t, []string{"broken"}, v.Skipped)
	require.Len(t, v.Timetable, 1)
	require.Len(t, v.Timeline, 1)
	require.Len(t, v.Axis, 24)
	require.InDelta(t, 960, v.ColumnHeight, 1e-9)

	require.Equal(t, 3, v.Stats.Total)
	require.Equal(t, 2, v.Stats.PendingCount)
	require.Equal(t, "CZK", v.Currency)
	require.Equal(t, "CZK", v.Stats.Currency)
}

func TestBuildListModeHasNoGeometry(t *testing.T) {
	rs := []model.Reservation{booking("b", 2, at(13, 0), at(14, 0), model.PaymentPaid)}
	v := Build(NewViewState(testDay), Input{Date: testDay, Reservations: rs}, testOptions(t), at(8, 0))
	require.Equal(t, StatusReady, v.Status)
	require.Nil(t, v.Timetable)
	require.Nil(t, v.Timeline)
}

func TestBuildErrorNeverShowsData(t *testing.T) {
	rs := []model.Reservation{booking("b", 2, at(13, 0), at(14, 0), model.PaymentPaid)}
	v := Build(NewViewState(testDay), Input{Date: testDay, Reservations: rs, Err: errors.New("boom")}, testOptions(t), at(8, 0))
	require.Equal(t, StatusError, v.Status)
	require.NotEmpty(t, v.Error)
	require.Empty(t, v.Items)
}

func TestBuildSnapshotForOtherDateIsLoading(t *testing.T) {
	rs := []model.Reservation{booking("b", 2, at(13, 0), at(14, 0), model.PaymentPaid)}
	v := Build(NewViewState(testDay.AddDays(1)), Input{Date: testDay, Reservations: rs}, testOptions(t), at(8, 0))
	require.Equal(t, StatusLoading, v.Status)
	require.Empty(t, v.Items)
}

func TestBuildFailureForOtherDateIsLoading(t *testing.T) {
	v := Build(NewViewState(testDay.AddDays(1)), Input{Date: testDay, Err: errors.New("boom")}, testOptions(t), at(8, 0))
	require.Equal(t, StatusLoading, v.Status)
	require.Empty(t, v.Error)
}

func TestBuildEmpty(t *testing.T) {
	v := Build(NewViewState(testDay), Input{Date: testDay}, testOptions(t), at(8, 0))
	require.Equal(t, StatusEmpty, v.Status)
	require.Len(t, v.Calendar.Cells, 31)
}

func itemIDs(items []ListItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Reservation.OrderID)
	}
	return out
}
