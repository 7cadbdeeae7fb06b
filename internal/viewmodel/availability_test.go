package viewmodel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/reservation-dashboard/internal/model"
)

func TestFreeGapsPerPlace(t *testing.T) {
	w, _ := NewWindow(9, 21)
	rs := []model.Reservation{
		booking("a", 1, at(10, 0), at(11, 0), model.PaymentPaid),
		booking("b", 1, at(11, 0), at(12, 30), model.PaymentPaid),
		booking("c", 2, at(9, 0), at(20, 0), model.PaymentPaid),
	}

	got := FreeGaps(rs, testDay, []int{3, 1, 2}, w, time.UTC, time.Hour)
	require.Len(t, got, 3)

	require.Equal(t, 1, got[0].Place)
	require.Len(t, got[0].Gaps, 2)
	require.True(t, got[0].Gaps[0].Start.Equal(at(9, 0)))
	require.True(t, got[0].Gaps[0].End.Equal(at(10, 0)))
	require.True(t, got[0].Gaps[1].Start.Equal(at(12, 30)))
	require.True(t, got[0].Gaps[1].End.Equal(at(21, 0)))
	require.InDelta(t, 510, got[0].Gaps[1].Minutes, 1e-9)

	require.Equal(t, 2, got[1].Place)
	require.Len(t, got[1].Gaps, 1)
	require.True(t, got[1].Gaps[0].Start.Equal(at(20, 0)))

	require.Equal(t, 3, got[2].Place)
	require.Len(t, got[2].Gaps, 1)
	require.InDelta(t, 720, got[2].Gaps[0].Minutes, 1e-9)
}

func TestFreeGapsToleratesOverlap(t *testing.T) {
	w, _ := NewWindow(9, 21)
	rs := []model.Reservation{
		booking("a", 1, at(10, 0), at(13, 0), model.PaymentPaid),
		booking("b", 1, at(11, 0), at(12, 0), model.PaymentPaid),
	}
	got := FreeGaps(rs, testDay, nil, w, time.UTC, 0)
	require.Len(t, got, 1)
	require.Len(t, got[0].Gaps, 2)
	require.True(t, got[0].Gaps[1].Start.Equal(at(13, 0)))
}

func TestFreeSlotsStride(t *testing.T) {
	w, _ := NewWindow(9, 12)
	rs := []model.Reservation{booking("a", 1, at(10, 0), at(11, 0), model.PaymentPaid)}
	gaps := FreeGaps(rs, testDay, []int{1, 2}, w, time.UTC, 0)

	slots := FreeSlots(gaps, time.Hour, at(0, 0), time.UTC)
	labels := make([]string, 0, len(slots))
	for _, s := range slots {
		labels = append(labels, s.Label)
	}
	require.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00"}, labels)
	require.Equal(t, []int{1, 2}, slots[0].Places)
	require.Equal(t, []int{2}, slots[2].Places)
	require.Equal(t, []int{1, 2}, slots[4].Places)

	later := FreeSlots(gaps, time.Hour, at(10, 15), time.UTC)
	require.Equal(t, "10:30", later[0].Label)
}
