package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReservationDecodePandasRecord(t *testing.T) {
	raw := `{
		"id": 4, "order_id": "A-100", "telegram_id": "77", "name": "Anna", "type": "b",
		"place": 2, "period": 2.0, "day": "2024-01-01T00:00:00.000Z",
		"time_from": "2024-01-01T09:00:00.000Z", "time_to": "2024-01-01T10:00:00.000Z",
		"sum": 1332.0, "payed": "True"
	}`
	var r Reservation
	require.NoError(t, json.Unmarshal([]byte(raw), &r))

	require.Equal(t, "A-100", r.OrderID)
	require.Equal(t, "77", r.TelegramID)
	require.Equal(t, 2, r.Place)
	require.Equal(t, 2, r.Period)
	require.Equal(t, NewDate(2024, time.January, 1), r.Day)
	require.Equal(t, PaymentPaid, r.Payed)
	require.True(t, r.Valid())
	require.Equal(t, time.Hour, r.Duration())
	require.NotNil(t, r.Sum)
	require.InDelta(t, 1332.0, *r.Sum, 0.001)
}

func TestReservationDecodeEpochMillis(t *testing.T) {
	from := time.Date(2024, time.June, 3, 14, 0, 0, 0, time.UTC)
	raw := `{"order_id": 9, "name": "Bob", "place": "3", "payed": false,
		"time_from": ` + jsonInt(from.UnixMilli()) + `,
		"time_to": ` + jsonInt(from.Add(30*time.Minute).UnixMilli()) + `}`
	var r Reservation
	require.NoError(t, json.Unmarshal([]byte(raw), &r))

	require.Equal(t, "9", r.OrderID)
	require.Equal(t, 3, r.Place)
	require.True(t, r.TimeFrom.Equal(from))
	require.Equal(t, PaymentPending, r.Payed)
	require.True(t, r.Day.IsZero())
	require.True(t, r.Valid())
}

func TestReservationDecodeMalformedIsFlagged(t *testing.T) {
	raw := `{"order_id": "X", "name": "Eve", "place": 1, "time_from": "yesterday", "time_to": null}`
	var r Reservation
	require.NoError(t, json.Unmarshal([]byte(raw), &r))

	require.True(t, r.Invalid)
	require.False(t, r.Valid())
	require.Len(t, r.Problems, 2)
	require.Equal(t, time.Duration(0), r.Duration())
}

func TestReservationDecodeReversedInterval(t *testing.T) {
	raw := `{"order_id": "R", "place": 1, "time_from": "2024-01-01T10:00:00Z", "time_to": "2024-01-01T09:00:00Z"}`
	var r Reservation
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	require.True(t, r.Invalid)
	require.Contains(t, r.Problems, "time_to is not after time_from")
}

func TestReservationListDecodeKeepsBadRecords(t *testing.T) {
	raw := `[{"order_id": "A", "place": 1, "time_from": "2024-01-01T09:00:00Z", "time_to": "2024-01-01T10:00:00Z"},
		{"order_id": "B", "place": "x"}]`
	var list []Reservation
	require.NoError(t, json.Unmarshal([]byte(raw), &list))
	require.Len(t, list, 2)
	require.True(t, list[0].Valid())
	require.True(t, list[1].Invalid)
}

func TestReservationEncodeCanonical(t *testing.T) {
	r := Reservation{
		OrderID:  "A",
		Name:     "Anna",
		Place:    1,
		Day:      NewDate(2024, time.January, 1),
		TimeFrom: time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC),
		TimeTo:   time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC),
		Payed:    PaymentPaid,
		Period:   2,
	}
	b, err := json.Marshal(r)
	require.NoError(t, err)

	var back Reservation
	require.NoError(t, json.Unmarshal(b, &back))
	require.Equal(t, r.OrderID, back.OrderID)
	require.Equal(t, r.Day, back.Day)
	require.Equal(t, PaymentPaid, back.Payed)
	require.True(t, back.TimeFrom.Equal(r.TimeFrom))
	require.False(t, back.Invalid)
}

func TestReservationWithEditsKeepsBookkeeping(t *testing.T) {
	sum := 666.0
	created := time.Date(2023, time.December, 30, 12, 0, 0, 0, time.UTC)
	stored := Reservation{
		OrderID: "A", TelegramID: "77", Name: "Anna", Type: "b", Place: 1,
		Day: NewDate(2024, time.January, 1), Payed: PaymentPending, Period: 2,
		Sum: &sum, PaymentConfirmationLink: "https://pay.example/a", CreatedAt: &created,
		Invalid: true, Problems: []string{"time_from: missing"},
	}
	edit := Reservation{
		OrderID: "A", Name: "Anna B", Type: "h", Place: 2,
		Day:      NewDate(2024, time.January, 2),
		TimeFrom: time.Date(2024, time.January, 2, 9, 0, 0, 0, time.UTC),
		TimeTo:   time.Date(2024, time.January, 2, 10, 0, 0, 0, time.UTC),
		Payed:    PaymentPaid, Period: 2,
	}

	out := stored.WithEdits(edit)
	require.Equal(t, "Anna B", out.Name)
	require.Equal(t, 2, out.Place)
	require.Equal(t, edit.Day, out.Day)
	require.Equal(t, PaymentPaid, out.Payed)
	require.Equal(t, "77", out.TelegramID)
	require.Equal(t, &sum, out.Sum)
	require.Equal(t, "https://pay.example/a", out.PaymentConfirmationLink)
	require.Equal(t, &created, out.CreatedAt)
	require.False(t, out.Invalid)
	require.Empty(t, out.Problems)

	b, err := json.Marshal(out)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(b, &body))
	for _, k := range []string{"order_id", "telegram_id", "name", "type", "place", "day", "time_from", "time_to", "payed", "period", "sum", "payment_confirmation_link", "created_at"} {
		require.Contains(t, body, k)
	}
}

func jsonInt(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}
