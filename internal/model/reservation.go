package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Reservation is a booking of one place for a half-open interval
// [TimeFrom, TimeTo) on a logical Day.  Records are supplied by the backend
// and treated as immutable snapshots.
//
// Fields:
//
//	OrderID  – unique identifier, stable sort and group key.
//	Name     – client display name.
//	Type     – service category.
//	Place    – bookable resource identifier.
//	Day      – logical booking date, independent of the instant fields.
//	TimeFrom – start instant.
//	TimeTo   – end instant, after TimeFrom for valid records.
//	Payed    – normalised payment status.
//	Period   – number of half-hour units booked.
//
// Invalid and Problems are set at decode time when required fields are
// missing or unparseable.  Invalid records are kept for the list view but
// never laid out on a timeline.
type Reservation struct {
	OrderID                 string        `json:"order_id"`
	TelegramID              string        `json:"telegram_id"`
	Name                    string        `json:"name"`
	Type                    string        `json:"type"`
	Place                   int           `json:"place"`
	Day                     Date          `json:"day"`
	TimeFrom                time.Time     `json:"time_from"`
	TimeTo                  time.Time     `json:"time_to"`
	Payed                   PaymentStatus `json:"payed"`
	Period                  int           `json:"period"`
	Sum                     *float64      `json:"sum"`
	PaymentConfirmationLink string        `json:"payment_confirmation_link"`
	CreatedAt               *time.Time    `json:"created_at"`

	Invalid  bool     `json:"invalid,omitempty"`
	Problems []string `json:"problems,omitempty"`
}

// Valid reports whether r has a usable interval.
func (r Reservation) Valid() bool {
	return !r.Invalid && !r.TimeFrom.IsZero() && r.TimeTo.After(r.TimeFrom)
}

// Duration is the booked interval length, zero for invalid records.
func (r Reservation) Duration() time.Duration {
	if !r.Valid() {
		return 0
	}
	return r.TimeTo.Sub(r.TimeFrom)
}

// WithEdits returns r with the dashboard-editable fields of e laid over it.
// Bookkeeping fields of r are kept; e fills them only where r has none.
// The result is a full record suitable for a PUT, so the decode markers are
// cleared.
func (r Reservation) WithEdits(e Reservation) Reservation {
	out := r
	out.Name = e.Name
	out.Type = e.Type
	out.Place = e.Place
	out.Day = e.Day
	out.TimeFrom = e.TimeFrom
	out.TimeTo = e.TimeTo
	out.Payed = e.Payed
	out.Period = e.Period
	if out.TelegramID == "" {
		out.TelegramID = e.TelegramID
	}
	if out.Sum == nil {
		out.Sum = e.Sum
	}
	if out.PaymentConfirmationLink == "" {
		out.PaymentConfirmationLink = e.PaymentConfirmationLink
	}
	if out.CreatedAt == nil {
		out.CreatedAt = e.CreatedAt
	}
	out.Invalid, out.Problems = false, nil
	return out
}

// reservationWire mirrors the loosely typed JSON the backend emits.  Scalar
// fields are decoded as any so that numbers-as-strings and nulls survive.
type reservationWire struct {
	OrderID                 any             `json:"order_id"`
	TelegramID              any             `json:"telegram_id"`
	Name                    any             `json:"name"`
	Type                    any             `json:"type"`
	Place                   any             `json:"place"`
	Day                     json.RawMessage `json:"day"`
	TimeFrom                any             `json:"time_from"`
	TimeTo                  any             `json:"time_to"`
	Payed                   json.RawMessage `json:"payed"`
	Period                  any             `json:"period"`
	Sum                     any             `json:"sum"`
	PaymentConfirmationLink any             `json:"payment_confirmation_link"`
	CreatedAt               any             `json:"created_at"`
}

// UnmarshalJSON decodes a backend record.  It only fails on syntactically
// broken JSON; semantic problems mark the record Invalid instead.
func (r *Reservation) UnmarshalJSON(b []byte) error {
	var w reservationWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	out := Reservation{
		OrderID:                 asString(w.OrderID),
		TelegramID:              asString(w.TelegramID),
		Name:                    asString(w.Name),
		Type:                    asString(w.Type),
		PaymentConfirmationLink: asString(w.PaymentConfirmationLink),
	}
	problem := func(format string, args ...any) {
		out.Invalid = true
		out.Problems = append(out.Problems, fmt.Sprintf(format, args...))
	}

	if out.OrderID == "" {
		problem("missing order_id")
	}
	if place, ok := asInt(w.Place); ok {
		out.Place = place
	} else {
		problem("invalid place %v", w.Place)
	}
	if period, ok := asInt(w.Period); ok {
		out.Period = period
	}
	if f, ok := asFloat(w.Sum); ok {
		out.Sum = &f
	}
	if len(w.Day) > 0 {
		if err := out.Day.UnmarshalJSON(w.Day); err != nil {
			problem("invalid day: %v", err)
		}
	}
	if len(w.Payed) > 0 {
		if err := out.Payed.UnmarshalJSON(w.Payed); err != nil {
			return err
		}
	}

	var err error
	if out.TimeFrom, err = ParseInstant(w.TimeFrom); err != nil {
		problem("time_from: %v", err)
	}
	if out.TimeTo, err = ParseInstant(w.TimeTo); err != nil {
		problem("time_to: %v", err)
	}
	if !out.TimeFrom.IsZero() && !out.TimeTo.IsZero() && !out.TimeTo.After(out.TimeFrom) {
		problem("time_to is not after time_from")
	}
	if w.CreatedAt != nil {
		if t, err := ParseInstant(w.CreatedAt); err == nil {
			out.CreatedAt = &t
		}
	}

	*r = out
	return nil
}

var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

// ParseInstant accepts the timestamp encodings observed from the backend:
// RFC3339 (with or without fraction), naive ISO and SQL datetimes (read as
// UTC, matching the database convention) and epoch milliseconds.
func ParseInstant(v any) (time.Time, error) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, fmt.Errorf("missing")
	case float64:
		return time.UnixMilli(int64(t)).UTC(), nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, fmt.Errorf("missing")
		}
		for _, layout := range instantLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts, nil
			}
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.UnixMilli(ms).UTC(), nil
		}
		return time.Time{}, fmt.Errorf("unparseable %q", s)
	}
	return time.Time{}, fmt.Errorf("unsupported type %T", v)
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return fmt.Sprint(v)
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, !math.IsNaN(t)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

func asInt(v any) (int, bool) {
	f, ok := asFloat(v)
	if !ok {
		return 0, false
	}
	return int(math.Round(f)), true
}
