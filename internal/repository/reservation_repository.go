// Package repository reads and writes reservations stored in MySQL.  It is
// an alternative snapshot.Source for deployments that share the booking
// bot's database instead of going through its REST API.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/iliyamo/reservation-dashboard/internal/model"
	"github.com/iliyamo/reservation-dashboard/internal/snapshot"
)

// ReservationRepo implements snapshot.Source over the reservations table.
// DATETIME columns are stored in UTC; loc is only used to decide what
// "today" means for GlobalStats.
type ReservationRepo struct {
	db  *sql.DB
	loc *time.Location
	now func() time.Time
}

// NewReservationRepo returns a new ReservationRepo bound to db.
func NewReservationRepo(db *sql.DB, loc *time.Location) *ReservationRepo {
	if loc == nil {
		loc = time.UTC
	}
	return &ReservationRepo{db: db, loc: loc, now: time.Now}
}

const selectColumns = `SELECT order_id, telegram_id, name, type, place, period, day,
	time_from, time_to, sum, payed, payment_confirmation_link, created_at
	FROM reservations`

// reservationRow mirrors the nullable schema of the reservations table.
type reservationRow struct {
	OrderID     string
	TelegramID  sql.NullString
	Name        sql.NullString
	Type        sql.NullString
	Place       sql.NullInt64
	Period      sql.NullFloat64
	Day         sql.NullTime
	TimeFrom    sql.NullTime
	TimeTo      sql.NullTime
	Sum         sql.NullFloat64
	Payed       sql.NullBool
	PaymentLink sql.NullString
	CreatedAt   sql.NullTime
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(s scanner) (reservationRow, error) {
	var row reservationRow
	err := s.Scan(&row.OrderID, &row.TelegramID, &row.Name, &row.Type, &row.Place,
		&row.Period, &row.Day, &row.TimeFrom, &row.TimeTo, &row.Sum, &row.Payed,
		&row.PaymentLink, &row.CreatedAt)
	return row, err
}

// toModel converts a row, flagging the same problems the JSON decoder does.
func (row reservationRow) toModel() model.Reservation {
	r := model.Reservation{
		OrderID:                 row.OrderID,
		TelegramID:              row.TelegramID.String,
		Name:                    row.Name.String,
		Type:                    row.Type.String,
		PaymentConfirmationLink: row.PaymentLink.String,
	}
	problem := func(format string, args ...any) {
		r.Invalid = true
		r.Problems = append(r.Problems, fmt.Sprintf(format, args...))
	}

	if r.OrderID == "" {
		problem("missing order_id")
	}
	if row.Place.Valid {
		r.Place = int(row.Place.Int64)
	} else {
		problem("invalid place <nil>")
	}
	if row.Period.Valid {
		r.Period = int(math.Round(row.Period.Float64))
	}
	if row.Sum.Valid {
		sum := row.Sum.Float64
		r.Sum = &sum
	}
	if row.Day.Valid {
		r.Day = model.DateOf(row.Day.Time, time.UTC)
	}
	if row.Payed.Valid {
		if row.Payed.Bool {
			r.Payed = model.PaymentPaid
		} else {
			r.Payed = model.PaymentPending
		}
	}
	if row.TimeFrom.Valid {
		r.TimeFrom = row.TimeFrom.Time.UTC()
	} else {
		problem("time_from: missing")
	}
	if row.TimeTo.Valid {
		r.TimeTo = row.TimeTo.Time.UTC()
	} else {
		problem("time_to: missing")
	}
	if row.TimeFrom.Valid && row.TimeTo.Valid && !r.TimeTo.After(r.TimeFrom) {
		problem("time_to is not after time_from")
	}
	if row.CreatedAt.Valid {
		created := row.CreatedAt.Time.UTC()
		r.CreatedAt = &created
	}
	return r
}

// ListByDay returns the reservations whose logical day is day, ordered by
// start time.
func (r *ReservationRepo) ListByDay(ctx context.Context, day model.Date) ([]model.Reservation, error) {
	const q = selectColumns + ` WHERE day = ? ORDER BY time_from, order_id`
	rows, err := r.db.QueryContext(ctx, q, day.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Reservation{}
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row.toModel())
	}
	return out, rows.Err()
}

// Get returns one reservation by order id.
func (r *ReservationRepo) Get(ctx context.Context, orderID string) (model.Reservation, error) {
	const q = selectColumns + ` WHERE order_id = ?`
	row, err := scanRow(r.db.QueryRowContext(ctx, q, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, snapshot.ErrNotFound
	}
	if err != nil {
		return model.Reservation{}, err
	}
	return row.toModel(), nil
}

// Update overwrites the editable columns and returns the stored record.
func (r *ReservationRepo) Update(ctx context.Context, res model.Reservation) (model.Reservation, error) {
	const q = `UPDATE reservations SET name = ?, type = ?, place = ?, period = ?, day = ?,
		time_from = ?, time_to = ?, payed = ? WHERE order_id = ?`
	result, err := r.db.ExecContext(ctx, q,
		res.Name, res.Type, res.Place, res.Period, nullDate(res.Day),
		nullTime(res.TimeFrom), nullTime(res.TimeTo), nullPayed(res.Payed), res.OrderID)
	if err != nil {
		return model.Reservation{}, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return model.Reservation{}, err
	}
	if n == 0 {
		return model.Reservation{}, snapshot.ErrNotFound
	}
	return r.Get(ctx, res.OrderID)
}

// Delete removes a reservation by order id.
func (r *ReservationRepo) Delete(ctx context.Context, orderID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE order_id = ?`, orderID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return snapshot.ErrNotFound
	}
	return nil
}

// GlobalStats counts today's reservations and those not marked paid.
func (r *ReservationRepo) GlobalStats(ctx context.Context) (model.GlobalStats, error) {
	const q = `SELECT COUNT(*), COALESCE(SUM(CASE WHEN payed IS NULL OR payed = 0 THEN 1 ELSE 0 END), 0)
		FROM reservations WHERE day = ?`
	today := model.DateOf(r.now(), r.loc)
	var st model.GlobalStats
	if err := r.db.QueryRowContext(ctx, q, today.String()).Scan(&st.TodayBookings, &st.PendingPayments); err != nil {
		return model.GlobalStats{}, err
	}
	return st, nil
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func nullDate(d model.Date) sql.NullString {
	if d.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func nullPayed(p model.PaymentStatus) sql.NullBool {
	switch p {
	case model.PaymentPaid:
		return sql.NullBool{Bool: true, Valid: true}
	case model.PaymentPending:
		return sql.NullBool{Valid: true}
	}
	return sql.NullBool{}
}
