package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

const createReservation = `
INSERT INTO reservation (customer_name, phone, date, time, guests)
VALUES ($1, $2, $3, $4, $5)
RETURNING res_id, customer_name, phone, date, time, guests
`

type CreateReservationParams struct {
	CustomerName string
	Phone        string
	Date         time.Time
	Time         string
	Guests       int32
}

func (q *Queries) CreateReservation(ctx context.Context, arg CreateReservationParams) (Reservation, error) {
	var r Reservation
	err := q.db.QueryRow(ctx, createReservation,
		arg.CustomerName, arg.Phone, arg.Date, arg.Time, arg.Guests).
		Scan(&r.ResID, &r.CustomerName, &r.Phone, &r.Date, &r.Time, &r.Guests)
	return r, err
}

const listReservations = `
SELECT res_id, customer_name, phone, date, time, guests
FROM reservation
ORDER BY date, time
`

func (q *Queries) ListReservations(ctx context.Context) ([]Reservation, error) {
	rows, err := q.db.Query(ctx, listReservations)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []Reservation
	for rows.Next() {
		var r Reservation
		if err := rows.Scan(&r.ResID, &r.CustomerName, &r.Phone, &r.Date, &r.Time, &r.Guests); err != nil {
			return nil, err
		}
		reservations = append(reservations, r)
	}
	return reservations, rows.Err()
}

const updateReservation = `
UPDATE reservation
SET customer_name = $2, phone = $3, date = $4, time = $5, guests = $6
WHERE res_id = $1
RETURNING res_id, customer_name, phone, date, time, guests
`

type UpdateReservationParams struct {
	ResID        int64
	CustomerName string
	Phone        string
	Date         time.Time
	Time         string
	Guests       int32
}

func (q *Queries) UpdateReservation(ctx context.Context, arg UpdateReservationParams) (Reservation, error) {
	var r Reservation
	err := q.db.QueryRow(ctx, updateReservation,
		arg.ResID, arg.CustomerName, arg.Phone, arg.Date, arg.Time, arg.Guests).
		Scan(&r.ResID, &r.CustomerName, &r.Phone, &r.Date, &r.Time, &r.Guests)
	return r, err
}

const deleteReservation = `
DELETE FROM reservation WHERE res_id = $1
`

func (q *Queries) DeleteReservation(ctx context.Context, resID int64) error {
	tag, err := q.db.Exec(ctx, deleteReservation, resID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
