package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/flytau/airline-reservation/internal/booking"
	"github.com/flytau/airline-reservation/internal/model"
)

// BookingRepo provides access to bookings and their reserved seats.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning multiple repositories.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// CreateWithSeatsTx inserts a booking and its seat claims inside the
// given transaction.  The reference is generated here and retried a
// bounded number of times on a primary-key collision; the populated
// reference is written back to b.  A duplicate on the
// (flight, row, column) seat key means another Active booking holds one
// of the requested seats and surfaces as ErrConflict; the database
// arbitrates the race, no application locking.
func (r *BookingRepo) CreateWithSeatsTx(ctx context.Context, tx *sql.Tx, b *model.Booking, seats []model.ReservedSeat) error {
	const insBooking = `INSERT INTO bookings (ref, email, flight_id, total_price_cents, status)
	                    VALUES (?, ?, ?, ?, 'Active')`
	inserted := false
	for attempt := 0; attempt < 3; attempt++ {
		ref, err := booking.NewRef()
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, insBooking, ref, b.Email, b.FlightID, b.TotalPriceCents)
		if err == nil {
			b.Ref = ref
			b.Status = model.BookingActive
			inserted = true
			break
		}
		if !isDuplicateKey(err) {
			return err
		}
	}
	if !inserted {
		return ErrRefExhausted
	}

	if len(seats) == 0 {
		return nil
	}
	q := `INSERT INTO reserved_seats (booking_ref, flight_id, aircraft_id, row_num, col_letter) VALUES `
	args := make([]any, 0, len(seats)*5)
	for i, s := range seats {
		if i > 0 {
			q += ","
		}
		q += "(?, ?, ?, ?, ?)"
		args = append(args, b.Ref, s.FlightID, s.AircraftID, s.RowNum, s.ColLetter)
	}
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

// BookingDetail is a booking joined with flight and route metadata and a
// readable seat list, for history and dashboard views.
type BookingDetail struct {
	Ref             string              `json:"ref"`
	Email           string              `json:"email"`
	FlightID        uint64              `json:"flight_id"`
	Origin          string              `json:"origin"`
	Destination     string              `json:"destination"`
	DepartsAt       time.Time           `json:"departs_at"`
	Status          model.BookingStatus `json:"status"`
	TotalPriceCents uint32              `json:"total_price_cents"`
	Seats           []SeatRef           `json:"seats"`
	CreatedAt       time.Time           `json:"created_at"`
}

// SeatRef identifies one reserved seat with its cabin class.
type SeatRef struct {
	RowNum    uint32          `json:"row"`
	ColLetter string          `json:"col"`
	Class     model.SeatClass `json:"class"`
}

const bookingDetailSelect = `SELECT b.ref, b.email, b.flight_id, r.origin, r.destination,
	       f.departs_at, b.status, b.total_price_cents, b.created_at
	FROM bookings b
	JOIN flights f ON f.id = b.flight_id
	JOIN routes r ON r.id = f.route_id`

// ListByEmail returns a customer's bookings, newest first, optionally
// filtered by status, each with its seat list.
func (r *BookingRepo) ListByEmail(ctx context.Context, email string, status model.BookingStatus) ([]BookingDetail, error) {
	q := bookingDetailSelect + ` WHERE b.email = ?`
	args := []any{email}
	if status != "" {
		q += " AND b.status = ?"
		args = append(args, string(status))
	}
	q += " ORDER BY b.created_at DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]BookingDetail, 0)
	for rows.Next() {
		var d BookingDetail
		if err := rows.Scan(&d.Ref, &d.Email, &d.FlightID, &d.Origin, &d.Destination,
			&d.DepartsAt, &d.Status, &d.TotalPriceCents, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Seats = []SeatRef{}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range details {
		seats, err := r.seatsOf(ctx, details[i].Ref)
		if err != nil {
			return nil, err
		}
		details[i].Seats = seats
	}
	return details, nil
}

// GetByRef returns one booking with its seats, or ErrNotFound.
func (r *BookingRepo) GetByRef(ctx context.Context, ref string) (*BookingDetail, error) {
	q := bookingDetailSelect + ` WHERE b.ref = ?`
	var d BookingDetail
	err := r.db.QueryRowContext(ctx, q, ref).Scan(&d.Ref, &d.Email, &d.FlightID, &d.Origin,
		&d.Destination, &d.DepartsAt, &d.Status, &d.TotalPriceCents, &d.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	seats, err := r.seatsOf(ctx, d.Ref)
	if err != nil {
		return nil, err
	}
	d.Seats = seats
	return &d, nil
}

// GetActiveByRefAndEmail returns a guest's Active booking identified by
// reference and email, or ErrNotFound.  Terminal bookings are not
// returned through this path.
func (r *BookingRepo) GetActiveByRefAndEmail(ctx context.Context, ref, email string) (*BookingDetail, error) {
	q := bookingDetailSelect + ` WHERE b.ref = ? AND b.email = ? AND b.status = 'Active'`
	var d BookingDetail
	err := r.db.QueryRowContext(ctx, q, ref, email).Scan(&d.Ref, &d.Email, &d.FlightID, &d.Origin,
		&d.Destination, &d.DepartsAt, &d.Status, &d.TotalPriceCents, &d.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	seats, err := r.seatsOf(ctx, d.Ref)
	if err != nil {
		return nil, err
	}
	d.Seats = seats
	return &d, nil
}

// ListByFlight returns the bookings on one flight with the given
// status.  Flight cancellation uses it to snapshot the refunds before
// the cascade zeroes them.
func (r *BookingRepo) ListByFlight(ctx context.Context, flightID uint64, status model.BookingStatus) ([]model.Booking, error) {
	const q = `SELECT ref, email, flight_id, total_price_cents, status, created_at
	           FROM bookings WHERE flight_id = ? AND status = ?`
	rows, err := r.db.QueryContext(ctx, q, flightID, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.Ref, &b.Email, &b.FlightID, &b.TotalPriceCents, &b.Status, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// CancelByCustomerTx marks an Active booking Cancelled by Customer,
// replaces its total price with the fee and releases its seats, all
// inside the given transaction.  The status guard in the UPDATE makes
// the operation a no-op on already-terminal bookings; that case returns
// ErrConflict so the caller never double-cancels.
func (r *BookingRepo) CancelByCustomerTx(ctx context.Context, tx *sql.Tx, ref string, feeCents uint32) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE bookings
		 SET status = 'Cancelled by Customer', total_price_cents = ?
		 WHERE ref = ? AND status = 'Active'`, feeCents, ref)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM reserved_seats WHERE booking_ref = ?`, ref); err != nil {
		return err
	}
	return nil
}

func (r *BookingRepo) seatsOf(ctx context.Context, ref string) ([]SeatRef, error) {
	const q = `SELECT rs.row_num, rs.col_letter, s.class
	           FROM reserved_seats rs
	           JOIN seats s ON s.aircraft_id = rs.aircraft_id
	                       AND s.row_num = rs.row_num
	                       AND s.col_letter = rs.col_letter
	           WHERE rs.booking_ref = ?
	           ORDER BY rs.row_num, rs.col_letter`
	rows, err := r.db.QueryContext(ctx, q, ref)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]SeatRef, 0)
	for rows.Next() {
		var s SeatRef
		if err := rows.Scan(&s.RowNum, &s.ColLetter, &s.Class); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
