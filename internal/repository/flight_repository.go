package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/flytau/airline-reservation/internal/model"
)

// FlightRepo provides access to flights and their crew assignments.
// Crew assignment rows are written exclusively by CreateWithCrewTx and
// never updated afterwards; cancellation invalidates them implicitly by
// marking the flight Cancelled.  That single write path is what keeps
// every resource's schedule a linear chain.
type FlightRepo struct {
	db *sql.DB
}

// NewFlightRepo returns a FlightRepo bound to the given database.
func NewFlightRepo(db *sql.DB) *FlightRepo { return &FlightRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning multiple repositories.
func (r *FlightRepo) DB() *sql.DB { return r.db }

// CreateWithCrewTx inserts the flight and its pilot/attendant assignment
// rows inside the given transaction.  The flight starts Active; the
// recorded arrival is set to departure plus route duration.  The caller
// must have validated the assignment (sched.Resolver.ValidateAssignment)
// on the same transaction before calling this.
func (r *FlightRepo) CreateWithCrewTx(ctx context.Context, tx *sql.Tx, f *model.Flight, pilotIDs, attendantIDs []string) error {
	const q = `INSERT INTO flights (route_id, aircraft_id, departs_at, arrives_at, status,
	                                price_economy_cents, price_business_cents)
	           VALUES (?, ?, ?, ?, 'Active', ?, ?)`
	res, err := tx.ExecContext(ctx, q, f.RouteID, f.AircraftID, f.DepartsAt, f.ArrivesAt,
		f.PriceEconomyCents, f.PriceBusinessCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	f.Status = model.FlightActive

	for _, link := range []struct {
		table string
		ids   []string
	}{
		{"flight_pilots", pilotIDs},
		{"flight_cabin_crew", attendantIDs},
	} {
		if len(link.ids) == 0 {
			continue
		}
		q := `INSERT INTO ` + link.table + ` (flight_id, employee_id) VALUES `
		args := make([]any, 0, len(link.ids)*2)
		for i, id := range link.ids {
			if i > 0 {
				q += ","
			}
			q += "(?, ?)"
			args = append(args, f.ID, id)
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			if isDuplicateKey(err) {
				return ErrConflict
			}
			return err
		}
	}
	return nil
}

// GetByID returns one flight or ErrNotFound.
func (r *FlightRepo) GetByID(ctx context.Context, id uint64) (*model.Flight, error) {
	const q = `SELECT id, route_id, aircraft_id, departs_at, arrives_at, status,
	                  price_economy_cents, price_business_cents, created_at
	           FROM flights WHERE id = ?`
	var f model.Flight
	var arrives sql.NullTime
	err := r.db.QueryRowContext(ctx, q, id).Scan(&f.ID, &f.RouteID, &f.AircraftID, &f.DepartsAt,
		&arrives, &f.Status, &f.PriceEconomyCents, &f.PriceBusinessCents, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if arrives.Valid {
		t := arrives.Time
		f.ArrivesAt = &t
	}
	return &f, nil
}

// FlightDetail joins a flight with its route and aircraft metadata for
// display and booking flows.
type FlightDetail struct {
	Flight   model.Flight
	Route    model.Route
	Aircraft model.Aircraft
}

// GetDetail returns a flight with its route and aircraft, or
// ErrNotFound.
func (r *FlightRepo) GetDetail(ctx context.Context, id uint64) (*FlightDetail, error) {
	const q = `SELECT f.id, f.route_id, f.aircraft_id, f.departs_at, f.arrives_at, f.status,
	                  f.price_economy_cents, f.price_business_cents, f.created_at,
	                  r.id, r.origin, r.destination, r.duration_min, r.created_at,
	                  a.id, a.manufacturer, a.size, a.purchase_date, a.created_at
	           FROM flights f
	           JOIN routes r ON r.id = f.route_id
	           JOIN aircraft a ON a.id = f.aircraft_id
	           WHERE f.id = ?`
	var d FlightDetail
	var arrives sql.NullTime
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&d.Flight.ID, &d.Flight.RouteID, &d.Flight.AircraftID, &d.Flight.DepartsAt, &arrives,
		&d.Flight.Status, &d.Flight.PriceEconomyCents, &d.Flight.PriceBusinessCents, &d.Flight.CreatedAt,
		&d.Route.ID, &d.Route.Origin, &d.Route.Destination, &d.Route.DurationMin, &d.Route.CreatedAt,
		&d.Aircraft.ID, &d.Aircraft.Manufacturer, &d.Aircraft.Size, &d.Aircraft.PurchaseDate, &d.Aircraft.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if arrives.Valid {
		t := arrives.Time
		d.Flight.ArrivesAt = &t
	}
	return &d, nil
}

// CancelCascadeTx cancels a flight and everything hanging off it inside
// the given transaction: the flight becomes Cancelled, every Active
// booking becomes Cancelled by System with its price reset to zero, and
// all reserved seats of the flight's bookings are deleted.  The 72-hour
// window check is the caller's responsibility.
func (r *FlightRepo) CancelCascadeTx(ctx context.Context, tx *sql.Tx, flightID uint64) error {
	if _, err := tx.ExecContext(ctx,
		`UPDATE flights SET status = 'Cancelled' WHERE id = ?`, flightID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE bookings
		 SET status = 'Cancelled by System', total_price_cents = 0
		 WHERE flight_id = ? AND status = 'Active'`, flightID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM reserved_seats WHERE flight_id = ?`, flightID); err != nil {
		return err
	}
	return nil
}

// ReservedPositions returns the (row, column) positions currently
// claimed by Active bookings on the flight, for the seat map.
func (r *FlightRepo) ReservedPositions(ctx context.Context, flightID uint64) ([]model.ReservedSeat, error) {
	const q = `SELECT rs.booking_ref, rs.flight_id, rs.aircraft_id, rs.row_num, rs.col_letter
	           FROM reserved_seats rs
	           JOIN bookings b ON b.ref = rs.booking_ref
	           WHERE rs.flight_id = ? AND b.status = 'Active'
	           ORDER BY rs.row_num, rs.col_letter`
	rows, err := r.db.QueryContext(ctx, q, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.ReservedSeat, 0)
	for rows.Next() {
		var s model.ReservedSeat
		if err := rows.Scan(&s.BookingRef, &s.FlightID, &s.AircraftID, &s.RowNum, &s.ColLetter); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DepartsAt returns just the departure timestamp of a flight, used for
// cancellation window checks.
func (r *FlightRepo) DepartsAt(ctx context.Context, flightID uint64) (time.Time, model.FlightStatus, error) {
	const q = `SELECT departs_at, status FROM flights WHERE id = ?`
	var t time.Time
	var st model.FlightStatus
	err := r.db.QueryRowContext(ctx, q, flightID).Scan(&t, &st)
	if err == sql.ErrNoRows {
		return time.Time{}, "", ErrNotFound
	}
	if err != nil {
		return time.Time{}, "", err
	}
	return t, st, nil
}
