package repository

import (
	"context"
	"strings"
	"time"

	"github.com/flytau/airline-reservation/internal/model"
)

// FlightSearchQuery is a typed set of optional predicates for flight
// search.  Each set field becomes one parameterized WHERE condition;
// values are never interpolated into the SQL text.  Status and
// AllStatuses are honored only for the manager view; customers always
// see bookable flights (future, Active, seats available).
type FlightSearchQuery struct {
	Origin      string
	Destination string
	// DateFrom restricts to flights departing on or after this day.
	DateFrom *time.Time
	// Status filters by exact flight status (manager only).
	Status model.FlightStatus
	// ManagerView includes all statuses and drops the availability
	// requirement.
	ManagerView bool
}

// FlightRow is one search result: flight, route and derived seat
// availability (total seats of the aircraft minus seats reserved by
// Active bookings).
type FlightRow struct {
	ID                 uint64             `json:"id"`
	Origin             string             `json:"origin"`
	Destination        string             `json:"destination"`
	DurationMin        uint32             `json:"duration_min"`
	AircraftID         string             `json:"aircraft_id"`
	DepartsAt          time.Time          `json:"departs_at"`
	ArrivesAt          time.Time          `json:"arrives_at"`
	Status             model.FlightStatus `json:"status"`
	PriceEconomyCents  uint32             `json:"price_economy_cents"`
	PriceBusinessCents uint32             `json:"price_business_cents"`
	AvailableSeats     int64              `json:"available_seats"`
}

// Search runs the flight search.  The WHERE clause is assembled from the
// query's set fields; results are ordered by departure ascending for
// customers and descending (newest schedule first) for managers.
func (r *FlightRepo) Search(ctx context.Context, q FlightSearchQuery, now time.Time) ([]FlightRow, error) {
	where := []string{}
	args := []any{}

	if !q.ManagerView {
		where = append(where, "f.status = 'Active'")
		if q.DateFrom == nil {
			where = append(where, "f.departs_at >= ?")
			args = append(args, now)
		}
	} else if q.Status != "" {
		where = append(where, "f.status = ?")
		args = append(args, string(q.Status))
	}
	if q.Origin != "" {
		where = append(where, "r.origin = ?")
		args = append(args, q.Origin)
	}
	if q.Destination != "" {
		where = append(where, "r.destination = ?")
		args = append(args, q.Destination)
	}
	if q.DateFrom != nil {
		where = append(where, "f.departs_at >= ?")
		args = append(args, *q.DateFrom)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	sqlText := `SELECT f.id, r.origin, r.destination, r.duration_min, f.aircraft_id,
	                   f.departs_at, ` + arrivalExpr + ` AS arrives_at, f.status,
	                   f.price_economy_cents, f.price_business_cents,
	                   (SELECT COUNT(*) FROM seats s WHERE s.aircraft_id = f.aircraft_id) -
	                   (SELECT COUNT(*) FROM reserved_seats rs
	                    JOIN bookings b ON b.ref = rs.booking_ref
	                    WHERE rs.flight_id = f.id AND b.status = 'Active') AS available_seats
	            FROM flights f
	            JOIN routes r ON r.id = f.route_id
	            WHERE ` + cond
	if !q.ManagerView {
		sqlText += " HAVING available_seats > 0"
	}
	if q.ManagerView {
		sqlText += " ORDER BY f.departs_at DESC"
	} else {
		sqlText += " ORDER BY f.departs_at"
	}

	rows, err := r.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]FlightRow, 0)
	for rows.Next() {
		var fr FlightRow
		if err := rows.Scan(&fr.ID, &fr.Origin, &fr.Destination, &fr.DurationMin, &fr.AircraftID,
			&fr.DepartsAt, &fr.ArrivesAt, &fr.Status,
			&fr.PriceEconomyCents, &fr.PriceBusinessCents, &fr.AvailableSeats); err != nil {
			return nil, err
		}
		out = append(out, fr)
	}
	return out, rows.Err()
}
