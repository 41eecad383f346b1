package repository

import (
	"context"
	"database/sql"
)

// ReportRepo produces the management reports.  All reports are
// read-only aggregations; they never mutate state.
type ReportRepo struct {
	db *sql.DB
}

// NewReportRepo returns a ReportRepo bound to the given database.
func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{db: db} }

// AircraftMonthly summarizes one aircraft's month: performed and
// cancelled flight counts, utilization (performed flight hours against
// a 30-day month) and the most-flown route.
type AircraftMonthly struct {
	AircraftID       string   `json:"aircraft_id"`
	Month            string   `json:"month"`
	FlightsPerformed int64    `json:"flights_performed"`
	FlightsCancelled int64    `json:"flights_cancelled"`
	UtilizationPct   float64  `json:"utilization_pct"`
	DominantRoute    *string  `json:"dominant_route"`
}

// AircraftUtilization returns the monthly per-aircraft summary, newest
// month first.
func (r *ReportRepo) AircraftUtilization(ctx context.Context) ([]AircraftMonthly, error) {
	const q = `SELECT stats.aircraft_id, stats.month, stats.flights_performed, stats.flights_cancelled,
	                  ROUND((stats.performed_minutes / 60.0) / (30 * 24) * 100, 2) AS utilization_pct,
	                  (SELECT CONCAT(r.origin, '-', r.destination)
	                   FROM flights f
	                   JOIN routes r ON r.id = f.route_id
	                   WHERE f.aircraft_id = stats.aircraft_id
	                     AND DATE_FORMAT(f.departs_at, '%Y-%m') = stats.month
	                     AND f.status = 'Performed'
	                   GROUP BY r.origin, r.destination
	                   ORDER BY COUNT(*) DESC
	                   LIMIT 1) AS dominant_route
	           FROM (
	               SELECT f.aircraft_id,
	                      DATE_FORMAT(f.departs_at, '%Y-%m') AS month,
	                      SUM(CASE WHEN f.status = 'Performed' THEN 1 ELSE 0 END) AS flights_performed,
	                      SUM(CASE WHEN f.status = 'Cancelled' THEN 1 ELSE 0 END) AS flights_cancelled,
	                      COALESCE(SUM(CASE WHEN f.status = 'Performed' THEN r.duration_min ELSE 0 END), 0) AS performed_minutes
	               FROM flights f
	               JOIN routes r ON r.id = f.route_id
	               WHERE f.departs_at <= NOW()
	               GROUP BY f.aircraft_id, DATE_FORMAT(f.departs_at, '%Y-%m')
	           ) stats
	           ORDER BY stats.month DESC, stats.aircraft_id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]AircraftMonthly, 0)
	for rows.Next() {
		var m AircraftMonthly
		var dominant sql.NullString
		if err := rows.Scan(&m.AircraftID, &m.Month, &m.FlightsPerformed, &m.FlightsCancelled,
			&m.UtilizationPct, &dominant); err != nil {
			return nil, err
		}
		if dominant.Valid {
			d := dominant.String
			m.DominantRoute = &d
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// CancellationMonthly is the booking cancellation rate for one month.
type CancellationMonthly struct {
	Month            string  `json:"month"`
	TotalBookings    int64   `json:"total_bookings"`
	CancelledCount   int64   `json:"cancelled_count"`
	CancellationRate float64 `json:"cancellation_rate"`
}

// BookingCancellationRate returns monthly booking totals with the share
// of cancellations (customer and system alike), newest month first.
func (r *ReportRepo) BookingCancellationRate(ctx context.Context) ([]CancellationMonthly, error) {
	const q = `SELECT DATE_FORMAT(created_at, '%Y-%m') AS month,
	                  COUNT(*) AS total_bookings,
	                  SUM(CASE WHEN status LIKE 'Cancelled%' THEN 1 ELSE 0 END) AS cancelled_count,
	                  ROUND((SUM(CASE WHEN status LIKE 'Cancelled%' THEN 1 ELSE 0 END) / COUNT(*)) * 100, 2) AS cancellation_rate
	           FROM bookings
	           GROUP BY DATE_FORMAT(created_at, '%Y-%m')
	           ORDER BY month DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]CancellationMonthly, 0)
	for rows.Next() {
		var m CancellationMonthly
		if err := rows.Scan(&m.Month, &m.TotalBookings, &m.CancelledCount, &m.CancellationRate); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// RevenueRow is earned revenue grouped by aircraft size, manufacturer
// and seat class.
type RevenueRow struct {
	Size              string `json:"size"`
	Manufacturer      string `json:"manufacturer"`
	Class             string `json:"class"`
	TotalRevenueCents uint64 `json:"total_revenue_cents"`
}

// RevenueBySeatClass returns revenue per (size, manufacturer, class)
// over seats sold into bookings that were ever charged (Active,
// Performed or customer-cancelled; system cancellations are refunded in
// full and excluded).
func (r *ReportRepo) RevenueBySeatClass(ctx context.Context) ([]RevenueRow, error) {
	const q = `SELECT a.size, a.manufacturer, s.class,
	                  COALESCE(SUM(CASE
	                      WHEN s.class = 'Economy' THEN f.price_economy_cents
	                      WHEN s.class = 'Business' THEN f.price_business_cents
	                      ELSE 0
	                  END), 0) AS total_revenue_cents
	           FROM aircraft a
	           JOIN seats s ON s.aircraft_id = a.id
	           LEFT JOIN reserved_seats rs ON rs.aircraft_id = s.aircraft_id
	                                      AND rs.row_num = s.row_num
	                                      AND rs.col_letter = s.col_letter
	           LEFT JOIN bookings b ON b.ref = rs.booking_ref
	                               AND b.status IN ('Active', 'Performed', 'Cancelled by Customer')
	           LEFT JOIN flights f ON f.id = b.flight_id
	           GROUP BY a.size, a.manufacturer, s.class
	           ORDER BY total_revenue_cents DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]RevenueRow, 0)
	for rows.Next() {
		var m RevenueRow
		if err := rows.Scan(&m.Size, &m.Manufacturer, &m.Class, &m.TotalRevenueCents); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// AverageOccupancy returns the mean occupancy percentage across
// Performed flights, counting seats of Performed bookings.  The result
// is nil when no flights have been performed yet.
func (r *ReportRepo) AverageOccupancy(ctx context.Context) (*float64, error) {
	const q = `SELECT AVG((occupied_seats * 100.0) / total_seats)
	           FROM (
	               SELECT f.id,
	                      (SELECT COUNT(*) FROM seats s WHERE s.aircraft_id = f.aircraft_id) AS total_seats,
	                      (SELECT COUNT(*) FROM reserved_seats rs
	                       JOIN bookings b ON b.ref = rs.booking_ref
	                       WHERE rs.flight_id = f.id AND b.status = 'Performed') AS occupied_seats
	               FROM flights f
	               WHERE f.status = 'Performed'
	           ) calc`
	var avg sql.NullFloat64
	if err := r.db.QueryRowContext(ctx, q).Scan(&avg); err != nil {
		return nil, err
	}
	if !avg.Valid {
		return nil, nil
	}
	v := avg.Float64
	return &v, nil
}
