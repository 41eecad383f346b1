package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/flytau/airline-reservation/internal/model"
	"github.com/flytau/airline-reservation/internal/sched"
)

// arrivalExpr is the SQL form of the effective-arrival rule: the recorded
// arrival when present, otherwise departure plus the route duration.
// Queries that order or overlap by arrival time must all use this
// expression so the engine and the datastore agree on the chain tail.
const arrivalExpr = "COALESCE(f.arrives_at, DATE_ADD(f.departs_at, INTERVAL r.duration_min MINUTE))"

// querier is the subset of *sql.DB and *sql.Tx the store needs, so the
// same queries can run standalone or inside a caller-owned transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SchedStore implements the sched package's store interfaces
// (ChainStore, CandidateStore, ReconcileStore) over MySQL.
type SchedStore struct {
	db querier
}

// NewSchedStore returns a SchedStore bound to the given database.
func NewSchedStore(db *sql.DB) *SchedStore { return &SchedStore{db: db} }

// WithTx returns a view of the store that runs every query inside the
// given transaction.  Flight creation uses it so eligibility
// re-validation and the resulting writes commit or roll back together.
func (s *SchedStore) WithTx(tx *sql.Tx) *SchedStore { return &SchedStore{db: tx} }

// assignmentJoin returns the FROM/JOIN clause and the resource-id column
// for a kind's assignment chain.  Aircraft are assigned directly on the
// flight row; crew through their insert-only link tables.
func assignmentJoin(kind sched.ResourceKind) (from, idCol string, ok bool) {
	switch kind {
	case sched.KindAircraft:
		return "flights f JOIN routes r ON r.id = f.route_id", "f.aircraft_id", true
	case sched.KindPilot:
		return "flight_pilots l JOIN flights f ON f.id = l.flight_id JOIN routes r ON r.id = f.route_id", "l.employee_id", true
	case sched.KindAttendant:
		return "flight_cabin_crew l JOIN flights f ON f.id = l.flight_id JOIN routes r ON r.id = f.route_id", "l.employee_id", true
	}
	return "", "", false
}

// ChainTail returns the destination and effective arrival of the
// resource's latest non-cancelled flight, or nil when the resource has
// no assignment history.
func (s *SchedStore) ChainTail(ctx context.Context, kind sched.ResourceKind, resourceID string) (*sched.ChainTail, error) {
	from, idCol, ok := assignmentJoin(kind)
	if !ok {
		return nil, ErrNotFound
	}
	q := `SELECT r.destination, ` + arrivalExpr + ` AS arrival_dt
	      FROM ` + from + `
	      WHERE ` + idCol + ` = ? AND f.status != 'Cancelled'
	      ORDER BY arrival_dt DESC
	      LIMIT 1`
	var tail sched.ChainTail
	err := s.db.QueryRowContext(ctx, q, resourceID).Scan(&tail.Destination, &tail.ArrivesAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tail, nil
}

// AircraftFreeBetween lists aircraft with no non-cancelled flight
// overlapping the half-open [start, end) window.  The overlap test is
// departure < end AND effective arrival > start, so exact touching does
// not conflict.  With bigOnly set, Small aircraft are excluded.
func (s *SchedStore) AircraftFreeBetween(ctx context.Context, start, end time.Time, bigOnly bool) ([]model.Aircraft, error) {
	q := `SELECT a.id, a.manufacturer, a.size, a.purchase_date, a.created_at
	      FROM aircraft a
	      WHERE 1=1`
	args := []any{}
	if bigOnly {
		q += " AND a.size = 'Big'"
	}
	q += ` AND a.id NOT IN (
	          SELECT f.aircraft_id
	          FROM flights f
	          JOIN routes r ON r.id = f.route_id
	          WHERE f.status != 'Cancelled'
	            AND f.departs_at < ?
	            AND ` + arrivalExpr + ` > ?
	      )
	      ORDER BY a.id`
	args = append(args, end, start)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Aircraft, 0)
	for rows.Next() {
		var a model.Aircraft
		if err := rows.Scan(&a.ID, &a.Manufacturer, &a.Size, &a.PurchaseDate, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CrewFreeBetween lists crew of one role with no overlapping
// non-cancelled flight in the window, optionally restricted to qualified
// members (long flights).
func (s *SchedStore) CrewFreeBetween(ctx context.Context, role model.CrewRole, start, end time.Time, qualifiedOnly bool) ([]model.CrewMember, error) {
	table, link := crewTables(role)
	q := `SELECT c.employee_id, c.first_name, c.last_name, c.phone, c.start_date,
	             c.city, c.street, c.house_num, c.is_qualified, c.created_at
	      FROM ` + table + ` c
	      WHERE 1=1`
	if qualifiedOnly {
		q += " AND c.is_qualified = 1"
	}
	q += ` AND c.employee_id NOT IN (
	          SELECT l.employee_id
	          FROM ` + link + ` l
	          JOIN flights f ON f.id = l.flight_id
	          JOIN routes r ON r.id = f.route_id
	          WHERE f.status != 'Cancelled'
	            AND f.departs_at < ?
	            AND ` + arrivalExpr + ` > ?
	      )
	      ORDER BY c.employee_id`

	rows, err := s.db.QueryContext(ctx, q, end, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.CrewMember, 0)
	for rows.Next() {
		m, err := scanCrewMember(rows, role)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// CrewByIDs loads crew members of one role by employee id.  Missing ids
// are simply absent from the result; callers compare lengths.
func (s *SchedStore) CrewByIDs(ctx context.Context, role model.CrewRole, ids []string) ([]model.CrewMember, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	table, _ := crewTables(role)
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	q := `SELECT c.employee_id, c.first_name, c.last_name, c.phone, c.start_date,
	             c.city, c.street, c.house_num, c.is_qualified, c.created_at
	      FROM ` + table + ` c
	      WHERE c.employee_id IN (` + strings.Join(placeholders, ",") + `)`
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.CrewMember, 0, len(ids))
	for rows.Next() {
		m, err := scanCrewMember(rows, role)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ResourceBusyBetween reports whether the resource already has a
// non-cancelled flight overlapping the half-open [start, end) window.
func (s *SchedStore) ResourceBusyBetween(ctx context.Context, kind sched.ResourceKind, resourceID string, start, end time.Time) (bool, error) {
	from, idCol, ok := assignmentJoin(kind)
	if !ok {
		return true, nil
	}
	q := `SELECT EXISTS (
	          SELECT 1 FROM ` + from + `
	          WHERE ` + idCol + ` = ?
	            AND f.status != 'Cancelled'
	            AND f.departs_at < ?
	            AND ` + arrivalExpr + ` > ?
	      )`
	var busy bool
	if err := s.db.QueryRowContext(ctx, q, resourceID, end, start).Scan(&busy); err != nil {
		return true, err
	}
	return busy, nil
}

// MarkDepartedFlightsPerformed is reconciliation step 1: Active/Full
// flights whose departure has passed become Performed.
func (s *SchedStore) MarkDepartedFlightsPerformed(ctx context.Context, now time.Time) (int64, error) {
	const q = `UPDATE flights
	           SET status = 'Performed'
	           WHERE departs_at <= ? AND status IN ('Active', 'Full')`
	res, err := s.db.ExecContext(ctx, q, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// MarkBookingsOnPerformedFlights is reconciliation step 2: Active
// bookings whose flight is Performed become Performed.
func (s *SchedStore) MarkBookingsOnPerformedFlights(ctx context.Context) (int64, error) {
	const q = `UPDATE bookings b
	           JOIN flights f ON f.id = b.flight_id
	           SET b.status = 'Performed'
	           WHERE f.status = 'Performed' AND b.status = 'Active'`
	res, err := s.db.ExecContext(ctx, q)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SyncOccupancyStatus is reconciliation step 3: every flight still
// Active/Full is set to Full when Active bookings occupy all seats of
// its aircraft, Active otherwise.  Performed and Cancelled flights are
// never touched.
func (s *SchedStore) SyncOccupancyStatus(ctx context.Context) (int64, error) {
	const q = `UPDATE flights f
	           JOIN (
	               SELECT f.id,
	                      (SELECT COUNT(*) FROM seats s WHERE s.aircraft_id = f.aircraft_id) AS total_seats,
	                      (SELECT COUNT(*) FROM reserved_seats rs
	                       JOIN bookings b ON b.ref = rs.booking_ref
	                       WHERE rs.flight_id = f.id AND b.status = 'Active') AS occupied_seats
	               FROM flights f
	               WHERE f.status IN ('Active', 'Full')
	           ) calc ON calc.id = f.id
	           SET f.status = CASE
	               WHEN calc.occupied_seats >= calc.total_seats THEN 'Full'
	               ELSE 'Active'
	           END
	           WHERE f.status IN ('Active', 'Full')`
	res, err := s.db.ExecContext(ctx, q)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func crewTables(role model.CrewRole) (table, link string) {
	if role == model.RolePilot {
		return "pilots", "flight_pilots"
	}
	return "cabin_crew", "flight_cabin_crew"
}

func scanCrewMember(rows *sql.Rows, role model.CrewRole) (model.CrewMember, error) {
	var m model.CrewMember
	m.Role = role
	err := rows.Scan(&m.EmployeeID, &m.FirstName, &m.LastName, &m.Phone, &m.StartDate,
		&m.City, &m.Street, &m.HouseNum, &m.IsQualified, &m.CreatedAt)
	return m, err
}
