package repository

import (
	"context"
	"database/sql"

	"github.com/flytau/airline-reservation/internal/model"
)

// CrewRepo manages employees: managers, pilots and cabin crew.  The
// three tables share one employee-id namespace, enforced at creation by
// checking all of them.  Flight assignments themselves are written by
// FlightRepo.CreateWithCrewTx; this repository never touches the link
// tables.
type CrewRepo struct {
	db *sql.DB
}

// NewCrewRepo returns a CrewRepo bound to the given database.
func NewCrewRepo(db *sql.DB) *CrewRepo { return &CrewRepo{db: db} }

// EmployeeIDTaken reports whether the employee id already exists in any
// of the managers, pilots or cabin_crew tables.
func (r *CrewRepo) EmployeeIDTaken(ctx context.Context, employeeID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM managers WHERE employee_id = ?)
	                OR EXISTS (SELECT 1 FROM pilots WHERE employee_id = ?)
	                OR EXISTS (SELECT 1 FROM cabin_crew WHERE employee_id = ?)`
	var taken bool
	if err := r.db.QueryRowContext(ctx, q, employeeID, employeeID, employeeID).Scan(&taken); err != nil {
		return false, err
	}
	return taken, nil
}

// CreateManager inserts a manager with a hashed password.
func (r *CrewRepo) CreateManager(ctx context.Context, m *model.Manager) error {
	const q = `INSERT INTO managers (employee_id, first_name, last_name, phone, start_date,
	                                 city, street, house_num, password_hash)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, m.EmployeeID, m.FirstName, m.LastName, m.Phone,
		m.StartDate, m.City, m.Street, m.HouseNum, m.PasswordHash)
	if isDuplicateKey(err) {
		return ErrConflict
	}
	return err
}

// CreateCrewMember inserts a pilot or attendant according to the
// member's Role.
func (r *CrewRepo) CreateCrewMember(ctx context.Context, m *model.CrewMember) error {
	table, _ := crewTables(m.Role)
	q := `INSERT INTO ` + table + ` (employee_id, first_name, last_name, phone, start_date,
	                                 city, street, house_num, is_qualified)
	      VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, m.EmployeeID, m.FirstName, m.LastName, m.Phone,
		m.StartDate, m.City, m.Street, m.HouseNum, m.IsQualified)
	if isDuplicateKey(err) {
		return ErrConflict
	}
	return err
}

// GetManager returns a manager by employee id or ErrNotFound.
func (r *CrewRepo) GetManager(ctx context.Context, employeeID string) (*model.Manager, error) {
	const q = `SELECT employee_id, first_name, last_name, phone, start_date,
	                  city, street, house_num, password_hash, created_at
	           FROM managers WHERE employee_id = ?`
	var m model.Manager
	err := r.db.QueryRowContext(ctx, q, employeeID).Scan(&m.EmployeeID, &m.FirstName, &m.LastName,
		&m.Phone, &m.StartDate, &m.City, &m.Street, &m.HouseNum, &m.PasswordHash, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListCrew returns all crew members of one role ordered by employee id.
func (r *CrewRepo) ListCrew(ctx context.Context, role model.CrewRole) ([]model.CrewMember, error) {
	table, _ := crewTables(role)
	q := `SELECT employee_id, first_name, last_name, phone, start_date,
	             city, street, house_num, is_qualified, created_at
	      FROM ` + table + ` ORDER BY employee_id`
	rows, err := r.db.QueryContext(ctx, q)
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
