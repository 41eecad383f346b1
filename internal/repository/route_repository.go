package repository

import (
	"context"
	"database/sql"

	"github.com/flytau/airline-reservation/internal/model"
)

// RouteRepo provides access to the immutable route reference data.
type RouteRepo struct {
	db *sql.DB
}

// NewRouteRepo returns a RouteRepo bound to the given database.
func NewRouteRepo(db *sql.DB) *RouteRepo { return &RouteRepo{db: db} }

// Create inserts a new route and populates the generated ID.
func (r *RouteRepo) Create(ctx context.Context, rt *model.Route) error {
	const q = `INSERT INTO routes (origin, destination, duration_min) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, rt.Origin, rt.Destination, rt.DurationMin)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rt.ID = uint64(id)
	return nil
}

// GetByID returns one route or ErrNotFound.
func (r *RouteRepo) GetByID(ctx context.Context, id uint64) (*model.Route, error) {
	const q = `SELECT id, origin, destination, duration_min, created_at FROM routes WHERE id = ?`
	var rt model.Route
	err := r.db.QueryRowContext(ctx, q, id).Scan(&rt.ID, &rt.Origin, &rt.Destination, &rt.DurationMin, &rt.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

// List returns all routes ordered by origin then destination.
func (r *RouteRepo) List(ctx context.Context) ([]model.Route, error) {
	const q = `SELECT id, origin, destination, duration_min, created_at
	           FROM routes ORDER BY origin, destination`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Route, 0)
	for rows.Next() {
		var rt model.Route
		if err := rows.Scan(&rt.ID, &rt.Origin, &rt.Destination, &rt.DurationMin, &rt.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

// Airports returns the distinct origins and destinations across all
// routes, used to populate search filters.
func (r *RouteRepo) Airports(ctx context.Context) (origins, destinations []string, err error) {
	for _, col := range []string{"origin", "destination"} {
		rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT `+col+` FROM routes ORDER BY `+col)
		if err != nil {
			return nil, nil, err
		}
		var vals []string
		for rows.Next() {
			var v string
			if err := rows.Scan(&v); err != nil {
				rows.Close()
				return nil, nil, err
			}
			vals = append(vals, v)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, nil, err
		}
		rows.Close()
		if col == "origin" {
			origins = vals
		} else {
			destinations = vals
		}
	}
	return origins, destinations, nil
}
