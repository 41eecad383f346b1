package repository

import (
	"context"
	"database/sql"

	"github.com/flytau/airline-reservation/internal/model"
)

// AircraftRepo provides access to aircraft and their immutable seat
// layouts.  Registration inserts the aircraft row and the full seat grid
// in one transaction; seats are never written again afterwards.
type AircraftRepo struct {
	db *sql.DB
}

// NewAircraftRepo returns an AircraftRepo bound to the given database.
func NewAircraftRepo(db *sql.DB) *AircraftRepo { return &AircraftRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning multiple repositories.
func (r *AircraftRepo) DB() *sql.DB { return r.db }

// Register inserts the aircraft and its generated seat layout as one
// unit of work.  Big aircraft get business rows first, then economy;
// Small aircraft get economy only.  Column letters run A, B, C, ...
// Returns ErrConflict when the tail number is already registered.
func (r *AircraftRepo) Register(ctx context.Context, a *model.Aircraft, busRows, busCols, ecoRows, ecoCols uint32) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const ins = `INSERT INTO aircraft (id, manufacturer, size, purchase_date) VALUES (?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, ins, a.ID, a.Manufacturer, a.Size, a.PurchaseDate); err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}

	seats := buildLayout(a.ID, a.Size, busRows, busCols, ecoRows, ecoCols)
	if err := createSeatsBulkTx(ctx, tx, seats); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// buildLayout produces the seat grid for a new aircraft.  Row numbering
// is continuous across classes: business rows 1..busRows, economy
// continuing from there.
func buildLayout(aircraftID string, size model.AircraftSize, busRows, busCols, ecoRows, ecoCols uint32) []model.Seat {
	var seats []model.Seat
	row := uint32(1)
	if size == model.AircraftBig {
		for ; row <= busRows; row++ {
			for c := uint32(0); c < busCols; c++ {
				seats = append(seats, model.Seat{
					AircraftID: aircraftID,
					RowNum:     row,
					ColLetter:  string(rune('A' + c)),
					Class:      model.SeatBusiness,
				})
			}
		}
	}
	for end := row + ecoRows; row < end; row++ {
		for c := uint32(0); c < ecoCols; c++ {
			seats = append(seats, model.Seat{
				AircraftID: aircraftID,
				RowNum:     row,
				ColLetter:  string(rune('A' + c)),
				Class:      model.SeatEconomy,
			})
		}
	}
	return seats
}

// createSeatsBulkTx inserts all seats in a single statement.
func createSeatsBulkTx(ctx context.Context, tx *sql.Tx, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (aircraft_id, row_num, col_letter, class) VALUES `
	args := make([]any, 0, len(seats)*4)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, s.AircraftID, s.RowNum, s.ColLetter, s.Class)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// GetByID returns one aircraft or ErrNotFound.
func (r *AircraftRepo) GetByID(ctx context.Context, id string) (*model.Aircraft, error) {
	const q = `SELECT id, manufacturer, size, purchase_date, created_at FROM aircraft WHERE id = ?`
	var a model.Aircraft
	err := r.db.QueryRowContext(ctx, q, id).Scan(&a.ID, &a.Manufacturer, &a.Size, &a.PurchaseDate, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns the whole fleet ordered by tail number.
func (r *AircraftRepo) List(ctx context.Context) ([]model.Aircraft, error) {
	const q = `SELECT id, manufacturer, size, purchase_date, created_at FROM aircraft ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
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

// Seats returns the full layout of an aircraft ordered business first,
// then by row and column.
func (r *AircraftRepo) Seats(ctx context.Context, aircraftID string) ([]model.Seat, error) {
	const q = `SELECT aircraft_id, row_num, col_letter, class
	           FROM seats
	           WHERE aircraft_id = ?
	           ORDER BY class DESC, row_num, col_letter`
	rows, err := r.db.QueryContext(ctx, q, aircraftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.AircraftID, &s.RowNum, &s.ColLetter, &s.Class); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SeatClassesTx resolves the cabin class of each requested (row, column)
// position within a transaction.  Returns ErrNotFound if any position
// does not exist in the aircraft's layout.
func (r *AircraftRepo) SeatClassesTx(ctx context.Context, tx *sql.Tx, aircraftID string, positions []model.ReservedSeat) ([]model.SeatClass, error) {
	classes := make([]model.SeatClass, len(positions))
	const q = `SELECT class FROM seats WHERE aircraft_id = ? AND row_num = ? AND col_letter = ?`
	for i, p := range positions {
		var cl model.SeatClass
		err := tx.QueryRowContext(ctx, q, aircraftID, p.RowNum, p.ColLetter).Scan(&cl)
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		classes[i] = cl
	}
	return classes, nil
}
