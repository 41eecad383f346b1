package repository

import (
	"context"
	"database/sql"

	"github.com/flytau/airline-reservation/internal/model"
)

// CustomerRepo manages customer identity: the base customer record
// (shared by guests and account holders), registered accounts and phone
// numbers.
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo returns a CustomerRepo bound to the given database.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

// EnsureCustomer creates the base customer record if the email is not
// known yet.  Called from registration and from guest checkout; a
// concurrent insert of the same email is treated as success.
func (r *CustomerRepo) EnsureCustomer(ctx context.Context, c *model.Customer) error {
	const q = `SELECT email FROM customers WHERE email = ?`
	var existing string
	err := r.db.QueryRowContext(ctx, q, c.Email).Scan(&existing)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return err
	}
	const ins = `INSERT INTO customers (email, first_name, last_name) VALUES (?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, ins, c.Email, c.FirstName, c.LastName); err != nil {
		if isDuplicateKey(err) {
			return nil
		}
		return err
	}
	return nil
}

// CreateRegistered inserts a registered-customer account.  Returns
// ErrConflict when the email already has an account.
func (r *CustomerRepo) CreateRegistered(ctx context.Context, rc *model.RegisteredCustomer) error {
	const q = `INSERT INTO registered_customers (email, passport_num, birth_date, password_hash, register_date)
	           VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, rc.Email, rc.PassportNum, rc.BirthDate, rc.PasswordHash, rc.RegisterDate)
	if isDuplicateKey(err) {
		return ErrConflict
	}
	return err
}

// GetRegistered returns a registered customer by email or ErrNotFound.
func (r *CustomerRepo) GetRegistered(ctx context.Context, email string) (*model.RegisteredCustomer, error) {
	const q = `SELECT email, passport_num, birth_date, password_hash, register_date
	           FROM registered_customers WHERE email = ?`
	var rc model.RegisteredCustomer
	err := r.db.QueryRowContext(ctx, q, email).Scan(&rc.Email, &rc.PassportNum, &rc.BirthDate,
		&rc.PasswordHash, &rc.RegisterDate)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rc, nil
}

// AddPhones stores phone numbers for a customer, ignoring duplicates.
func (r *CustomerRepo) AddPhones(ctx context.Context, email string, phones []string) error {
	const q = `INSERT IGNORE INTO customer_phones (email, phone) VALUES (?, ?)`
	for _, p := range phones {
		if p == "" {
			continue
		}
		if _, err := r.db.ExecContext(ctx, q, email, p); err != nil {
			return err
		}
	}
	return nil
}
