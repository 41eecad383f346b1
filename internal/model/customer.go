package model

import "time"

// Customer is the base customer record keyed by email.  It exists for
// both registered customers and guests who booked without an account.
type Customer struct {
	Email     string    // customers.email
	FirstName string    // customers.first_name
	LastName  string    // customers.last_name
	CreatedAt time.Time // customers.created_at
}

// RegisteredCustomer extends Customer with login credentials and
// identity documents.  Only registered customers can list their booking
// history; guests manage bookings via reference + email lookup.
//
// Fields:
//  Email        – references customers.email (primary key).
//  PassportNum  – passport number supplied at registration.
//  BirthDate    – date of birth.
//  PasswordHash – bcrypt hashed password.
//  RegisterDate – date the account was created.
type RegisteredCustomer struct {
	Email        string    // registered_customers.email
	PassportNum  string    // registered_customers.passport_num
	BirthDate    time.Time // registered_customers.birth_date
	PasswordHash string    // registered_customers.password_hash
	RegisterDate time.Time // registered_customers.register_date
}
