package model

import "time"

// Booking groups the seats a customer reserved on one flight.  The
// reference is an 8-character uppercase alphanumeric token generated at
// creation and used as the primary key; guests identify their booking by
// reference + email.  TotalPriceCents is mutated exactly once on
// cancellation: to the 5% fee (customer cancel) or to zero (system
// cancel).
type Booking struct {
	Ref             string        // bookings.ref
	Email           string        // bookings.email
	FlightID        uint64        // bookings.flight_id
	TotalPriceCents uint32        // bookings.total_price_cents
	Status          BookingStatus // bookings.status
	CreatedAt       time.Time     // bookings.created_at
}

// ReservedSeat is an exclusive claim on one seat for the life of an
// Active booking.  FlightID is denormalized from the booking so the
// UNIQUE (flight_id, row_num, col_letter) key can arbitrate concurrent
// reservations; rows are deleted when the booking is cancelled, freeing
// the seat.
type ReservedSeat struct {
	BookingRef string // reserved_seats.booking_ref
	FlightID   uint64 // reserved_seats.flight_id
	AircraftID string // reserved_seats.aircraft_id
	RowNum     uint32 // reserved_seats.row_num
	ColLetter  string // reserved_seats.col_letter
}
