package model

import "time"

// AircraftSize classifies the fleet.  Size drives the seat layout at
// registration time, the required crew headcount and the long-flight
// restriction (long routes take Big aircraft only).
type AircraftSize string

const (
	AircraftSmall AircraftSize = "Small"
	AircraftBig   AircraftSize = "Big"
)

// Valid reports whether s is a known aircraft size.
func (s AircraftSize) Valid() bool {
	return s == AircraftSmall || s == AircraftBig
}

// SeatClass is the cabin class of a single seat.
type SeatClass string

const (
	SeatEconomy  SeatClass = "Economy"
	SeatBusiness SeatClass = "Business"
)

// Aircraft represents one airframe in the fleet.  The seat layout is
// generated once at registration and is immutable afterwards.
//
// Fields:
//  ID           – tail number chosen by the manager at registration.
//  Manufacturer – free-text manufacturer name.
//  Size         – Small or Big.
//  PurchaseDate – date the aircraft joined the fleet.
//  CreatedAt    – timestamp when the record was created.
type Aircraft struct {
	ID           string       // aircraft.id
	Manufacturer string       // aircraft.manufacturer
	Size         AircraftSize // aircraft.size
	PurchaseDate time.Time    // aircraft.purchase_date
	CreatedAt    time.Time    // aircraft.created_at
}

// Seat is one position in an aircraft's fixed layout, identified by
// (aircraft, row, column letter).  Created at aircraft registration,
// never mutated.
type Seat struct {
	AircraftID string    // seats.aircraft_id
	RowNum     uint32    // seats.row_num
	ColLetter  string    // seats.col_letter (A, B, C, ...)
	Class      SeatClass // seats.class
}
