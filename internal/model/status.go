package model

// FlightStatus is the closed set of flight lifecycle states.  The zero
// value is not a valid status; flights are created Active.  Active and
// Full are interchangeable (occupancy-driven), Performed and Cancelled
// are terminal.
type FlightStatus string

const (
	FlightActive    FlightStatus = "Active"
	FlightFull      FlightStatus = "Full"
	FlightPerformed FlightStatus = "Performed"
	FlightCancelled FlightStatus = "Cancelled"
)

// Terminal reports whether no further transition is allowed out of s.
func (s FlightStatus) Terminal() bool {
	return s == FlightPerformed || s == FlightCancelled
}

// CanTransition reports whether moving from s to next is a legal flight
// state change.  Active and Full flip between each other as occupancy
// changes; either may become Performed (departure time passed) or
// Cancelled (manager action).  Terminal states accept nothing.
func (s FlightStatus) CanTransition(next FlightStatus) bool {
	if s.Terminal() {
		return false
	}
	switch next {
	case FlightActive, FlightFull, FlightPerformed, FlightCancelled:
		return true
	}
	return false
}

// Valid reports whether s is one of the four known flight statuses.
func (s FlightStatus) Valid() bool {
	switch s {
	case FlightActive, FlightFull, FlightPerformed, FlightCancelled:
		return true
	}
	return false
}

// BookingStatus is the closed set of booking lifecycle states.  Bookings
// only ever move forward: Active is the sole non-terminal state.
type BookingStatus string

const (
	BookingActive             BookingStatus = "Active"
	BookingPerformed          BookingStatus = "Performed"
	BookingCancelledByCustomer BookingStatus = "Cancelled by Customer"
	BookingCancelledBySystem  BookingStatus = "Cancelled by System"
)

// Terminal reports whether no further transition is allowed out of s.
func (s BookingStatus) Terminal() bool {
	return s != BookingActive
}

// CanTransition reports whether moving from s to next is a legal booking
// state change.  Every transition starts at Active and ends in a
// terminal state.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	if s != BookingActive {
		return false
	}
	switch next {
	case BookingPerformed, BookingCancelledByCustomer, BookingCancelledBySystem:
		return true
	}
	return false
}

// Valid reports whether s is one of the four known booking statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingActive, BookingPerformed, BookingCancelledByCustomer, BookingCancelledBySystem:
		return true
	}
	return false
}
