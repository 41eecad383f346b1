package model

import "time"

// Route is immutable reference data describing a flyable leg.  Duration
// drives both the derived arrival time of flights on the route and the
// long-flight rules (Big aircraft + qualified crew above LongFlightMinutes).
//
// Fields:
//  ID          – primary key identifier.
//  Origin      – IATA-style origin airport code.
//  Destination – IATA-style destination airport code.
//  DurationMin – scheduled duration in minutes.
//  CreatedAt   – timestamp when the route was created.
type Route struct {
	ID          uint64    // routes.id
	Origin      string    // routes.origin
	Destination string    // routes.destination
	DurationMin uint32    // routes.duration_min
	CreatedAt   time.Time // routes.created_at
}

// LongFlightMinutes is the duration threshold above which a flight is
// considered long, restricting it to Big aircraft and qualified crew.
const LongFlightMinutes = 360

// IsLong reports whether flights on this route are long flights.
func (r Route) IsLong() bool {
	return r.DurationMin > LongFlightMinutes
}

// Duration returns the route duration as a time.Duration.
func (r Route) Duration() time.Duration {
	return time.Duration(r.DurationMin) * time.Minute
}
