package model

import "time"

// Flight is a scheduled departure on a route with an assigned aircraft.
// DepartsAt is the scheduled departure timestamp.  ArrivesAt is optional;
// when nil the effective arrival is derived from the route duration.
// Crew assignments live in flight_pilots / flight_cabin_crew and are
// written only at flight creation.
//
// Fields:
//  ID                 – primary key identifier.
//  RouteID            – route being flown.
//  AircraftID         – assigned aircraft tail number.
//  DepartsAt          – scheduled departure (UTC).
//  ArrivesAt          – recorded arrival, nil when not explicitly set.
//  Status             – Active, Full, Performed or Cancelled.
//  PriceEconomyCents  – economy seat price in cents.
//  PriceBusinessCents – business seat price in cents.
//  CreatedAt          – timestamp when the flight was created.
type Flight struct {
	ID                 uint64       // flights.id
	RouteID            uint64       // flights.route_id
	AircraftID         string       // flights.aircraft_id
	DepartsAt          time.Time    // flights.departs_at
	ArrivesAt          *time.Time   // flights.arrives_at (nullable)
	Status             FlightStatus // flights.status
	PriceEconomyCents  uint32       // flights.price_economy_cents
	PriceBusinessCents uint32       // flights.price_business_cents
	CreatedAt          time.Time    // flights.created_at
}

// EffectiveArrival returns the recorded arrival when present, otherwise
// departure plus the route duration.  The same rule is expressed in SQL
// wherever queries order or overlap by arrival time.
func (f Flight) EffectiveArrival(route Route) time.Time {
	if f.ArrivesAt != nil {
		return *f.ArrivesAt
	}
	return f.DepartsAt.Add(route.Duration())
}
