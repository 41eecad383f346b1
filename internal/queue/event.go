// Package queue defines the payloads exchanged over the message broker
// and the background consumer that turns them into passenger
// notifications.
package queue

// Queue names used by both the publisher and the consumer.
const (
	BookingConfirmedQueue = "booking.confirmed"
	FlightCancelledQueue  = "flight.cancelled"
)

// BookingConfirmedEvent is published when a booking is created.  It
// carries enough context for downstream consumers to notify the
// passenger without querying the primary database.
type BookingConfirmedEvent struct {
	BookingRef      string   `json:"booking_ref"`
	CustomerEmail   string   `json:"customer_email"`
	FlightID        uint64   `json:"flight_id"`
	Origin          string   `json:"origin"`
	Destination     string   `json:"destination"`
	DepartsAt       string   `json:"departs_at"`
	Seats           []string `json:"seats"`
	TotalPriceCents uint64   `json:"total_price_cents"`
	ConfirmedAt     string   `json:"confirmed_at"`
}

// FlightCancelledEvent is published when a manager cancels a flight.
// Every affected booking gets its own event so consumers can notify
// each passenger about the refund.
type FlightCancelledEvent struct {
	FlightID      uint64 `json:"flight_id"`
	BookingRef    string `json:"booking_ref"`
	CustomerEmail string `json:"customer_email"`
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartsAt     string `json:"departs_at"`
	RefundCents   uint64 `json:"refund_cents"`
	CancelledAt   string `json:"cancelled_at"`
}
