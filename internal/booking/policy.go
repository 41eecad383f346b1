// Package booking holds the booking lifecycle policy: seat pricing,
// cancellation windows and fees, and booking reference generation.  The
// rules are pure functions over timestamps and cent amounts so they can
// be exercised without a database.
package booking

import (
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"github.com/flytau/airline-reservation/internal/model"
)

const (
	// CustomerCancelWindow is the minimum time before departure at which
	// a customer may still cancel a booking.
	CustomerCancelWindow = 36 * time.Hour
	// FlightCancelWindow is the minimum time before departure at which a
	// manager may still cancel a flight.
	FlightCancelWindow = 72 * time.Hour
	// RefLength is the length of a booking reference.
	RefLength = 8
)

// Policy errors.  Both are PolicyViolation-class failures: the request is
// rejected with a specific reason and no state changes.
var (
	ErrCancelWindowClosed       = errors.New("bookings cannot be cancelled less than 36 hours before departure")
	ErrFlightCancelWindowClosed = errors.New("flights cannot be cancelled less than 72 hours before departure")
)

// CustomerCancelAllowed reports whether a booking on a flight departing
// at departsAt may still be cancelled by its customer at now.
func CustomerCancelAllowed(departsAt, now time.Time) bool {
	return departsAt.Sub(now) >= CustomerCancelWindow
}

// FlightCancelAllowed reports whether a flight departing at departsAt may
// still be cancelled by a manager at now.
func FlightCancelAllowed(departsAt, now time.Time) bool {
	return departsAt.Sub(now) >= FlightCancelWindow
}

// CancellationFee returns the amount charged when a customer cancels: 5%
// of the original total, in cents.  The fee replaces the booking's total
// price; it is not an additional charge.
func CancellationFee(totalCents uint32) uint32 {
	return totalCents * 5 / 100
}

// SeatPrice returns the price of one seat on a flight: the business
// price for business-class seats, the economy price for everything else.
func SeatPrice(class model.SeatClass, economyCents, businessCents uint32) uint32 {
	if class == model.SeatBusiness {
		return businessCents
	}
	return economyCents
}

// TotalPrice sums the per-seat prices for a selection of seats.
func TotalPrice(classes []model.SeatClass, economyCents, businessCents uint32) uint32 {
	var total uint32
	for _, cl := range classes {
		total += SeatPrice(cl, economyCents, businessCents)
	}
	return total
}

const refAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewRef generates an 8-character uppercase alphanumeric booking
// reference from crypto/rand.  Collisions are possible in principle; the
// repository retries the insert a bounded number of times on a
// duplicate-key error.
func NewRef() (string, error) {
	buf := make([]byte, RefLength)
	max := big.NewInt(int64(len(refAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = refAlphabet[n.Int64()]
	}
	return string(buf), nil
}
