package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFlightStatusTransitions(t *testing.T) {
	assert.True(t, FlightActive.CanTransition(FlightFull))
	assert.True(t, FlightFull.CanTransition(FlightActive))
	assert.True(t, FlightActive.CanTransition(FlightPerformed))
	assert.True(t, FlightFull.CanTransition(FlightCancelled))

	assert.False(t, FlightPerformed.CanTransition(FlightActive))
	assert.False(t, FlightCancelled.CanTransition(FlightPerformed))
	assert.True(t, FlightPerformed.Terminal())
	assert.True(t, FlightCancelled.Terminal())
	assert.False(t, FlightActive.Terminal())
}

func TestBookingStatusTransitions(t *testing.T) {
	assert.True(t, BookingActive.CanTransition(BookingPerformed))
	assert.True(t, BookingActive.CanTransition(BookingCancelledByCustomer))
	assert.True(t, BookingActive.CanTransition(BookingCancelledBySystem))

	for _, terminal := range []BookingStatus{
		BookingPerformed, BookingCancelledByCustomer, BookingCancelledBySystem,
	} {
		assert.True(t, terminal.Terminal())
		assert.False(t, terminal.CanTransition(BookingActive))
		assert.False(t, terminal.CanTransition(BookingPerformed))
	}
}

func TestStatusValidity(t *testing.T) {
	assert.True(t, FlightFull.Valid())
	assert.False(t, FlightStatus("Boarding").Valid())
	assert.True(t, BookingCancelledBySystem.Valid())
	assert.False(t, BookingStatus("Refunded").Valid())
}

func TestRouteLongFlightThreshold(t *testing.T) {
	assert.False(t, Route{DurationMin: 360}.IsLong(), "exactly the threshold is not long")
	assert.True(t, Route{DurationMin: 361}.IsLong())
}

func TestEffectiveArrival(t *testing.T) {
	route := Route{DurationMin: 120}
	f := Flight{DepartsAt: mustTime(t, "2026-03-10T08:00:00Z")}
	assert.Equal(t, mustTime(t, "2026-03-10T10:00:00Z"), f.EffectiveArrival(route))

	recorded := mustTime(t, "2026-03-10T10:45:00Z")
	f.ArrivesAt = &recorded
	assert.Equal(t, recorded, f.EffectiveArrival(route))
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse %s: %v", s, err)
	}
	return ts
}
