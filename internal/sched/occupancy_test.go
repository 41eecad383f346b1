package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/flytau/airline-reservation/internal/model"
)

func TestOccupancyStatus(t *testing.T) {
	cases := []struct {
		name            string
		occupied, total int
		want            model.FlightStatus
	}{
		{"empty flight stays active", 0, 4, model.FlightActive},
		{"partially booked stays active", 3, 4, model.FlightActive},
		{"last seat taken flips to full", 4, 4, model.FlightFull},
		{"over capacity counts as full", 5, 4, model.FlightFull},
		{"zero-seat aircraft is full from the start", 0, 0, model.FlightFull},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, OccupancyStatus(tc.occupied, tc.total))
		})
	}
}

func TestOccupancyStatusAfterCancellation(t *testing.T) {
	// A fully booked four-seat flight is Full; cancelling one booking
	// releases its seat and the next pass flips the flight back.
	assert.Equal(t, model.FlightFull, OccupancyStatus(4, 4))
	assert.Equal(t, model.FlightActive, OccupancyStatus(3, 4))

	// Re-running with unchanged counts never flip-flops.
	assert.Equal(t, model.FlightActive, OccupancyStatus(3, 4))
	assert.Equal(t, model.FlightFull, OccupancyStatus(4, 4))
}

func TestWindowsOverlap(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	at := func(h int) time.Time { return base.Add(time.Duration(h) * time.Hour) }

	cases := []struct {
		name             string
		departs, arrives time.Time
		start, end       time.Time
		want             bool
	}{
		{"disjoint before", at(0), at(2), at(3), at(5), false},
		{"disjoint after", at(6), at(8), at(3), at(5), false},
		{"arrival touches window open", at(0), at(3), at(3), at(5), false},
		{"departure touches window close", at(5), at(7), at(3), at(5), false},
		{"partial overlap at front", at(2), at(4), at(3), at(5), true},
		{"partial overlap at back", at(4), at(6), at(3), at(5), true},
		{"flight contains window", at(2), at(6), at(3), at(5), true},
		{"window contains flight", at(3).Add(30 * time.Minute), at(4), at(3), at(5), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, WindowsOverlap(tc.departs, tc.arrives, tc.start, tc.end))
		})
	}
}
