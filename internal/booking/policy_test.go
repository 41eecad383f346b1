package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flytau/airline-reservation/internal/model"
)

func TestCustomerCancelWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.True(t, CustomerCancelAllowed(now.Add(40*time.Hour), now))
	assert.True(t, CustomerCancelAllowed(now.Add(36*time.Hour), now), "exactly 36h out is still allowed")
	assert.False(t, CustomerCancelAllowed(now.Add(20*time.Hour), now))
	assert.False(t, CustomerCancelAllowed(now.Add(-time.Hour), now))
}

func TestFlightCancelWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.True(t, FlightCancelAllowed(now.Add(80*time.Hour), now))
	assert.True(t, FlightCancelAllowed(now.Add(72*time.Hour), now))
	assert.False(t, FlightCancelAllowed(now.Add(50*time.Hour), now))
}

func TestCancellationFee(t *testing.T) {
	assert.Equal(t, uint32(500), CancellationFee(10000))
	assert.Equal(t, uint32(0), CancellationFee(0))
	// Integer cents truncate toward zero.
	assert.Equal(t, uint32(4), CancellationFee(99))
}

func TestSeatAndTotalPrice(t *testing.T) {
	const eco, bus = 25000, 60000

	assert.Equal(t, uint32(bus), SeatPrice(model.SeatBusiness, eco, bus))
	assert.Equal(t, uint32(eco), SeatPrice(model.SeatEconomy, eco, bus))

	classes := []model.SeatClass{model.SeatEconomy, model.SeatEconomy, model.SeatBusiness}
	assert.Equal(t, uint32(2*eco+bus), TotalPrice(classes, eco, bus))
	assert.Equal(t, uint32(0), TotalPrice(nil, eco, bus))
}

func TestNewRefShape(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ref, err := NewRef()
		require.NoError(t, err)
		require.Len(t, ref, RefLength)
		for _, ch := range ref {
			assert.Contains(t, refAlphabet, string(ch))
		}
		seen[ref] = true
	}
	// 100 draws from a 36^8 space colliding would mean a broken generator.
	assert.Len(t, seen, 100)
}
