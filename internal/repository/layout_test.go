package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flytau/airline-reservation/internal/model"
)

func TestBuildLayoutBigAircraft(t *testing.T) {
	seats := buildLayout("4X-BIG", model.AircraftBig, 2, 2, 3, 4)
	require.Len(t, seats, 2*2+3*4)

	// Business rows come first, economy continues the numbering.
	assert.Equal(t, model.SeatBusiness, seats[0].Class)
	assert.Equal(t, uint32(1), seats[0].RowNum)
	assert.Equal(t, "A", seats[0].ColLetter)

	last := seats[len(seats)-1]
	assert.Equal(t, model.SeatEconomy, last.Class)
	assert.Equal(t, uint32(5), last.RowNum)
	assert.Equal(t, "D", last.ColLetter)

	var business, economy int
	for _, s := range seats {
		switch s.Class {
		case model.SeatBusiness:
			business++
			assert.LessOrEqual(t, s.RowNum, uint32(2))
		case model.SeatEconomy:
			economy++
			assert.Greater(t, s.RowNum, uint32(2))
		}
	}
	assert.Equal(t, 4, business)
	assert.Equal(t, 12, economy)
}

func TestBuildLayoutSmallAircraftIgnoresBusiness(t *testing.T) {
	seats := buildLayout("4X-SML", model.AircraftSmall, 2, 2, 4, 3)
	require.Len(t, seats, 4*3)
	for _, s := range seats {
		assert.Equal(t, model.SeatEconomy, s.Class)
	}
	assert.Equal(t, uint32(1), seats[0].RowNum)
}
