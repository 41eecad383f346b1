package sched

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeReconcileStore records call order and serves scripted results.
type fakeReconcileStore struct {
	calls       []string
	flightsErr  error
	bookingsErr error
	syncErr     error
	flightRows  int64
}

func (f *fakeReconcileStore) MarkDepartedFlightsPerformed(_ context.Context, _ time.Time) (int64, error) {
	f.calls = append(f.calls, "flights")
	return f.flightRows, f.flightsErr
}

func (f *fakeReconcileStore) MarkBookingsOnPerformedFlights(_ context.Context) (int64, error) {
	f.calls = append(f.calls, "bookings")
	return 0, f.bookingsErr
}

func (f *fakeReconcileStore) SyncOccupancyStatus(_ context.Context) (int64, error) {
	f.calls = append(f.calls, "occupancy")
	return 0, f.syncErr
}

func TestReconcilerRunsStepsInOrder(t *testing.T) {
	store := &fakeReconcileStore{flightRows: 2}
	rec := NewReconciler(store, zap.NewNop())

	require.NoError(t, rec.Run(context.Background(), time.Now()))
	assert.Equal(t, []string{"flights", "bookings", "occupancy"}, store.calls)
}

func TestReconcilerStopsAtFirstFailure(t *testing.T) {
	boom := errors.New("db gone")

	store := &fakeReconcileStore{flightsErr: boom}
	rec := NewReconciler(store, zap.NewNop())
	assert.ErrorIs(t, rec.Run(context.Background(), time.Now()), boom)
	assert.Equal(t, []string{"flights"}, store.calls, "later steps must not run after a failure")

	store = &fakeReconcileStore{bookingsErr: boom}
	rec = NewReconciler(store, zap.NewNop())
	assert.ErrorIs(t, rec.Run(context.Background(), time.Now()), boom)
	assert.Equal(t, []string{"flights", "bookings"}, store.calls)
}

func TestReconcilerIsRepeatable(t *testing.T) {
	store := &fakeReconcileStore{}
	rec := NewReconciler(store, zap.NewNop())

	// A quiescent system reconciles to zero changes again and again.
	for i := 0; i < 3; i++ {
		require.NoError(t, rec.Run(context.Background(), time.Now()))
	}
	assert.Len(t, store.calls, 9)
}
