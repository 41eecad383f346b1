package sched

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ReconcileStore applies the three status maintenance updates.  Each
// method is a single UPDATE executed in its own implicit transaction and
// must be idempotent.
type ReconcileStore interface {
	// MarkDepartedFlightsPerformed moves Active/Full flights whose
	// departure is at or before now to Performed.
	MarkDepartedFlightsPerformed(ctx context.Context, now time.Time) (int64, error)
	// MarkBookingsOnPerformedFlights moves Active bookings whose flight
	// is Performed to Performed.
	MarkBookingsOnPerformedFlights(ctx context.Context) (int64, error)
	// SyncOccupancyStatus recomputes Active vs Full for every
	// non-terminal flight from its Active-booking seat count.  A flight
	// with zero seats counts as Full (occupied >= total holds at 0 >= 0).
	SyncOccupancyStatus(ctx context.Context) (int64, error)
}

// Reconciler keeps flight and booking statuses consistent with
// wall-clock time and seat occupancy.  Run is idempotent and safe to
// invoke arbitrarily often; it executes before scheduling and query
// operations and on a background ticker.
type Reconciler struct {
	store ReconcileStore
	log   *zap.Logger
}

// NewReconciler builds a Reconciler.  The logger may be zap.NewNop() in
// tests.
func NewReconciler(store ReconcileStore, log *zap.Logger) *Reconciler {
	return &Reconciler{store: store, log: log}
}

// Run applies the three updates in strict order: departed flights first,
// then their bookings, then occupancy.  The order matters: step 2 only
// sees flights step 1 committed, and step 3 must not touch flights that
// just became Performed.  The pass stops at the first failure so later
// steps never run ahead of an earlier one that did not commit.
func (r *Reconciler) Run(ctx context.Context, now time.Time) error {
	flights, err := r.store.MarkDepartedFlightsPerformed(ctx, now)
	if err != nil {
		return err
	}
	bookings, err := r.store.MarkBookingsOnPerformedFlights(ctx)
	if err != nil {
		return err
	}
	occupancy, err := r.store.SyncOccupancyStatus(ctx)
	if err != nil {
		return err
	}
	if flights > 0 || bookings > 0 || occupancy > 0 {
		r.log.Debug("reconciled statuses",
			zap.Int64("flights_performed", flights),
			zap.Int64("bookings_performed", bookings),
			zap.Int64("occupancy_updates", occupancy),
		)
	}
	return nil
}
