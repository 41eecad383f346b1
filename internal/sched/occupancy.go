package sched

import (
	"time"

	"github.com/flytau/airline-reservation/internal/model"
)

// OccupancyStatus decides Active vs Full from seat counts: a flight is
// Full once Active bookings cover every seat of its aircraft, Active
// otherwise.  An aircraft with no seat rows is full from the start.
// The reconciler's occupancy pass applies this same comparison in SQL
// (SyncOccupancyStatus), so in-process callers and the datastore agree.
func OccupancyStatus(occupied, total int) model.FlightStatus {
	if occupied >= total {
		return model.FlightFull
	}
	return model.FlightActive
}

// WindowsOverlap reports whether a flight occupying [departsAt,
// arrivesAt) conflicts with the half-open [start, end) window.  Exact
// touching does not conflict: a flight arriving precisely when the
// window opens, or departing precisely when it closes, leaves the
// resource free.  The free/busy store queries use the same predicate
// in SQL (departure < end AND effective arrival > start).
func WindowsOverlap(departsAt, arrivesAt, start, end time.Time) bool {
	return departsAt.Before(end) && arrivesAt.After(start)
}
