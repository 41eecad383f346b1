// Package sched implements the scheduling engine: the status reconciler,
// the location-continuity checker and the eligibility resolver used when
// assigning aircraft and crew to new flights.  The package talks to the
// datastore through narrow interfaces so the logic is testable without a
// database.
package sched

import (
	"context"
	"time"
)

// ResourceKind identifies which schedule chain a resource belongs to.
type ResourceKind string

const (
	KindAircraft  ResourceKind = "aircraft"
	KindPilot     ResourceKind = "pilot"
	KindAttendant ResourceKind = "attendant"
)

// ChainTail is the latest non-cancelled assignment of a resource, ordered
// by effective arrival: where and when the resource becomes available next.
type ChainTail struct {
	Destination string
	ArrivesAt   time.Time
}

// ChainStore resolves the chain tail for a resource.  Implementations
// must exclude Cancelled flights and order by effective arrival
// (recorded arrival when present, else departure plus route duration)
// descending, returning only the top row.  A nil tail means the resource
// has no assignment history.
type ChainStore interface {
	ChainTail(ctx context.Context, kind ResourceKind, resourceID string) (*ChainTail, error)
}

// ContinuityChecker decides whether a resource can legally take a flight
// departing from a given origin at a given time.
//
// The check is deliberately greedy: it inspects only the chain tail, not
// the whole chain.  That is sound by induction: flight creation is the
// only code path that writes an assignment, and it validates the new
// assignment with this same check inside the creating transaction, so
// every chain stays a single linear sequence and the tail fully
// represents its end state.  An accepted assignment becomes the new tail
// automatically, because the next tail query again picks the flight with
// the latest effective arrival.
type ContinuityChecker struct {
	store    ChainStore
	homeBase string
}

// NewContinuityChecker returns a checker anchored at the given home base
// airport.  Resources with no assignment history are assumed to be
// located there.
func NewContinuityChecker(store ChainStore, homeBase string) *ContinuityChecker {
	return &ContinuityChecker{store: store, homeBase: homeBase}
}

// Eligible reports whether the resource may be assigned to a flight
// departing from origin at departsAt.  A resource with no prior
// assignments is eligible only from the home base.  Otherwise the
// proposed origin must equal the tail's destination and the departure
// must not precede the tail's effective arrival (touching is allowed).
// Unknown resource kinds are rejected unconditionally.
func (c *ContinuityChecker) Eligible(ctx context.Context, kind ResourceKind, resourceID, origin string, departsAt time.Time) (bool, error) {
	switch kind {
	case KindAircraft, KindPilot, KindAttendant:
	default:
		// fail closed
		return false, nil
	}
	tail, err := c.store.ChainTail(ctx, kind, resourceID)
	if err != nil {
		return false, err
	}
	if tail == nil {
		return origin == c.homeBase, nil
	}
	return origin == tail.Destination && !departsAt.Before(tail.ArrivesAt), nil
}
