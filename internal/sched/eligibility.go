package sched

import (
	"context"
	"errors"
	"time"

	"github.com/flytau/airline-reservation/internal/model"
)

// Validation errors returned by ValidateAssignment.  Handlers translate
// these into 422 responses; none of them leaves partial state behind
// because validation runs before any write.
var (
	ErrAircraftTooSmall = errors.New("long flight requires a Big aircraft")
	ErrWrongHeadcount   = errors.New("crew selection does not match the required headcount")
	ErrDuplicateCrew    = errors.New("crew member selected more than once")
	ErrUnknownCrew      = errors.New("unknown crew member")
	ErrCrewNotQualified = errors.New("long flight requires qualified crew")
	ErrResourceBusy     = errors.New("resource has an overlapping flight")
	ErrBrokenContinuity = errors.New("assignment breaks location continuity")
)

// CandidateStore lists resources free of time conflicts inside a window.
// "Free" means no non-cancelled flight whose [departure, effective
// arrival) interval overlaps the half-open [start, end) window; an
// existing flight that merely touches the window boundary does not
// conflict.
type CandidateStore interface {
	AircraftFreeBetween(ctx context.Context, start, end time.Time, bigOnly bool) ([]model.Aircraft, error)
	CrewFreeBetween(ctx context.Context, role model.CrewRole, start, end time.Time, qualifiedOnly bool) ([]model.CrewMember, error)
	CrewByIDs(ctx context.Context, role model.CrewRole, ids []string) ([]model.CrewMember, error)
	ResourceBusyBetween(ctx context.Context, kind ResourceKind, resourceID string, start, end time.Time) (bool, error)
}

// RequiredCrew returns the pilot and attendant headcount an aircraft of
// the given size must fly with.
func RequiredCrew(size model.AircraftSize) (pilots, attendants int) {
	if size == model.AircraftBig {
		return 3, 6
	}
	return 2, 3
}

// CrewCandidates is the result of crew resolution for one proposed
// flight.  The candidate slices may be shorter than the required
// headcounts; that is a warning for the caller, not an error; the
// manager may still proceed if enough candidates exist, or abandon.
type CrewCandidates struct {
	Pilots             []model.CrewMember
	Attendants         []model.CrewMember
	RequiredPilots     int
	RequiredAttendants int
}

// Sufficient reports whether both candidate sets cover their required
// headcount.
func (c CrewCandidates) Sufficient() bool {
	return len(c.Pilots) >= c.RequiredPilots && len(c.Attendants) >= c.RequiredAttendants
}

// Resolver produces the assignable resource sets for a proposed flight
// and re-validates a concrete selection at creation time.
type Resolver struct {
	store      CandidateStore
	continuity *ContinuityChecker
}

// NewResolver builds a Resolver over the given store and continuity
// checker.
func NewResolver(store CandidateStore, continuity *ContinuityChecker) *Resolver {
	return &Resolver{store: store, continuity: continuity}
}

// AssignableAircraft returns the aircraft that can take a flight on the
// route departing at departsAt: correct size for the route length, no
// overlapping flight inside the proposed window, and location-continuous
// with their existing chain.
func (r *Resolver) AssignableAircraft(ctx context.Context, route model.Route, departsAt time.Time) ([]model.Aircraft, error) {
	end := departsAt.Add(route.Duration())
	free, err := r.store.AircraftFreeBetween(ctx, departsAt, end, route.IsLong())
	if err != nil {
		return nil, err
	}
	out := make([]model.Aircraft, 0, len(free))
	for _, a := range free {
		ok, err := r.continuity.Eligible(ctx, KindAircraft, a.ID, route.Origin, departsAt)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// AssignableCrew returns the pilots and attendants that can staff a
// flight on the route with the chosen aircraft.  Long routes restrict
// candidates to qualified crew; every candidate passes the same overlap
// and continuity filters as aircraft.
func (r *Resolver) AssignableCrew(ctx context.Context, route model.Route, aircraft model.Aircraft, departsAt time.Time) (CrewCandidates, error) {
	reqPilots, reqAttendants := RequiredCrew(aircraft.Size)
	cc := CrewCandidates{RequiredPilots: reqPilots, RequiredAttendants: reqAttendants}

	end := departsAt.Add(route.Duration())
	for _, role := range []model.CrewRole{model.RolePilot, model.RoleAttendant} {
		free, err := r.store.CrewFreeBetween(ctx, role, departsAt, end, route.IsLong())
		if err != nil {
			return CrewCandidates{}, err
		}
		kind := KindPilot
		if role == model.RoleAttendant {
			kind = KindAttendant
		}
		kept := make([]model.CrewMember, 0, len(free))
		for _, m := range free {
			ok, err := r.continuity.Eligible(ctx, kind, m.EmployeeID, route.Origin, departsAt)
			if err != nil {
				return CrewCandidates{}, err
			}
			if ok {
				kept = append(kept, m)
			}
		}
		if role == model.RolePilot {
			cc.Pilots = kept
		} else {
			cc.Attendants = kept
		}
	}
	return cc, nil
}

// Assignment is a concrete aircraft + crew selection for a new flight,
// as submitted at creation time.
type Assignment struct {
	Route        model.Route
	Aircraft     model.Aircraft
	DepartsAt    time.Time
	PilotIDs     []string
	AttendantIDs []string
}

// ValidateAssignment re-runs every eligibility rule server-side against a
// submitted selection, independent of whatever candidate lists were shown
// earlier.  Stale or tampered submissions fail here: aircraft size for
// long routes, exact crew headcounts, qualification on long routes, and
// per-resource overlap and continuity.  Callers must invoke this inside
// the transaction that creates the flight so the chain-linearity
// invariant cannot be broken by a concurrent creation.
func (r *Resolver) ValidateAssignment(ctx context.Context, a Assignment) error {
	if a.Route.IsLong() && a.Aircraft.Size != model.AircraftBig {
		return ErrAircraftTooSmall
	}
	reqPilots, reqAttendants := RequiredCrew(a.Aircraft.Size)
	if len(a.PilotIDs) != reqPilots || len(a.AttendantIDs) != reqAttendants {
		return ErrWrongHeadcount
	}
	if hasDuplicates(a.PilotIDs) || hasDuplicates(a.AttendantIDs) {
		return ErrDuplicateCrew
	}

	end := a.DepartsAt.Add(a.Route.Duration())
	if err := r.validateResource(ctx, KindAircraft, a.Aircraft.ID, a.Route.Origin, a.DepartsAt, end); err != nil {
		return err
	}

	for _, sel := range []struct {
		role model.CrewRole
		kind ResourceKind
		ids  []string
	}{
		{model.RolePilot, KindPilot, a.PilotIDs},
		{model.RoleAttendant, KindAttendant, a.AttendantIDs},
	} {
		members, err := r.store.CrewByIDs(ctx, sel.role, sel.ids)
		if err != nil {
			return err
		}
		if len(members) != len(sel.ids) {
			return ErrUnknownCrew
		}
		for _, m := range members {
			if a.Route.IsLong() && !m.IsQualified {
				return ErrCrewNotQualified
			}
			if err := r.validateResource(ctx, sel.kind, m.EmployeeID, a.Route.Origin, a.DepartsAt, end); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Resolver) validateResource(ctx context.Context, kind ResourceKind, id, origin string, start, end time.Time) error {
	busy, err := r.store.ResourceBusyBetween(ctx, kind, id, start, end)
	if err != nil {
		return err
	}
	if busy {
		return ErrResourceBusy
	}
	ok, err := r.continuity.Eligible(ctx, kind, id, origin, start)
	if err != nil {
		return err
	}
	if !ok {
		return ErrBrokenContinuity
	}
	return nil
}

func hasDuplicates(ids []string) bool {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}
