package sched

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flytau/airline-reservation/internal/model"
)

// fakeCandidateStore serves canned candidates and busy flags and doubles
// as a ChainStore so one fixture drives resolver and continuity alike.
type fakeCandidateStore struct {
	aircraft []model.Aircraft
	crew     map[model.CrewRole][]model.CrewMember
	busy     map[string]bool
	tails    map[string]*ChainTail
}

func (f *fakeCandidateStore) AircraftFreeBetween(_ context.Context, _, _ time.Time, bigOnly bool) ([]model.Aircraft, error) {
	out := make([]model.Aircraft, 0, len(f.aircraft))
	for _, a := range f.aircraft {
		if bigOnly && a.Size != model.AircraftBig {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeCandidateStore) CrewFreeBetween(_ context.Context, role model.CrewRole, _, _ time.Time, qualifiedOnly bool) ([]model.CrewMember, error) {
	out := make([]model.CrewMember, 0)
	for _, m := range f.crew[role] {
		if qualifiedOnly && !m.IsQualified {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeCandidateStore) CrewByIDs(_ context.Context, role model.CrewRole, ids []string) ([]model.CrewMember, error) {
	out := make([]model.CrewMember, 0, len(ids))
	for _, id := range ids {
		for _, m := range f.crew[role] {
			if m.EmployeeID == id {
				out = append(out, m)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeCandidateStore) ResourceBusyBetween(_ context.Context, kind ResourceKind, resourceID string, _, _ time.Time) (bool, error) {
	return f.busy[string(kind)+"/"+resourceID], nil
}

func (f *fakeCandidateStore) ChainTail(_ context.Context, kind ResourceKind, resourceID string) (*ChainTail, error) {
	return f.tails[string(kind)+"/"+resourceID], nil
}

func pilot(id string, qualified bool) model.CrewMember {
	return model.CrewMember{EmployeeID: id, Role: model.RolePilot, IsQualified: qualified}
}

func attendant(id string, qualified bool) model.CrewMember {
	return model.CrewMember{EmployeeID: id, Role: model.RoleAttendant, IsQualified: qualified}
}

func longRoute() model.Route {
	return model.Route{ID: 1, Origin: "TLV", Destination: "JFK", DurationMin: 720}
}

func shortRoute() model.Route {
	return model.Route{ID: 2, Origin: "TLV", Destination: "ATH", DurationMin: 110}
}

func newFixture() *fakeCandidateStore {
	return &fakeCandidateStore{
		aircraft: []model.Aircraft{
			{ID: "4X-BIG", Size: model.AircraftBig},
			{ID: "4X-SML", Size: model.AircraftSmall},
		},
		crew: map[model.CrewRole][]model.CrewMember{
			model.RolePilot: {
				pilot("P1", true), pilot("P2", true), pilot("P3", true), pilot("P4", false),
			},
			model.RoleAttendant: {
				attendant("A1", true), attendant("A2", true), attendant("A3", true),
				attendant("A4", true), attendant("A5", true), attendant("A6", true),
				attendant("A7", false),
			},
		},
		busy:  map[string]bool{},
		tails: map[string]*ChainTail{},
	}
}

func newResolver(store *fakeCandidateStore) *Resolver {
	return NewResolver(store, NewContinuityChecker(store, "TLV"))
}

func TestRequiredCrewBySize(t *testing.T) {
	p, a := RequiredCrew(model.AircraftBig)
	assert.Equal(t, 3, p)
	assert.Equal(t, 6, a)

	p, a = RequiredCrew(model.AircraftSmall)
	assert.Equal(t, 2, p)
	assert.Equal(t, 3, a)
}

func TestAssignableAircraftLongRouteExcludesSmall(t *testing.T) {
	r := newResolver(newFixture())
	departs := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	candidates, err := r.AssignableAircraft(context.Background(), longRoute(), departs)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "4X-BIG", candidates[0].ID)
}

func TestAssignableAircraftFiltersByContinuity(t *testing.T) {
	store := newFixture()
	// 4X-BIG is stranded in JFK; a TLV departure must exclude it.
	store.tails["aircraft/4X-BIG"] = &ChainTail{
		Destination: "JFK",
		ArrivesAt:   time.Date(2026, 3, 9, 20, 0, 0, 0, time.UTC),
	}
	r := newResolver(store)
	departs := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	candidates, err := r.AssignableAircraft(context.Background(), longRoute(), departs)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestAssignableCrewQualificationAndSufficiency(t *testing.T) {
	r := newResolver(newFixture())
	departs := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	big := model.Aircraft{ID: "4X-BIG", Size: model.AircraftBig}

	cc, err := r.AssignableCrew(context.Background(), longRoute(), big, departs)
	require.NoError(t, err)
	assert.Equal(t, 3, cc.RequiredPilots)
	assert.Equal(t, 6, cc.RequiredAttendants)
	// Unqualified P4 and A7 are filtered on a long route.
	assert.Len(t, cc.Pilots, 3)
	assert.Len(t, cc.Attendants, 6)
	assert.True(t, cc.Sufficient())
}

func TestAssignableCrewInsufficientIsNotAnError(t *testing.T) {
	store := newFixture()
	store.crew[model.RolePilot] = []model.CrewMember{pilot("P1", true), pilot("P2", true)}
	r := newResolver(store)
	departs := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	big := model.Aircraft{ID: "4X-BIG", Size: model.AircraftBig}

	cc, err := r.AssignableCrew(context.Background(), longRoute(), big, departs)
	require.NoError(t, err)
	assert.Len(t, cc.Pilots, 2)
	assert.False(t, cc.Sufficient())
}

func validAssignment() Assignment {
	return Assignment{
		Route:        longRoute(),
		Aircraft:     model.Aircraft{ID: "4X-BIG", Size: model.AircraftBig},
		DepartsAt:    time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
		PilotIDs:     []string{"P1", "P2", "P3"},
		AttendantIDs: []string{"A1", "A2", "A3", "A4", "A5", "A6"},
	}
}

func TestValidateAssignmentAccepts(t *testing.T) {
	r := newResolver(newFixture())
	require.NoError(t, r.ValidateAssignment(context.Background(), validAssignment()))
}

func TestValidateAssignmentLongRouteNeedsBigAircraft(t *testing.T) {
	r := newResolver(newFixture())
	a := validAssignment()
	a.Aircraft = model.Aircraft{ID: "4X-SML", Size: model.AircraftSmall}

	err := r.ValidateAssignment(context.Background(), a)
	assert.ErrorIs(t, err, ErrAircraftTooSmall)
}

func TestValidateAssignmentHeadcountMustMatchExactly(t *testing.T) {
	r := newResolver(newFixture())

	a := validAssignment()
	a.PilotIDs = []string{"P1", "P2"}
	assert.ErrorIs(t, r.ValidateAssignment(context.Background(), a), ErrWrongHeadcount)

	// Too many is just as wrong as too few.
	a = validAssignment()
	a.AttendantIDs = append(a.AttendantIDs, "A7")
	assert.ErrorIs(t, r.ValidateAssignment(context.Background(), a), ErrWrongHeadcount)
}

func TestValidateAssignmentRejectsDuplicates(t *testing.T) {
	r := newResolver(newFixture())
	a := validAssignment()
	a.PilotIDs = []string{"P1", "P1", "P2"}
	assert.ErrorIs(t, r.ValidateAssignment(context.Background(), a), ErrDuplicateCrew)
}

func TestValidateAssignmentRejectsUnknownCrew(t *testing.T) {
	r := newResolver(newFixture())
	a := validAssignment()
	a.PilotIDs = []string{"P1", "P2", "GHOST"}
	assert.ErrorIs(t, r.ValidateAssignment(context.Background(), a), ErrUnknownCrew)
}

func TestValidateAssignmentRejectsUnqualifiedOnLongRoute(t *testing.T) {
	r := newResolver(newFixture())
	a := validAssignment()
	a.PilotIDs = []string{"P1", "P2", "P4"} // P4 is not qualified
	assert.ErrorIs(t, r.ValidateAssignment(context.Background(), a), ErrCrewNotQualified)
}

func TestValidateAssignmentAllowsUnqualifiedOnShortRoute(t *testing.T) {
	r := newResolver(newFixture())
	a := Assignment{
		Route:        shortRoute(),
		Aircraft:     model.Aircraft{ID: "4X-SML", Size: model.AircraftSmall},
		DepartsAt:    time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
		PilotIDs:     []string{"P1", "P4"},
		AttendantIDs: []string{"A1", "A2", "A7"},
	}
	require.NoError(t, r.ValidateAssignment(context.Background(), a))
}

func TestValidateAssignmentRejectsBusyResource(t *testing.T) {
	store := newFixture()
	store.busy["aircraft/4X-BIG"] = true
	r := newResolver(store)

	err := r.ValidateAssignment(context.Background(), validAssignment())
	assert.ErrorIs(t, err, ErrResourceBusy)
}

func TestValidateAssignmentRejectsBrokenContinuity(t *testing.T) {
	store := newFixture()
	store.tails["pilot/P2"] = &ChainTail{
		Destination: "JFK",
		ArrivesAt:   time.Date(2026, 3, 9, 20, 0, 0, 0, time.UTC),
	}
	r := newResolver(store)

	err := r.ValidateAssignment(context.Background(), validAssignment())
	assert.ErrorIs(t, err, ErrBrokenContinuity)
}
