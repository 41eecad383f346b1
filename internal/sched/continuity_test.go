package sched

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChainStore struct {
	tails map[string]*ChainTail
	err   error
}

func (f *fakeChainStore) ChainTail(_ context.Context, kind ResourceKind, resourceID string) (*ChainTail, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tails[string(kind)+"/"+resourceID], nil
}

func TestEligibleNoHistoryOnlyFromHomeBase(t *testing.T) {
	checker := NewContinuityChecker(&fakeChainStore{tails: map[string]*ChainTail{}}, "TLV")
	departs := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	ok, err := checker.Eligible(context.Background(), KindAircraft, "4X-ABC", "TLV", departs)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = checker.Eligible(context.Background(), KindAircraft, "4X-ABC", "JFK", departs)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEligibleFollowsChainTail(t *testing.T) {
	arrives := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	store := &fakeChainStore{tails: map[string]*ChainTail{
		"pilot/100200300": {Destination: "JFK", ArrivesAt: arrives},
	}}
	checker := NewContinuityChecker(store, "TLV")

	// Departing from the tail destination after arrival is allowed.
	ok, err := checker.Eligible(context.Background(), KindPilot, "100200300", "JFK", arrives.Add(2*time.Hour))
	require.NoError(t, err)
	assert.True(t, ok)

	// Wrong origin breaks continuity even with plenty of time.
	ok, err = checker.Eligible(context.Background(), KindPilot, "100200300", "TLV", arrives.Add(48*time.Hour))
	require.NoError(t, err)
	assert.False(t, ok)

	// Departing before the tail arrival is impossible.
	ok, err = checker.Eligible(context.Background(), KindPilot, "100200300", "JFK", arrives.Add(-time.Minute))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEligibleTouchingArrivalAllowed(t *testing.T) {
	arrives := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	store := &fakeChainStore{tails: map[string]*ChainTail{
		"aircraft/4X-ABC": {Destination: "JFK", ArrivesAt: arrives},
	}}
	checker := NewContinuityChecker(store, "TLV")

	ok, err := checker.Eligible(context.Background(), KindAircraft, "4X-ABC", "JFK", arrives)
	require.NoError(t, err)
	assert.True(t, ok, "departure exactly at the tail arrival must be allowed")
}

func TestEligibleUnknownKindFailsClosed(t *testing.T) {
	store := &fakeChainStore{tails: map[string]*ChainTail{}}
	checker := NewContinuityChecker(store, "TLV")

	ok, err := checker.Eligible(context.Background(), ResourceKind("drone"), "X", "TLV", time.Now())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEligiblePropagatesStoreError(t *testing.T) {
	store := &fakeChainStore{err: assert.AnError}
	checker := NewContinuityChecker(store, "TLV")

	ok, err := checker.Eligible(context.Background(), KindAircraft, "4X-ABC", "TLV", time.Now())
	require.Error(t, err)
	assert.False(t, ok)
}
