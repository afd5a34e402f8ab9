package engine

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barqfleet/dispatch-core/internal/fleet"
	"github.com/barqfleet/dispatch-core/internal/geo"
	"github.com/barqfleet/dispatch-core/internal/reposition"
)

type stubFleet struct {
	snapshot fleet.Snapshot
	err      error
}

func (s stubFleet) GetFleetStatus() (fleet.Snapshot, error) { return s.snapshot, s.err }

type stubCollaborator struct {
	accept bool
}

func (s stubCollaborator) SendRepositionRequest(a reposition.Action) (bool, string, error) {
	return s.accept, "", nil
}

func testBBox() geo.BoundingBox {
	return geo.BoundingBox{MinLat: 24.0, MaxLat: 25.0, MinLng: 46.0, MaxLng: 47.0}
}

func TestNew_RequiresFleetAndCollaborator(t *testing.T) {
	_, err := New(Config{BoundingBox: testBBox()}, Deps{})
	require.Error(t, err)

	_, err = New(Config{BoundingBox: testBBox()}, Deps{Fleet: stubFleet{}})
	require.Error(t, err)
}

func TestNew_DefaultsGridDimensionsAndThresholds(t *testing.T) {
	e, err := New(Config{BoundingBox: testBBox()}, Deps{Fleet: stubFleet{}, Collaborator: stubCollaborator{}})
	require.NoError(t, err)
	assert.Equal(t, 10, e.cfg.GridRows)
	assert.Equal(t, 10, e.cfg.GridCols)
	assert.Equal(t, 300, e.cfg.IdleTimeThreshold)
}

func TestAssign_NoCandidatesReturnsQueued(t *testing.T) {
	e, err := New(Config{BoundingBox: testBBox()}, Deps{Fleet: stubFleet{}, Collaborator: stubCollaborator{}})
	require.NoError(t, err)

	order := fleet.Order{ID: uuid.New(), ServiceType: fleet.BARQ, Pickup: geo.Point{Lat: 24.5, Lng: 46.5}, Dropoff: geo.Point{Lat: 24.6, Lng: 46.6}}
	result, err := e.Assign(context.Background(), order)
	require.NoError(t, err)
	assert.Nil(t, result.AssignedDriverID)
}

func TestRunRebalanceCycle_CoalescesConcurrentTriggers(t *testing.T) {
	e, err := New(Config{BoundingBox: testBBox()}, Deps{Fleet: stubFleet{}, Collaborator: stubCollaborator{accept: true}})
	require.NoError(t, err)

	require.True(t, e.dispatcher.TryBeginCycle())
	_, ok := e.RunRebalanceCycle(context.Background(), nil)
	assert.False(t, ok, "cycle already in flight should be dropped, not queued")
	e.dispatcher.EndCycle()
}

func TestRunRebalanceCycle_RecordsHistory(t *testing.T) {
	idleDriver := fleet.Driver{
		ID:                uuid.New(),
		Status:            fleet.DriverStatusIdle,
		Available:         true,
		IdleTimeSeconds:   600,
		Location:          geo.Point{Lat: 24.5, Lng: 46.5},
		ServiceCapability: map[fleet.ServiceType]bool{fleet.BARQ: true},
	}
	snap := fleet.Snapshot{Available: []fleet.Driver{idleDriver}}

	e, err := New(Config{BoundingBox: testBBox()}, Deps{Fleet: stubFleet{snapshot: snap}, Collaborator: stubCollaborator{accept: true}})
	require.NoError(t, err)

	_, ok := e.RunRebalanceCycle(context.Background(), nil)
	assert.True(t, ok)
	assert.Equal(t, 1, e.history.Len())
}

func TestCoverageSnapshot_ReflectsFleetStatusError(t *testing.T) {
	e, err := New(Config{BoundingBox: testBBox()}, Deps{Fleet: stubFleet{err: assert.AnError}, Collaborator: stubCollaborator{}})
	require.NoError(t, err)

	report := e.CoverageSnapshot()
	assert.Empty(t, report.Cells)
}
