package reposition

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barqfleet/dispatch-core/internal/geo"
	"github.com/barqfleet/dispatch-core/internal/grid"
)

func needFor(cellID string, bucket grid.PriorityBucket, requiredBarq, requiredBullet int) grid.Need {
	return grid.Need{
		Cell: grid.CellCoverage{
			Cell: grid.Cell{ID: cellID, Center: geo.Point{Lat: 1, Lng: 1}},
		},
		Bucket:         bucket,
		RequiredBarq:   requiredBarq,
		RequiredBullet: requiredBullet,
	}
}

func TestBuildPlan_FillsShortfallFromNearestDrivers(t *testing.T) {
	near := EligibleDriver{ID: uuid.New(), Location: geo.Point{Lat: 1, Lng: 1}, Rating: 4.5, BarqCapable: true}
	far := EligibleDriver{ID: uuid.New(), Location: geo.Point{Lat: 20, Lng: 20}, Rating: 4.5, BarqCapable: true}

	needs := []grid.Need{needFor("cell-1", grid.Critical, 1, 0)}
	plan := BuildPlan(grid.Emergency, needs, []EligibleDriver{far, near})

	require.Len(t, plan.Actions, 1)
	assert.Equal(t, near.ID, plan.Actions[0].DriverID)
	assert.Equal(t, "cell-1", plan.Actions[0].GridID)
	assert.Equal(t, 1, plan.GridsImproved)
	assert.Equal(t, 1, plan.CriticalResolved)
}

func TestBuildPlan_SkipsHighPriorityUnderEmergency(t *testing.T) {
	d := EligibleDriver{ID: uuid.New(), Location: geo.Point{Lat: 1, Lng: 1}, Rating: 4, BarqCapable: true}
	needs := []grid.Need{needFor("cell-1", grid.High, 1, 0)}

	plan := BuildPlan(grid.Emergency, needs, []EligibleDriver{d})

	assert.Empty(t, plan.Actions)
}

func TestBuildPlan_DoesNotDoubleBookADriverAcrossNeeds(t *testing.T) {
	d := EligibleDriver{ID: uuid.New(), Location: geo.Point{Lat: 1, Lng: 1}, Rating: 4, BarqCapable: true, BulletCapable: true}
	needs := []grid.Need{
		needFor("cell-1", grid.Critical, 1, 0),
		needFor("cell-2", grid.Critical, 1, 0),
	}

	plan := BuildPlan(grid.Reactive, needs, []EligibleDriver{d})

	assert.Len(t, plan.Actions, 1, "the single driver can only fill one shortfall")
}

func TestBuildPlan_FillsBarqThenBulletWithinOneNeed(t *testing.T) {
	barqDriver := EligibleDriver{ID: uuid.New(), Location: geo.Point{Lat: 1, Lng: 1}, Rating: 4, BarqCapable: true}
	bulletDriver := EligibleDriver{ID: uuid.New(), Location: geo.Point{Lat: 1, Lng: 1}, Rating: 4, BulletCapable: true}
	needs := []grid.Need{needFor("cell-1", grid.Critical, 1, 1)}

	plan := BuildPlan(grid.Reactive, needs, []EligibleDriver{barqDriver, bulletDriver})

	assert.Len(t, plan.Actions, 2)
}

func TestBuildPlan_EmptyPoolProducesEmptyPlan(t *testing.T) {
	needs := []grid.Need{needFor("cell-1", grid.Critical, 1, 1)}
	plan := BuildPlan(grid.Reactive, needs, nil)
	assert.Empty(t, plan.Actions)
	assert.Equal(t, 0, plan.GridsImproved)
}
