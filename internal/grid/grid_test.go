package grid

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barqfleet/dispatch-core/internal/fleet"
	"github.com/barqfleet/dispatch-core/internal/geo"
)

func testBBox() geo.BoundingBox {
	return geo.BoundingBox{MinLat: 0, MaxLat: 10, MinLng: 0, MaxLng: 10}
}

func TestNew_DefaultsOnInvalidDimensions(t *testing.T) {
	g := New(0, -1, testBBox())
	rows, cols := g.Dimensions()
	assert.Equal(t, 10, rows)
	assert.Equal(t, 10, cols)
}

func TestNew_AllocatesDistinctCellIDs(t *testing.T) {
	g := New(4, 4, testBBox())
	seen := make(map[string]bool)
	for _, c := range g.Cells() {
		require.False(t, seen[c.ID], "duplicate cell id %s", c.ID)
		seen[c.ID] = true
	}
	assert.Len(t, seen, 16)
}

func TestGrid_Rebuild_MapsDriversAndDropsOffGrid(t *testing.T) {
	g := New(10, 10, testBBox())

	inGrid := fleet.Driver{ID: uuid.New(), Location: geo.Point{Lat: 1, Lng: 1}}
	offGrid := fleet.Driver{ID: uuid.New(), Location: geo.Point{Lat: -5, Lng: -5}}

	g.Rebuild([]fleet.Driver{inGrid, offGrid}, nil, time.Unix(0, 0))

	row, col, ok := testBBox().CellOf(inGrid.Location, 10, 10)
	require.True(t, ok)
	cell, ok := g.CellAt(row, col)
	require.True(t, ok)
	assert.Contains(t, cell.Drivers, inGrid.ID)

	var total int
	for _, c := range g.Cells() {
		total += len(c.Drivers)
	}
	assert.Equal(t, 1, total, "off-grid driver must not appear anywhere")
}

func TestGrid_Rebuild_ClearsPreviousCycleState(t *testing.T) {
	g := New(10, 10, testBBox())
	d := fleet.Driver{ID: uuid.New(), Location: geo.Point{Lat: 1, Lng: 1}}

	g.Rebuild([]fleet.Driver{d}, nil, time.Unix(0, 0))
	g.Rebuild(nil, nil, time.Unix(1, 0))

	var total int
	for _, c := range g.Cells() {
		total += len(c.Drivers)
		assert.Equal(t, 0, c.PendingOrders)
	}
	assert.Equal(t, 0, total)
}

func TestGrid_Rebuild_AppliesPendingOrdersByCellID(t *testing.T) {
	g := New(10, 10, testBBox())
	cell, ok := g.CellAt(2, 3)
	require.True(t, ok)

	g.Rebuild(nil, map[string]int{cell.ID: 7}, time.Unix(0, 0))

	updated, ok := g.CellAt(2, 3)
	require.True(t, ok)
	assert.Equal(t, 7, updated.PendingOrders)
}

func TestGrid_SetDemand_OutOfRangeIsNoop(t *testing.T) {
	g := New(10, 10, testBBox())
	g.SetDemand(100, 100, HistoricalDemand{Barq: 0.5})
	for _, c := range g.Cells() {
		assert.Equal(t, 0.0, c.HistoricalDemand.Barq)
	}
}
