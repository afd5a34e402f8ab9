package assignment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/barqfleet/dispatch-core/internal/fleet"
	"github.com/barqfleet/dispatch-core/internal/geo"
)

func TestSearchAvailable_ExcludesOutOfRadiusAndZeroCapacity(t *testing.T) {
	near := barqDriver(uuid.New(), 1, 2, fleet.FatigueLow, 0.9)
	far := barqDriver(uuid.New(), 6, 2, fleet.FatigueLow, 0.9)
	noCapacity := barqDriver(uuid.New(), 1, 0, fleet.FatigueLow, 0.9)

	snapshot := fleet.Snapshot{Available: []fleet.Driver{near, far, noCapacity}}
	got := searchAvailable(snapshot, fleet.BARQ, geo.Point{Lat: 24.70, Lng: 46.60}, 5, nil)

	require := []uuid.UUID{near.ID}
	assert.Len(t, got, 1)
	assert.Equal(t, require[0], got[0].Driver.ID)
}

func TestSearchAvailable_SortsNearestFirst(t *testing.T) {
	a := barqDriver(uuid.New(), 4, 2, fleet.FatigueLow, 0.9)
	b := barqDriver(uuid.New(), 1, 2, fleet.FatigueLow, 0.9)

	snapshot := fleet.Snapshot{Available: []fleet.Driver{a, b}}
	got := searchAvailable(snapshot, fleet.BARQ, geo.Point{Lat: 24.70, Lng: 46.60}, 5, nil)

	assert.Equal(t, b.ID, got[0].Driver.ID)
	assert.Equal(t, a.ID, got[1].Driver.ID)
}

func TestSearchBusyCapable_RequiresSpareCapacity(t *testing.T) {
	full := fleet.Driver{
		ID:                uuid.New(),
		ServiceCapability: map[fleet.ServiceType]bool{fleet.BARQ: true},
		Status:            fleet.DriverStatusBusy,
		Location:          pointAt(1),
		Capacity:          fleet.Capacity{Barq: 0},
	}
	spare := fleet.Driver{
		ID:                uuid.New(),
		ServiceCapability: map[fleet.ServiceType]bool{fleet.BARQ: true},
		Status:            fleet.DriverStatusBusy,
		Location:          pointAt(2),
		Capacity:          fleet.Capacity{Barq: 1},
	}

	snapshot := fleet.Snapshot{Busy: []fleet.Driver{full, spare}}
	got := searchBusyCapable(snapshot, fleet.BARQ, geo.Point{Lat: 24.70, Lng: 46.60}, nil)

	assert.Len(t, got, 1)
	assert.Equal(t, spare.ID, got[0].Driver.ID)
}

func TestBulletBatchCandidates_RequiresExistingBulletOrder(t *testing.T) {
	noOrders := fleet.Driver{
		ID:                uuid.New(),
		ServiceCapability: map[fleet.ServiceType]bool{fleet.BULLET: true},
		Status:            fleet.DriverStatusBusy,
		Location:          pointAt(1),
		Capacity:          fleet.Capacity{Bullet: 2},
	}
	withOrder := fleet.Driver{
		ID:                uuid.New(),
		ServiceCapability: map[fleet.ServiceType]bool{fleet.BULLET: true},
		Status:            fleet.DriverStatusBusy,
		Location:          pointAt(2),
		Capacity:          fleet.Capacity{Bullet: 2},
		CurrentOrders: []fleet.AssignedOrder{
			{OrderID: uuid.New(), ServiceType: fleet.BULLET, Pickup: pointAt(2), Dropoff: pointAt(3)},
		},
	}

	snapshot := fleet.Snapshot{Busy: []fleet.Driver{noOrders, withOrder}}
	got := bulletBatchCandidates(snapshot, geo.Point{Lat: 24.70, Lng: 46.60}, nil)

	assert.Len(t, got, 1)
	assert.Equal(t, withOrder.ID, got[0].Driver.ID)
}

func TestRankDescending_OrdersBestFirst(t *testing.T) {
	breakdowns := []Breakdown{
		{Total: 0.5},
		{Total: 0.9},
		{Total: 0.7},
	}
	ranked := rankDescending(breakdowns, fleet.BARQ)
	assert.Equal(t, []int{1, 2, 0}, ranked)
}
