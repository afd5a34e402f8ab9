package assignment

import (
	"sort"

	"github.com/google/uuid"

	"github.com/barqfleet/dispatch-core/internal/fleet"
	"github.com/barqfleet/dispatch-core/internal/geo"
)

// searchAvailable finds available drivers for tier within radiusKm of
// pickup, excluding declined drivers (spec.md §4.1.1 step 1).
func searchAvailable(snapshot fleet.Snapshot, tier fleet.ServiceType, pickup geo.Point, radiusKm float64, declined map[uuid.UUID]bool) []Candidate {
	out := make([]Candidate, 0, len(snapshot.Available))
	for _, d := range snapshot.Available {
		if declined[d.ID] {
			continue
		}
		if !d.HasCapability(tier) || d.RemainingCapacity(tier) <= 0 {
			continue
		}
		dist := geo.HaversineKm(d.Location, pickup)
		if dist > radiusKm {
			continue
		}
		out = append(out, Candidate{Driver: d, DistanceToPickup: dist})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceToPickup < out[j].DistanceToPickup })
	return out
}

// searchBusyCapable finds busy drivers who can still take one more order of
// the given tier, excluding declined drivers (spec.md §4.1.1 step 2),
// sorted nearest-first for deterministic "assign to the first" selection.
func searchBusyCapable(snapshot fleet.Snapshot, tier fleet.ServiceType, pickup geo.Point, declined map[uuid.UUID]bool) []Candidate {
	out := make([]Candidate, 0, len(snapshot.Busy))
	for _, d := range snapshot.Busy {
		if declined[d.ID] {
			continue
		}
		if !d.HasCapability(tier) || !d.CanTakeMore(tier) {
			continue
		}
		dist := geo.HaversineKm(d.Location, pickup)
		out = append(out, Candidate{Driver: d, DistanceToPickup: dist})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceToPickup < out[j].DistanceToPickup })
	return out
}

// bulletBatchCandidates finds busy drivers already carrying at least one
// BULLET order with spare BULLET capacity, nearest-first, for the batching
// probe (spec.md §4.1.1 BULLET step 1).
func bulletBatchCandidates(snapshot fleet.Snapshot, pickup geo.Point, declined map[uuid.UUID]bool) []Candidate {
	out := make([]Candidate, 0, len(snapshot.Busy))
	for _, d := range snapshot.Busy {
		if declined[d.ID] {
			continue
		}
		if !d.CanTakeMore(fleet.BULLET) {
			continue
		}
		if len(d.OrdersOfType(fleet.BULLET)) == 0 {
			continue
		}
		out = append(out, Candidate{Driver: d, DistanceToPickup: geo.HaversineKm(d.Location, pickup)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceToPickup < out[j].DistanceToPickup })
	return out
}

// rankDescending returns indices into breakdowns sorted best-first under
// the spec.md §4.1.2 tie-break order.
func rankDescending(breakdowns []Breakdown, tier fleet.ServiceType) []int {
	idx := make([]int, len(breakdowns))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return Less(breakdowns[idx[j]], breakdowns[idx[i]], tier)
	})
	return idx
}
