package assignment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/barqfleet/dispatch-core/internal/fleet"
)

const bulletRadiusKm = 20.0

// assignBULLET implements spec.md §4.1.1's BULLET strategy: a batching
// probe via Route-Fit, then a 20 km available search, then
// busy-but-capable, then queued.
func assignBULLET(ctx context.Context, order fleet.Order, snapshot fleet.Snapshot, deps Deps, now time.Time) *Assignment {
	declined := declinedSet(deps.DeclinedDrivers)

	if deps.RouteFit != nil {
		for _, c := range bulletBatchCandidates(snapshot, order.Pickup, declined) {
			existing := c.Driver.OrdersOfType(fleet.BULLET)
			result := deps.RouteFit.Fit(existing, order)
			if result.Fits {
				batchID := uuid.New()
				est := estimateTimes(ctx, deps.ETA, c, order, now)
				return finalize(order, &c.Driver.ID, Batched, &batchID, 0.85, 0.85, nil, est,
					[]string{"batched onto an existing BULLET route"}, nil)
			}
		}
	}

	weights := DefaultWeights(fleet.BULLET)

	if candidates := searchAvailable(snapshot, fleet.BULLET, order.Pickup, bulletRadiusKm, declined); len(candidates) > 0 {
		return pickBest(ctx, order, candidates, fleet.BULLET, weights, deps, now, AddedToRoute)
	}

	if busy := searchBusyCapable(snapshot, fleet.BULLET, order.Pickup, declined); len(busy) > 0 {
		chosen := busy[0]
		est := estimateTimes(ctx, deps.ETA, chosen, order, now)
		return finalize(order, &chosen.Driver.ID, AddedToRoute, nil, 0.6, 0.6, nil, est,
			[]string{"assigned to a busy driver with spare BULLET capacity"}, nil)
	}

	return finalize(order, nil, Queued, nil, 0, 0, nil, estimate{},
		[]string{"no BULLET-capable driver found within 20 km"},
		[]string{"no driver available, order queued"})
}
