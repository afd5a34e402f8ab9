package assignment

import (
	"context"
	"fmt"
	"time"

	"github.com/barqfleet/dispatch-core/internal/errs"
	"github.com/barqfleet/dispatch-core/internal/fleet"
)

// Assign implements spec.md §4.1's contract: assign(order, deps) ->
// Assignment. It is pure with respect to snapshot; its only side effect is
// recording the outcome into recent, after the assignment record is
// finalized (spec.md §5's ordering guarantee — a cancelled call leaves no
// partial state).
func Assign(ctx context.Context, order fleet.Order, snapshot fleet.Snapshot, deps Deps, now time.Time, recent *RecentAssignments) (*Assignment, error) {
	var result *Assignment

	switch order.ServiceType {
	case fleet.BARQ:
		result = assignBARQ(ctx, order, snapshot, deps, now)
	case fleet.BULLET:
		result = assignBULLET(ctx, order, snapshot, deps, now)
	default:
		return nil, fmt.Errorf("service type %q: %w", order.ServiceType, errs.ErrUnknownServiceType)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if result.AssignedDriverID != nil && recent != nil {
		recent.Record(*result.AssignedDriverID, order.ID, order.ServiceType, now)
	}

	return result, nil
}
