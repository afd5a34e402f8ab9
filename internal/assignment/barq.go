package assignment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/barqfleet/dispatch-core/internal/eta"
	"github.com/barqfleet/dispatch-core/internal/fleet"
)

const (
	barqRadiusKm          = 5.0
	barqEmergencyRadiusKm = 10.0
)

// assignBARQ implements spec.md §4.1.1's BARQ strategy: available search at
// 5 km, then busy-but-capable, then a 10 km emergency escalation, then
// queued_priority.
func assignBARQ(ctx context.Context, order fleet.Order, snapshot fleet.Snapshot, deps Deps, now time.Time) *Assignment {
	declined := declinedSet(deps.DeclinedDrivers)
	weights := DefaultWeights(fleet.BARQ)

	if candidates := searchAvailable(snapshot, fleet.BARQ, order.Pickup, barqRadiusKm, declined); len(candidates) > 0 {
		return pickBest(ctx, order, candidates, fleet.BARQ, weights, deps, now, Immediate)
	}

	if busy := searchBusyCapable(snapshot, fleet.BARQ, order.Pickup, declined); len(busy) > 0 {
		chosen := busy[0]
		est := estimateTimes(ctx, deps.ETA, chosen, order, now)
		return finalize(order, &chosen.Driver.ID, Immediate, nil, 0.7, 0.7, nil, est,
			[]string{"assigned to a busy driver with spare BARQ capacity"}, nil)
	}

	if emergency := searchAvailable(snapshot, fleet.BARQ, order.Pickup, barqEmergencyRadiusKm, declined); len(emergency) > 0 {
		chosen := emergency[0]
		est := estimateTimes(ctx, deps.ETA, chosen, order, now)
		warnings := []string{"SLA compliance at risk due to driver distance"}
		return finalize(order, &chosen.Driver.ID, Emergency, nil, 0.6, 0.6, nil, est,
			[]string{"no candidates within 5 km, escalated to 10 km emergency search"}, warnings)
	}

	return finalize(order, nil, QueuedPriority, nil, 0, 0, nil, estimate{},
		[]string{"no BARQ-capable driver found within 10 km"},
		[]string{"SLA will be breached"})
}

// pickBest scores candidates, assigns the top one, and fills backupDrivers
// with the next three (spec.md §4.1.2).
func pickBest(
	ctx context.Context,
	order fleet.Order,
	candidates []Candidate,
	tier fleet.ServiceType,
	weights Weights,
	deps Deps,
	now time.Time,
	assignmentType Type,
) *Assignment {
	breakdowns := make([]Breakdown, len(candidates))
	for i, c := range candidates {
		breakdowns[i] = Score(c, order, tier, weights, now, deps.RouteFit)
	}
	ranked := rankDescending(breakdowns, tier)

	best := candidates[ranked[0]]
	bestBreakdown := breakdowns[ranked[0]]

	backups := make([]uuid.UUID, 0, 3)
	for i := 1; i < len(ranked) && len(backups) < 3; i++ {
		backups = append(backups, candidates[ranked[i]].Driver.ID)
	}

	est := estimateTimes(ctx, deps.ETA, best, order, now)

	reasoning := []string{"top-scored candidate within search radius"}
	var warnings []string
	switch est.Feasibility {
	case eta.FeasibilityLate:
		warnings = append(warnings, "estimated delivery misses the requested time window")
	case eta.FeasibilityTight:
		warnings = append(warnings, "estimated delivery is close to the requested time window")
	}

	return finalize(order, &best.Driver.ID, assignmentType, nil, bestBreakdown.Total, bestBreakdown.Total, backups, est, reasoning, warnings)
}

// finalize assembles an Assignment record from a decision.
func finalize(
	order fleet.Order,
	driverID *uuid.UUID,
	assignmentType Type,
	batchID *uuid.UUID,
	confidence, score float64,
	backups []uuid.UUID,
	est estimate,
	reasoning, warnings []string,
) *Assignment {
	return &Assignment{
		OrderID:               order.ID,
		AssignedDriverID:      driverID,
		AssignmentType:        assignmentType,
		BatchID:               batchID,
		EstimatedPickupTime:   est.PickupTime,
		EstimatedDeliveryTime: est.DeliveryTime,
		Confidence:            confidence,
		Score:                 score,
		BackupDrivers:         backups,
		Reasoning:             reasoning,
		Warnings:              warnings,
	}
}
