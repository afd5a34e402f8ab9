package reposition

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/barqfleet/dispatch-core/internal/fleet"
	"github.com/barqfleet/dispatch-core/internal/geo"
	"github.com/barqfleet/dispatch-core/internal/grid"
)

// scoredDriver pairs a driver with its score against one need, for sorting.
type scoredDriver struct {
	driver EligibleDriver
	score  float64
}

// BuildPlan implements spec.md §4.2.4 driver selection and §4.2.6 expected
// improvement: needs are processed critical-then-high (high skipped entirely
// under EMERGENCY), each need's BARQ then BULLET shortfall is filled from
// the shared eligible pool by descending score, and the chosen driver is
// removed from the pool so no driver is double-booked within one plan.
func BuildPlan(strategy grid.Strategy, needs []grid.Need, pool []EligibleDriver) Plan {
	available := make([]EligibleDriver, len(pool))
	copy(available, pool)

	plan := Plan{Strategy: strategy}

	improvedCells := make(map[string]bool)
	var criticalResolved int
	var maxEstimatedTime float64
	var totalCost float64

	for _, need := range needs {
		if need.Bucket == grid.High && strategy == grid.Emergency {
			continue
		}
		if need.Bucket != grid.Critical && need.Bucket != grid.High {
			continue
		}

		remainingBarq := need.RequiredBarq
		remainingBullet := need.RequiredBullet
		resolvedAny := false

		if remainingBarq > 0 {
			var picked int
			available, picked = fillNeed(&plan, available, need, fleet.BARQ, remainingBarq, &maxEstimatedTime, &totalCost)
			if picked > 0 {
				resolvedAny = true
			}
		}
		if remainingBullet > 0 {
			var picked int
			available, picked = fillNeed(&plan, available, need, fleet.BULLET, remainingBullet, &maxEstimatedTime, &totalCost)
			if picked > 0 {
				resolvedAny = true
			}
		}

		if resolvedAny {
			improvedCells[need.Cell.Cell.ID] = true
			if need.Bucket == grid.Critical {
				criticalResolved++
			}
		}
	}

	plan.GridsImproved = len(improvedCells)
	plan.CriticalResolved = criticalResolved
	plan.CoverageIncrease = 0.01 * float64(plan.GridsImproved)
	plan.SLAImprovement = 0.05 * float64(criticalResolved)
	plan.EstimatedTimeMins = maxEstimatedTime
	plan.Cost = totalCost

	return plan
}

func fillNeed(
	plan *Plan,
	pool []EligibleDriver,
	need grid.Need,
	tier fleet.ServiceType,
	count int,
	maxEstimatedTime *float64,
	totalCost *float64,
) ([]EligibleDriver, int) {
	if count <= 0 || len(pool) == 0 {
		return pool, 0
	}

	target := need.Cell.Cell.Center
	scored := make([]scoredDriver, 0, len(pool))
	for _, d := range pool {
		scored = append(scored, scoredDriver{driver: d, score: ScoreDriver(d, target, tier, need.Bucket)})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	if count > len(scored) {
		count = len(scored)
	}

	chosen := make(map[uuid.UUID]bool, count)
	for i := 0; i < count; i++ {
		d := scored[i].driver
		chosen[d.ID] = true

		distanceKm := geo.HaversineKm(d.Location, target)
		action := Action{
			DriverID:          d.ID,
			From:              d.Location,
			To:                target,
			GridID:            need.Cell.Cell.ID,
			Priority:          priorityFromBucket(need.Bucket),
			EstimatedTimeMins: estimateTravelMinutes(distanceKm),
			Incentive:         Incentive(need.Bucket),
			Reason:            reasonFor(tier, need),
		}
		plan.Actions = append(plan.Actions, action)

		if action.EstimatedTimeMins > *maxEstimatedTime {
			*maxEstimatedTime = action.EstimatedTimeMins
		}
		*totalCost += Incentive(need.Bucket) + FuelCost(distanceKm)
	}

	remaining := make([]EligibleDriver, 0, len(pool)-count)
	for _, d := range pool {
		if !chosen[d.ID] {
			remaining = append(remaining, d)
		}
	}
	return remaining, count
}

// estimateTravelMinutes mirrors the fixed-rate ETA fallback
// (eta.FallbackTravelMinutes) (3 minutes per km, rounded up) since reposition moves don't
// carry a router ETA of their own.
func estimateTravelMinutes(distanceKm float64) float64 {
	return math.Ceil(distanceKm * 3)
}

func reasonFor(tier fleet.ServiceType, need grid.Need) string {
	return fmt.Sprintf("%s shortfall in cell %s (priority=%s)", tier, need.Cell.Cell.ID, need.Bucket)
}
