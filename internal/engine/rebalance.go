package engine

import (
	"context"
	"time"

	"github.com/barqfleet/dispatch-core/internal/fleet"
	"github.com/barqfleet/dispatch-core/internal/forecast"
	"github.com/barqfleet/dispatch-core/internal/geo"
	"github.com/barqfleet/dispatch-core/internal/grid"
	"github.com/barqfleet/dispatch-core/internal/reposition"
)

// PendingOrderCounter supplies the per-cell pending-order counts grid.Rebuild
// needs (spec.md §4.2.3's pendingOrders term). Optional — a nil counter
// means every cell starts at zero, matching the "no persisted state
// required" framing of spec.md §6.
type PendingOrderCounter interface {
	PendingOrdersByCell(ctx context.Context) (map[string]int, error)
}

// RunRebalanceCycle implements one Fleet Rebalancer cycle (spec.md §4.2).
// Concurrent cycles are coalesced: if one is already in flight, this call
// returns ok=false immediately instead of blocking or queuing.
func (e *Engine) RunRebalanceCycle(ctx context.Context, counter PendingOrderCounter) (reposition.CycleResult, bool) {
	if !e.dispatcher.TryBeginCycle() {
		return reposition.CycleResult{}, false
	}
	defer e.dispatcher.EndCycle()

	now := time.Now()
	snapshot, err := e.fleet.GetFleetStatus()
	if err != nil {
		e.log.Error().Err(err).Msg("rebalance: fetch fleet status failed")
		return reposition.CycleResult{}, false
	}

	pendingByCell := map[string]int{}
	if counter != nil {
		if m, err := counter.PendingOrdersByCell(ctx); err == nil {
			pendingByCell = m
		} else {
			e.log.Warn().Err(err).Msg("rebalance: pending order lookup failed, treating as zero")
		}
	}

	all := snapshot.All()
	e.grid.Rebuild(all, pendingByCell, now)

	index := grid.DriverTierIndex(all)
	report := e.grid.Analyze(e.cfg.Thresholds, index)

	hotspotCells := map[string]bool{}
	var expectedSpike bool
	if e.forecaster != nil {
		if result, err := e.forecaster.Forecast(ctx); err == nil {
			expectedSpike = result.ExpectedSpike
			hotspotCells = forecast.HotspotCellSet(result, e.cellOf)
		} else {
			e.log.Warn().Err(err).Msg("rebalance: forecaster failed, proceeding without hotspots")
		}
	}

	needs := grid.ComputeNeeds(report, e.cfg.Thresholds, hotspotCells)
	strategy := grid.SelectStrategy(needs, expectedSpike)

	pool := e.eligiblePool(all)
	plan := reposition.BuildPlan(strategy, needs, pool)

	result := e.dispatcher.Dispatch(plan, now)
	e.history.Record(result)

	e.log.Info().
		Str("strategy", string(strategy)).
		Int("actions", len(plan.Actions)).
		Int("successful", len(result.Successful)).
		Int("failed", len(result.Failed)).
		Int("declined", len(result.Declined)).
		Msg("rebalance cycle complete")

	return result, true
}

// eligiblePool narrows the fleet down to drivers eligible for
// repositioning (spec.md §4.2.4).
func (e *Engine) eligiblePool(drivers []fleet.Driver) []reposition.EligibleDriver {
	out := make([]reposition.EligibleDriver, 0, len(drivers))
	for _, d := range drivers {
		if !reposition.Eligible(d, e.dispatcher.IsActive(d.ID), e.cfg.IdleTimeThreshold) {
			continue
		}
		out = append(out, reposition.FromFleetDriver(d))
	}
	return out
}

// cellOf maps a geographic point to its grid cell ID, for the forecaster's
// hotspot-to-cell lookup.
func (e *Engine) cellOf(p geo.Point) (string, bool) {
	rows, cols := e.grid.Dimensions()
	row, col, ok := e.cfg.BoundingBox.CellOf(p, rows, cols)
	if !ok {
		return "", false
	}
	cell, ok := e.grid.CellAt(row, col)
	if !ok {
		return "", false
	}
	return cell.ID, true
}
