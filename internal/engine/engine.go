// Package engine wires Order Assignment, the Fleet Rebalancer, and Route
// Enhancement into one process, owning the Grid, activeRepositioning, and
// recentAssignments per spec.md §3's ownership rules.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/barqfleet/dispatch-core/internal/assignment"
	"github.com/barqfleet/dispatch-core/internal/eta"
	"github.com/barqfleet/dispatch-core/internal/fleet"
	"github.com/barqfleet/dispatch-core/internal/forecast"
	"github.com/barqfleet/dispatch-core/internal/geo"
	"github.com/barqfleet/dispatch-core/internal/grid"
	"github.com/barqfleet/dispatch-core/internal/reposition"
	"github.com/barqfleet/dispatch-core/internal/routing"
)

// Config carries the spec.md §6 options this engine consumes.
type Config struct {
	GridRows, GridCols int
	BoundingBox        geo.BoundingBox
	Thresholds         grid.Thresholds
	IdleTimeThreshold  int // seconds, eligibility gate (default 300)
	RestrictedAreas    []routing.RestrictedArea
}

// Engine is the process-level orchestrator behind barqctl's serve/assign/
// rebalance/top commands.
type Engine struct {
	cfg Config
	log zerolog.Logger

	fleet      fleet.StatusProvider
	enhancer   *routing.Enhancer
	etaService eta.Service
	forecaster forecast.Forecaster
	routeFit   assignment.RouteFitter

	grid       *grid.Grid
	dispatcher *reposition.Dispatcher
	history    *reposition.History
	recent     *assignment.RecentAssignments
}

// Deps bundles engine's external collaborators; all but fleet and
// collaborator are optional (nil-safe) per spec.md §6's "optional" framing.
type Deps struct {
	Fleet           fleet.StatusProvider
	Collaborator    reposition.Collaborator
	Router          routing.Router
	ETAService      eta.Service
	Forecaster      forecast.Forecaster
	RouteFit        assignment.RouteFitter
	RouterCacheSize int
	Logger          zerolog.Logger
}

// New constructs an Engine. The grid is created once here; its driver lists
// and pending-order counts are rebuilt only inside RunRebalanceCycle, while
// every Analyze call (CoverageSnapshot included) rewrites each cell's
// CoverageScore.
func New(cfg Config, deps Deps) (*Engine, error) {
	if deps.Fleet == nil {
		return nil, fmt.Errorf("engine: fleet status provider is required")
	}
	if deps.Collaborator == nil {
		return nil, fmt.Errorf("engine: driver dispatch collaborator is required")
	}

	rows, cols := cfg.GridRows, cfg.GridCols
	if rows <= 0 {
		rows = 10
	}
	if cols <= 0 {
		cols = 10
	}
	th := cfg.Thresholds
	if th == (grid.Thresholds{}) {
		th = grid.DefaultThresholds()
	}
	idleThreshold := cfg.IdleTimeThreshold
	if idleThreshold <= 0 {
		idleThreshold = 300
	}

	var enhancer *routing.Enhancer
	if deps.Router != nil {
		var err error
		enhancer, err = routing.NewEnhancer(deps.Router, deps.RouterCacheSize)
		if err != nil {
			return nil, fmt.Errorf("engine: build route enhancer: %w", err)
		}
	}

	return &Engine{
		cfg:        Config{GridRows: rows, GridCols: cols, BoundingBox: cfg.BoundingBox, Thresholds: th, IdleTimeThreshold: idleThreshold, RestrictedAreas: cfg.RestrictedAreas},
		log:        deps.Logger,
		fleet:      deps.Fleet,
		enhancer:   enhancer,
		etaService: deps.ETAService,
		forecaster: deps.Forecaster,
		routeFit:   deps.RouteFit,
		grid:       grid.New(rows, cols, cfg.BoundingBox),
		dispatcher: reposition.NewDispatcher(deps.Collaborator),
		history:    reposition.NewHistory(),
		recent:     assignment.NewRecentAssignments(),
	}, nil
}

// Assign runs one Order Assignment call (spec.md §4.1). The grid is never
// written here — assignment only reads the fleet snapshot.
func (e *Engine) Assign(ctx context.Context, order fleet.Order) (*assignment.Assignment, error) {
	snapshot, err := e.fleet.GetFleetStatus()
	if err != nil {
		return nil, fmt.Errorf("engine: fetch fleet status: %w", err)
	}

	deps := assignment.Deps{ETA: e.etaService, RouteFit: e.routeFit}
	result, err := assignment.Assign(ctx, order, snapshot, deps, time.Now(), e.recent)
	if err != nil {
		e.log.Error().Err(err).Str("order_id", order.ID.String()).Msg("assignment failed")
		return nil, err
	}

	e.log.Info().
		Str("order_id", order.ID.String()).
		Str("assignment_type", string(result.AssignmentType)).
		Float64("confidence", result.Confidence).
		Msg("order assigned")
	return result, nil
}

// EnhanceRoute runs Route Enhancement (spec.md §4.3).
func (e *Engine) EnhanceRoute(ctx context.Context, route routing.Route) (routing.EnhancedRoute, error) {
	if e.enhancer == nil {
		return routing.EnhancedRoute{}, fmt.Errorf("engine: no router configured")
	}
	return e.enhancer.Enhance(ctx, route, e.cfg.RestrictedAreas)
}

// CoverageSnapshot returns a coverage analysis of the grid as last rebuilt,
// classified against the current fleet snapshot, for the /coverage endpoint
// and the top dashboard. It does not rebuild the grid's driver lists, but
// Analyze writes the recomputed CoverageScore back into each cell.
func (e *Engine) CoverageSnapshot() grid.Report {
	snapshot, err := e.fleet.GetFleetStatus()
	if err != nil {
		return grid.Report{}
	}
	index := grid.DriverTierIndex(snapshot.All())
	return e.grid.Analyze(e.cfg.Thresholds, index)
}

// History returns the rolling reposition-cycle history for the dashboard.
func (e *Engine) History() []reposition.CycleResult {
	return e.history.Recent()
}

// ActiveRepositioning returns drivers currently mid-repositioning.
func (e *Engine) ActiveRepositioning() map[string]reposition.ActiveEntry {
	snapshot := e.dispatcher.ActiveSnapshot()
	out := make(map[string]reposition.ActiveEntry, len(snapshot))
	for id, entry := range snapshot {
		out[id.String()] = entry
	}
	return out
}
