// Package reposition scores idle drivers against underserved cells, builds
// a reposition Plan, and tracks in-flight reposition actions (spec.md
// §4.2.4-§4.2.6).
package reposition

import (
	"time"

	"github.com/google/uuid"

	"github.com/barqfleet/dispatch-core/internal/fleet"
	"github.com/barqfleet/dispatch-core/internal/geo"
	"github.com/barqfleet/dispatch-core/internal/grid"
)

// Priority mirrors grid.PriorityBucket for the emitted action — kept as its
// own type so reposition doesn't leak grid's internal bucket representation
// to dispatch collaborators.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

func priorityFromBucket(b grid.PriorityBucket) Priority {
	switch b {
	case grid.Critical:
		return PriorityCritical
	case grid.High:
		return PriorityHigh
	case grid.Medium:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Action is one instruction to move an idle driver to a cell center
// (spec.md §3's RepositionAction).
type Action struct {
	DriverID          uuid.UUID
	From              geo.Point
	To                geo.Point
	GridID            string
	Priority          Priority
	EstimatedTimeMins float64
	Incentive         float64
	Reason            string
}

// Plan is one cycle's full repositioning output.
type Plan struct {
	Strategy             grid.Strategy
	Actions              []Action
	GridsImproved        int
	CriticalResolved     int
	CoverageIncrease     float64
	SLAImprovement       float64
	EstimatedTimeMins    float64
	Cost                 float64
}

// DispatchOutcome is one action's result after being offered to the driver
// dispatch collaborator.
type DispatchOutcome struct {
	Action   Action
	Accepted bool
	Declined bool
	Reason   string
}

// CycleResult is the bucketed outcome of dispatching a whole plan
// (spec.md §4.2.5, §4.2.6).
type CycleResult struct {
	Timestamp   time.Time
	Plan        Plan
	Successful  []DispatchOutcome
	Failed      []DispatchOutcome
	Declined    []DispatchOutcome
	SuccessRate float64
}

// Collaborator is the external driver-dispatch collaborator (spec.md §6).
// Implementations must be idempotent on (driverId, gridId).
type Collaborator interface {
	SendRepositionRequest(a Action) (accepted bool, reason string, err error)
}

// ActiveEntry tracks one driver currently mid-repositioning.
type ActiveEntry struct {
	Action    Action
	StartedAt time.Time
	Status    string // in_progress, per spec.md §4.2.5
}

// EligibleDriver narrows fleet.Driver down to what the scoring formula
// needs, keeping this package decoupled from fleet's full Driver shape.
type EligibleDriver struct {
	ID            uuid.UUID
	Location      geo.Point
	IdleSeconds   int
	Rating        float64
	BarqCapable   bool
	BulletCapable bool
}

// FromFleetDriver converts a fleet.Driver that passed the eligibility gate.
func FromFleetDriver(d fleet.Driver) EligibleDriver {
	return EligibleDriver{
		ID:            d.ID,
		Location:      d.Location,
		IdleSeconds:   d.IdleTimeSeconds,
		Rating:        d.Rating,
		BarqCapable:   d.HasCapability(fleet.BARQ),
		BulletCapable: d.HasCapability(fleet.BULLET),
	}
}

// Eligible reports whether a driver may be considered for repositioning
// (spec.md §4.2.4): idle, available, idle for more than idleThresholdSeconds,
// and not already mid-repositioning.
func Eligible(d fleet.Driver, alreadyActive bool, idleThresholdSeconds int) bool {
	if d.Status != fleet.DriverStatusIdle || !d.Available {
		return false
	}
	if d.IdleTimeSeconds <= idleThresholdSeconds {
		return false
	}
	return !alreadyActive
}
