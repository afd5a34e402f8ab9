package reposition

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Dispatcher owns the active-repositioning set and the single-flight guard
// that coalesces overlapping rebalance cycles (spec.md §9's REDESIGN FLAG:
// the original had no such guard, so two triggers firing back-to-back could
// double-dispatch the same idle driver).
type Dispatcher struct {
	collaborator Collaborator

	mu       sync.Mutex
	active   map[uuid.UUID]ActiveEntry
	inFlight bool
}

// NewDispatcher builds a Dispatcher around a driver-dispatch collaborator.
func NewDispatcher(collaborator Collaborator) *Dispatcher {
	return &Dispatcher{
		collaborator: collaborator,
		active:       make(map[uuid.UUID]ActiveEntry),
	}
}

// TryBeginCycle reports whether a rebalance cycle may start now. It returns
// false if a cycle is already running, in which case the caller should skip
// this trigger rather than queue a second one.
func (d *Dispatcher) TryBeginCycle() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.inFlight {
		return false
	}
	d.inFlight = true
	return true
}

// EndCycle releases the single-flight guard.
func (d *Dispatcher) EndCycle() {
	d.mu.Lock()
	d.inFlight = false
	d.mu.Unlock()
}

// IsActive reports whether a driver is currently mid-repositioning.
func (d *Dispatcher) IsActive(driverID uuid.UUID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.active[driverID]
	return ok
}

// ActiveSnapshot returns a copy of the currently in-flight reposition
// actions, for the coverage dashboard.
func (d *Dispatcher) ActiveSnapshot() map[uuid.UUID]ActiveEntry {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[uuid.UUID]ActiveEntry, len(d.active))
	for k, v := range d.active {
		out[k] = v
	}
	return out
}

// Dispatch offers every action in the plan to the collaborator, buckets the
// outcome, and tracks accepted actions in the active set until Complete is
// called (spec.md §4.2.5).
func (d *Dispatcher) Dispatch(plan Plan, now time.Time) CycleResult {
	result := CycleResult{Timestamp: now, Plan: plan}

	for _, action := range plan.Actions {
		if d.IsActive(action.DriverID) {
			result.Declined = append(result.Declined, DispatchOutcome{
				Action:   action,
				Declined: true,
				Reason:   "driver already mid-repositioning",
			})
			continue
		}

		accepted, reason, err := d.collaborator.SendRepositionRequest(action)
		outcome := DispatchOutcome{Action: action, Reason: reason}

		switch {
		case err != nil:
			outcome.Reason = err.Error()
			result.Failed = append(result.Failed, outcome)
		case accepted:
			outcome.Accepted = true
			result.Successful = append(result.Successful, outcome)
			d.mu.Lock()
			d.active[action.DriverID] = ActiveEntry{Action: action, StartedAt: now, Status: "in_progress"}
			d.mu.Unlock()
		default:
			outcome.Declined = true
			result.Declined = append(result.Declined, outcome)
		}
	}

	total := len(result.Successful) + len(result.Failed) + len(result.Declined)
	if total > 0 {
		result.SuccessRate = float64(len(result.Successful)) / float64(total)
	}
	return result
}

// Complete removes a driver from the active set once its reposition move
// finishes (successfully or not) — called by whatever observes driver
// location updates converging on the target cell.
func (d *Dispatcher) Complete(driverID uuid.UUID) {
	d.mu.Lock()
	delete(d.active, driverID)
	d.mu.Unlock()
}
