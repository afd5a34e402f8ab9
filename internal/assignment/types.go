// Package assignment implements the Order Assignment component: tier
// strategies, multi-factor scoring, Route-Fit batching, and time estimation
// (spec.md §4.1).
package assignment

import (
	"time"

	"github.com/google/uuid"

	"github.com/barqfleet/dispatch-core/internal/eta"
	"github.com/barqfleet/dispatch-core/internal/fleet"
)

// Type is the outcome classification of one assign() call (spec.md §3).
type Type string

const (
	Immediate      Type = "immediate"
	Batched        Type = "batched"
	AddedToRoute   Type = "added_to_route"
	Emergency      Type = "emergency"
	Queued         Type = "queued"
	QueuedPriority Type = "queued_priority"
)

// Assignment is the output record of one assign() call (spec.md §3).
type Assignment struct {
	OrderID               uuid.UUID
	AssignedDriverID      *uuid.UUID
	AssignmentType        Type
	BatchID               *uuid.UUID
	EstimatedPickupTime   time.Time
	EstimatedDeliveryTime time.Time
	Confidence            float64
	Score                 float64
	BackupDrivers         []uuid.UUID
	Reasoning             []string
	Warnings              []string
}

// Candidate is a driver scored against one order.
type Candidate struct {
	Driver           fleet.Driver
	DistanceToPickup float64
}

// RouteFitResult is the output of testing whether a new order fits into a
// driver's existing BULLET route (spec.md §4.1.3).
type RouteFitResult struct {
	Fits               bool
	DetourKm           float64
	OriginalDistanceKm float64
	NewDistanceKm      float64
}

// RouteFitter tests whether inserting a new order into a driver's existing
// stop sequence yields an acceptable detour. Scenario 8.3 requires this to
// be injectable with a deterministic stub.
type RouteFitter interface {
	Fit(existing []fleet.AssignedOrder, order fleet.Order) RouteFitResult
}

// Deps carries the optional external collaborators and advisory inputs for
// one assign() call. The fleet snapshot is passed to Assign separately.
type Deps struct {
	ETA      eta.Service
	RouteFit RouteFitter

	// DeclinedDrivers excludes drivers known to have just declined this
	// order from candidate search, before scoring (SPEC_FULL.md supplement
	// grounded on the teacher's GetRejectedDriverIDsByOrderID exclusion).
	DeclinedDrivers []uuid.UUID
}

func declinedSet(ids []uuid.UUID) map[uuid.UUID]bool {
	out := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}
