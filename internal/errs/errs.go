// Package errs holds the sentinel errors shared across the dispatch core, in
// the teacher's %w-wrapping idiom (errors.New here, fmt.Errorf("...: %w", ...)
// at call sites).
package errs

import "errors"

var (
	// ErrUnknownServiceType is fatal to the assign() call: the order names a
	// service tier the engine does not have a strategy for.
	ErrUnknownServiceType = errors.New("unknown service type")

	// ErrNoCandidates is a normal signal, never returned to a caller — it is
	// converted to a queued/queued_priority assignment and surfaced through
	// Assignment.Warnings.
	ErrNoCandidates = errors.New("no candidate drivers available")

	// ErrRouterFailure, ErrRouterTimeout and ErrRouterBadPayload are fully
	// contained inside Route Enhancement; they only ever produce the
	// fallback route, never propagate.
	ErrRouterFailure    = errors.New("external router call failed")
	ErrRouterTimeout    = errors.New("external router call timed out")
	ErrRouterBadPayload = errors.New("external router returned an unexpected payload")

	// ErrETAUnavailable is contained inside the ETA collaborator boundary;
	// it triggers the fixed-rate fallback estimate.
	ErrETAUnavailable = errors.New("eta service unavailable")

	// ErrInvalidGeometry is surfaced only to the caller of Route Enhancement
	// (a restricted-area polygon with fewer than 3 vertices; a route left
	// with fewer than 2 usable stops is returned flagged FullyUnserviceable
	// instead); it is never propagated from the Fleet Rebalancer.
	ErrInvalidGeometry = errors.New("invalid route geometry")

	// ErrDispatchDeclined records a reposition dispatch rejection; it is a
	// per-item outcome bucketed into the cycle result, not an engine error.
	ErrDispatchDeclined = errors.New("reposition dispatch declined")
)
