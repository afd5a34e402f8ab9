package assignment

import (
	"github.com/barqfleet/dispatch-core/internal/fleet"
	"github.com/barqfleet/dispatch-core/internal/geo"
)

// CheapestInsertionFitter implements the Route-Fit policy decision from
// spec.md §9's open implementation choice (documented in SPEC_FULL.md):
// for a driver's existing ordered BULLET stops, try inserting the new
// order's pickup and dropoff at every adjacent position (pickup must
// precede its own dropoff), compute the Haversine route length for each
// placement, and take the minimum. detour_km is the increase over the
// existing route length; fits is detour_km <= 5.0.
type CheapestInsertionFitter struct{}

// Fit implements RouteFitter.
func (CheapestInsertionFitter) Fit(existing []fleet.AssignedOrder, order fleet.Order) RouteFitResult {
	stops := make([]geo.Point, 0, len(existing)*2)
	for _, o := range existing {
		stops = append(stops, o.Pickup, o.Dropoff)
	}

	original := routeLength(stops)

	best := -1.0
	n := len(stops)
	for i := 0; i <= n; i++ {
		for j := i; j <= n; j++ {
			candidate := insertAt(stops, order.Pickup, order.Dropoff, i, j)
			length := routeLength(candidate)
			if best < 0 || length < best {
				best = length
			}
		}
	}
	if best < 0 {
		best = original
	}

	detour := best - original
	if detour < 0 {
		detour = 0
	}

	return RouteFitResult{
		Fits:               detour <= 5.0,
		DetourKm:           detour,
		OriginalDistanceKm: original,
		NewDistanceKm:      best,
	}
}

// insertAt inserts pickup at index i and dropoff at index j (j measured in
// the ORIGINAL stops slice, i.e. before pickup is inserted), preserving
// pickup-before-dropoff ordering.
func insertAt(stops []geo.Point, pickup, dropoff geo.Point, i, j int) []geo.Point {
	out := make([]geo.Point, 0, len(stops)+2)
	out = append(out, stops[:i]...)
	out = append(out, pickup)
	out = append(out, stops[i:j]...)
	out = append(out, dropoff)
	out = append(out, stops[j:]...)
	return out
}

func routeLength(stops []geo.Point) float64 {
	var total float64
	for i := 1; i < len(stops); i++ {
		total += geo.HaversineKm(stops[i-1], stops[i])
	}
	return total
}
