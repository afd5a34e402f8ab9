package routing

import "github.com/barqfleet/dispatch-core/internal/geo"

// minServiceableStops is the spec.md §4.3 step 3 short-circuit threshold.
const minServiceableStops = 2

// duplicateWaypointKm is the spec.md §4.3 step 4 near-duplicate
// threshold (25 m), expressed in kilometres for comparison against HaversineKm.
const duplicateWaypointKm = 0.025

// labeledPoint pairs a unified coordinate with its stop's label, so
// exclusions can still be reported by name.
type labeledPoint struct {
	label string
	point geo.Point
}

// extractStops applies spec.md §4.3 step 1: unify the three positional
// encodings, dropping stops with no usable coordinate.
func extractStops(raw []RawStop) []labeledPoint {
	out := make([]labeledPoint, 0, len(raw))
	for _, r := range raw {
		if p, ok := r.point(); ok {
			out = append(out, labeledPoint{label: r.Label, point: p})
		}
	}
	return out
}

// filterRestricted applies spec.md §4.3 step 2: a stop inside any
// restricted polygon is unserviceable, tagged with the first area it hit.
func filterRestricted(stops []labeledPoint, areas []RestrictedArea) (serviceable []geo.Point, excluded []ExcludedStop) {
	serviceable = make([]geo.Point, 0, len(stops))
	for _, s := range stops {
		hitArea := ""
		for _, area := range areas {
			if area.Polygon.Contains(s.point) {
				hitArea = area.Name
				break
			}
		}
		if hitArea != "" {
			excluded = append(excluded, ExcludedStop{Label: s.label, Point: s.point, Area: hitArea})
			continue
		}
		serviceable = append(serviceable, s.point)
	}
	return serviceable, excluded
}

// hasNearDuplicateWaypoints reports whether any two consecutive stops sit
// closer than 25 m (spec.md §4.3 step 4).
func hasNearDuplicateWaypoints(stops []geo.Point) bool {
	for i := 1; i < len(stops); i++ {
		if geo.HaversineKm(stops[i-1], stops[i]) < duplicateWaypointKm {
			return true
		}
	}
	return false
}
