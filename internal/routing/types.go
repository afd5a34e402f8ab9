// Package routing implements Route Enhancement (spec.md §4.3): coordinate
// unification, restricted-area filtering, an OSRM-shaped external router
// client, and the derived route metrics.
package routing

import "github.com/barqfleet/dispatch-core/internal/geo"

// RawStop is one of the three positional encodings Route Enhancement must
// tolerate, unified at this boundary into geo.Point (spec.md §4.3 step 1).
// Exactly one coordinate pair should be set; callers populate whichever
// encoding their upstream system used.
type RawStop struct {
	LocationLat, LocationLng *float64 // location.latitude / location.longitude
	Lat, Lng                 *float64 // lat / lng
	Latitude, Longitude      *float64 // latitude / longitude
	Label                    string
}

// point extracts this stop's coordinate, trying each encoding in turn.
// ok is false when none of the three encodings carried a value.
func (r RawStop) point() (geo.Point, bool) {
	if r.LocationLat != nil && r.LocationLng != nil {
		return geo.Point{Lat: *r.LocationLat, Lng: *r.LocationLng}, true
	}
	if r.Lat != nil && r.Lng != nil {
		return geo.Point{Lat: *r.Lat, Lng: *r.Lng}, true
	}
	if r.Latitude != nil && r.Longitude != nil {
		return geo.Point{Lat: *r.Latitude, Lng: *r.Longitude}, true
	}
	return geo.Point{}, false
}

// Route is the input to enhance(): an ordered stop list and the capacity
// context used for the utilization metric.
type Route struct {
	Stops    []RawStop
	Load     int
	Capacity int
}

// RestrictedArea is a named polygon that stops may not fall inside.
type RestrictedArea struct {
	Name    string
	Polygon geo.Polygon
}

// ExcludedStop records a stop dropped for falling inside a restricted area.
type ExcludedStop struct {
	Label string
	Point geo.Point
	Area  string
}

// Metrics are the derived route-quality figures from spec.md §4.3 step 5.
type Metrics struct {
	Efficiency     float64
	Utilization    float64
	ServiceQuality float64
	StopDensity    float64
}

// EnhancedRoute is the result of enhance().
type EnhancedRoute struct {
	DistanceKm               float64
	DurationMin              float64
	Geometry                 string
	Alternatives             []Alternative
	Metrics                  Metrics
	ServiceableStops         []geo.Point
	ExcludedStops            []ExcludedStop
	FullyUnserviceable       bool
	DuplicateWaypointWarning bool
	OSRMError                string
	FromCache                bool
}

// Alternative is one alternate route geometry returned by the router.
type Alternative struct {
	DistanceKm  float64
	DurationMin float64
	Geometry    string
}
