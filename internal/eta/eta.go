// Package eta holds the ETA-service collaborator boundary (spec.md §6) and
// the fixed-rate fallback estimate assignment falls back to when that
// collaborator is unavailable (spec.md §4.1.4, §7 ErrETAUnavailable).
package eta

import (
	"context"
	"math"
	"time"

	"github.com/barqfleet/dispatch-core/internal/geo"
)

// PickupServiceMinutes is the fixed dwell time assumed at pickup
// (spec.md §6, stopTimes.pickup default).
const PickupServiceMinutes = 5.0

// fallbackMinutesPerKm is the fallback travel-time rate:
// spec.md §4.1.4 fixes travelMinutes = ceil(distanceKm * 3).
const fallbackMinutesPerKm = 3.0

// TravelQuery describes one travel-time request to the ETA collaborator.
// Origin/Destination carry the actual leg endpoints so a real collaborator
// (e.g. a Distance Matrix call) can compute the leg itself rather than
// re-deriving it from DistanceKm; DistanceKm is always populated too, for
// collaborators and fallbacks that only need the haversine distance.
type TravelQuery struct {
	Origin           geo.Point
	Destination      geo.Point
	DistanceKm       float64
	VehicleType      string
	TrafficCondition string
	WeatherCondition string
	DriverHistory    string
	NumStops         int
	TotalRouteKm     float64
}

// TravelResult is the ETA collaborator's response.
type TravelResult struct {
	TotalMinutes float64
	ArrivalTime  time.Time
}

// TimeWindow mirrors fleet.TimeWindow without importing it, keeping this
// package at the bottom of the dependency graph.
type TimeWindow struct {
	Earliest time.Time
	Latest   time.Time
}

// Feasibility is the result of checking a travel estimate against a time
// window.
type Feasibility struct {
	Status       string // onTime | tight | late
	SlackMinutes float64
}

const (
	FeasibilityOnTime = "onTime"
	FeasibilityTight  = "tight"
	FeasibilityLate   = "late"
)

// Service is the external ETA collaborator (spec.md §6). Implementations
// must return ErrETAUnavailable-compatible errors (wrapped via
// errs.ErrETAUnavailable) on failure so callers can fall back uniformly.
type Service interface {
	CalculateETA(ctx context.Context, q TravelQuery) (TravelResult, error)
	CheckTimeWindowFeasibility(ctx context.Context, now time.Time, window TimeWindow, travelMinutes float64) (Feasibility, error)
}

// FallbackTravelMinutes implements spec.md §4.1.4's fixed-rate fallback:
// ceil(distanceKm * 3).
func FallbackTravelMinutes(distanceKm float64) float64 {
	return math.Ceil(distanceKm * fallbackMinutesPerKm)
}

// CheckFeasibility classifies a travel estimate against an optional time
// window. slack < 0 is late; slack under the tight threshold is tight.
func CheckFeasibility(now time.Time, window TimeWindow, travelMinutes, pickupServiceMinutes float64) Feasibility {
	arrival := now.Add(time.Duration(travelMinutes+pickupServiceMinutes) * time.Minute)
	slack := window.Latest.Sub(arrival).Minutes()

	switch {
	case slack < 0:
		return Feasibility{Status: FeasibilityLate, SlackMinutes: slack}
	case slack < 10:
		return Feasibility{Status: FeasibilityTight, SlackMinutes: slack}
	default:
		return Feasibility{Status: FeasibilityOnTime, SlackMinutes: slack}
	}
}
