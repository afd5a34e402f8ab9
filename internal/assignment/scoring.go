package assignment

import (
	"math"
	"time"

	"github.com/barqfleet/dispatch-core/internal/fleet"
)

// Weights holds the per-factor weights for one tier (spec.md §4.1.2). Unused
// factors for a tier are left zero.
type Weights struct {
	Proximity    float64
	Availability float64
	Performance  float64
	Capacity     float64
	Efficiency   float64
	Fatigue      float64
}

// DefaultWeights returns the spec.md §4.1.2 weight table for one tier. Each
// tier's weights sum to 1 (spec.md §8 invariant).
func DefaultWeights(tier fleet.ServiceType) Weights {
	switch tier {
	case fleet.BARQ:
		return Weights{Proximity: 0.40, Availability: 0.30, Performance: 0.20, Fatigue: 0.10}
	case fleet.BULLET:
		return Weights{Proximity: 0.25, Capacity: 0.30, Efficiency: 0.25, Fatigue: 0.20}
	default:
		return Weights{}
	}
}

func maxRadiusKm(tier fleet.ServiceType) float64 {
	if tier == fleet.BULLET {
		return 20
	}
	return 5
}

// Breakdown carries every sub-score so callers can tie-break
// lexicographically per spec.md §4.1.2: (proximity, availability/capacity,
// performance/efficiency).
type Breakdown struct {
	Total        float64
	Proximity    float64
	Availability float64
	Performance  float64
	Capacity     float64
	Efficiency   float64
	Fatigue      float64
}

// secondFactor and thirdFactor implement the tier-specific tie-break order.
func (b Breakdown) secondFactor(tier fleet.ServiceType) float64 {
	if tier == fleet.BULLET {
		return b.Capacity
	}
	return b.Availability
}

func (b Breakdown) thirdFactor(tier fleet.ServiceType) float64 {
	if tier == fleet.BULLET {
		return b.Efficiency
	}
	return b.Performance
}

// Less reports whether a ranks below b under the spec.md §4.1.2 tie-break:
// total score first, then proximity, then the tier's second factor, then
// its third factor.
func Less(a, b Breakdown, tier fleet.ServiceType) bool {
	if a.Total != b.Total {
		return a.Total < b.Total
	}
	if a.Proximity != b.Proximity {
		return a.Proximity < b.Proximity
	}
	if af, bf := a.secondFactor(tier), b.secondFactor(tier); af != bf {
		return af < bf
	}
	return a.thirdFactor(tier) < b.thirdFactor(tier)
}

// proximitySubscore implements spec.md §4.1.2: exp(-d / (0.5*maxD)).
func proximitySubscore(distanceKm, maxD float64) float64 {
	return math.Exp(-distanceKm / (0.5 * maxD))
}

// availabilitySubscore implements spec.md §4.1.2's availability formula.
func availabilitySubscore(d fleet.Driver, tier fleet.ServiceType, now time.Time) float64 {
	if d.EstimatedAvailability.Immediate {
		return 1
	}
	w := d.EstimatedAvailability.MinutesUntil(now)
	var denom float64
	if tier == fleet.BULLET {
		denom = 30
	} else {
		denom = 10
	}
	v := 1 - w/denom
	if v < 0 {
		return 0
	}
	return v
}

// performanceSubscore defaults to 0.8 when the driver carries no recorded
// rating (spec.md §4.1.2).
func performanceSubscore(d fleet.Driver) float64 {
	if d.Performance.Rating <= 0 {
		return 0.8
	}
	return d.Performance.Rating
}

// fatigueSubscore implements the spec.md §4.1.2 lookup table, defaulting to
// 0.5 for an unrecognised level.
func fatigueSubscore(d fleet.Driver) float64 {
	switch d.Fatigue.Level {
	case fleet.FatigueLow:
		return 1.0
	case fleet.FatigueMedium:
		return 0.7
	case fleet.FatigueHigh:
		return 0.4
	default:
		return 0.5
	}
}

// capacitySubscore is remaining/max for the tier (spec.md §4.1.2).
func capacitySubscore(d fleet.Driver, tier fleet.ServiceType) float64 {
	var max float64
	if tier == fleet.BULLET {
		max = fleet.MaxBulletCapacity
	} else {
		max = fleet.MaxBarqCapacity
	}
	if max <= 0 {
		return 0
	}
	return float64(d.RemainingCapacity(tier)) / max
}

// efficiencySubscore estimates the route-improvement from adding this order
// to a driver's existing BULLET route, via Route-Fit; 0 if unmeasurable
// (spec.md §4.1.2 — "0 if unmeasurable" covers drivers with no existing
// route or no injected RouteFitter).
func efficiencySubscore(d fleet.Driver, order fleet.Order, rf RouteFitter) float64 {
	if rf == nil {
		return 0
	}
	existing := d.OrdersOfType(fleet.BULLET)
	if len(existing) == 0 {
		return 0
	}
	result := rf.Fit(existing, order)
	v := 1 - result.DetourKm/5
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Score computes a candidate's weighted total and sub-score breakdown for
// one tier (spec.md §4.1.2).
func Score(c Candidate, order fleet.Order, tier fleet.ServiceType, weights Weights, now time.Time, rf RouteFitter) Breakdown {
	b := Breakdown{
		Proximity:    proximitySubscore(c.DistanceToPickup, maxRadiusKm(tier)),
		Availability: availabilitySubscore(c.Driver, tier, now),
		Performance:  performanceSubscore(c.Driver),
		Capacity:     capacitySubscore(c.Driver, tier),
		Efficiency:   efficiencySubscore(c.Driver, order, rf),
		Fatigue:      fatigueSubscore(c.Driver),
	}
	b.Total = weights.Proximity*b.Proximity +
		weights.Availability*b.Availability +
		weights.Performance*b.Performance +
		weights.Capacity*b.Capacity +
		weights.Efficiency*b.Efficiency +
		weights.Fatigue*b.Fatigue
	return b
}
