package reposition

import (
	"github.com/barqfleet/dispatch-core/internal/fleet"
	"github.com/barqfleet/dispatch-core/internal/geo"
	"github.com/barqfleet/dispatch-core/internal/grid"
)

// ScoreDriver implements the exact formula from spec.md §4.2.4:
//
//	score = 100
//	      - 2*distance_km
//	      + (serviceType match ? 20 (BARQ) | 15 (BULLET) : 0)
//	      + min(20, idleTime_sec / 60)
//	      + 5*(rating - 4)
//	score *= 1.5 if priority=critical, 1.2 if high
//	score = max(0, score)
func ScoreDriver(d EligibleDriver, target geo.Point, need fleet.ServiceType, bucket grid.PriorityBucket) float64 {
	distanceKm := geo.HaversineKm(d.Location, target)

	score := 100.0
	score -= 2 * distanceKm

	switch need {
	case fleet.BARQ:
		if d.BarqCapable {
			score += 20
		}
	case fleet.BULLET:
		if d.BulletCapable {
			score += 15
		}
	}

	idleBonus := float64(d.IdleSeconds) / 60
	if idleBonus > 20 {
		idleBonus = 20
	}
	score += idleBonus

	score += 5 * (d.Rating - 4)

	switch bucket {
	case grid.Critical:
		score *= 1.5
	case grid.High:
		score *= 1.2
	}

	if score < 0 {
		score = 0
	}
	return score
}

// Incentive computes the incentive for dispatching one action, per spec.md
// §4.2.4: critical=10 base, high=5, plus 2 travel baseline; estimated fuel
// cost 0.5*distance_km folded into the plan cost (not the incentive itself).
func Incentive(bucket grid.PriorityBucket) float64 {
	base := 0.0
	switch bucket {
	case grid.Critical:
		base = 10
	case grid.High:
		base = 5
	}
	return base + 2
}

// FuelCost is the estimated fuel cost for one reposition action, folded into
// the plan's total Cost.
func FuelCost(distanceKm float64) float64 {
	return 0.5 * distanceKm
}
