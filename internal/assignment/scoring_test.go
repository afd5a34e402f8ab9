package assignment

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/barqfleet/dispatch-core/internal/fleet"
)

func TestDefaultWeights_SumToOne(t *testing.T) {
	for _, tier := range []fleet.ServiceType{fleet.BARQ, fleet.BULLET} {
		w := DefaultWeights(tier)
		sum := w.Proximity + w.Availability + w.Performance + w.Capacity + w.Efficiency + w.Fatigue
		assert.InDelta(t, 1.0, sum, 1e-9, "weights for %s must sum to 1", tier)
	}
}

func TestProximitySubscore_MatchesScenario1(t *testing.T) {
	// scenario 8.e2e.1: A at 1km -> proximity ~= exp(-0.4) ~= 0.67
	got := proximitySubscore(1, 5)
	assert.InDelta(t, 0.67, got, 0.01)
}

func TestAvailabilitySubscore_ImmediateIsOne(t *testing.T) {
	d := fleet.Driver{EstimatedAvailability: fleet.Availability{Immediate: true}}
	assert.Equal(t, 1.0, availabilitySubscore(d, fleet.BARQ, fixedNow))
}

func TestAvailabilitySubscore_BARQDecaysOver10Minutes(t *testing.T) {
	d := fleet.Driver{EstimatedAvailability: fleet.Availability{At: fixedNow.Add(5 * time.Minute)}}
	got := availabilitySubscore(d, fleet.BARQ, fixedNow)
	assert.InDelta(t, 0.5, got, 1e-9)
}

func TestAvailabilitySubscore_NeverNegative(t *testing.T) {
	d := fleet.Driver{EstimatedAvailability: fleet.Availability{At: fixedNow.Add(time.Hour)}}
	assert.Equal(t, 0.0, availabilitySubscore(d, fleet.BARQ, fixedNow))
}

func TestPerformanceSubscore_DefaultsWhenUnset(t *testing.T) {
	d := fleet.Driver{}
	assert.Equal(t, 0.8, performanceSubscore(d))
}

func TestFatigueSubscore_Table(t *testing.T) {
	assert.Equal(t, 1.0, fatigueSubscore(fleet.Driver{Fatigue: fleet.Fatigue{Level: fleet.FatigueLow}}))
	assert.Equal(t, 0.7, fatigueSubscore(fleet.Driver{Fatigue: fleet.Fatigue{Level: fleet.FatigueMedium}}))
	assert.Equal(t, 0.4, fatigueSubscore(fleet.Driver{Fatigue: fleet.Fatigue{Level: fleet.FatigueHigh}}))
	assert.Equal(t, 0.5, fatigueSubscore(fleet.Driver{}))
}

func TestCapacitySubscore_RemainingOverMax(t *testing.T) {
	d := fleet.Driver{Capacity: fleet.Capacity{Bullet: 5}}
	assert.Equal(t, 0.5, capacitySubscore(d, fleet.BULLET))
}

func TestEfficiencySubscore_ZeroWithoutRouteFitterOrExistingOrders(t *testing.T) {
	d := fleet.Driver{}
	order := pickupOrder(fleet.BULLET)
	assert.Equal(t, 0.0, efficiencySubscore(d, order, nil))
	assert.Equal(t, 0.0, efficiencySubscore(d, order, CheapestInsertionFitter{}))
}

func TestLess_TieBreaksOnProximityThenTierFactors(t *testing.T) {
	a := Breakdown{Total: 1, Proximity: 0.9, Availability: 0.5}
	b := Breakdown{Total: 1, Proximity: 0.8, Availability: 0.9}
	assert.True(t, Less(b, a, fleet.BARQ), "lower proximity ranks below despite higher availability")
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
