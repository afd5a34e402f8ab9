package reposition

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/barqfleet/dispatch-core/internal/fleet"
	"github.com/barqfleet/dispatch-core/internal/geo"
	"github.com/barqfleet/dispatch-core/internal/grid"
)

func TestScoreDriver_CapabilityMatchBonus(t *testing.T) {
	target := geo.Point{Lat: 0, Lng: 0}
	base := EligibleDriver{Location: target, Rating: 4, IdleSeconds: 0}

	barqCapable := base
	barqCapable.BarqCapable = true
	notCapable := base

	assert.Greater(t, ScoreDriver(barqCapable, target, fleet.BARQ, grid.Low), ScoreDriver(notCapable, target, fleet.BARQ, grid.Low))
}

func TestScoreDriver_FartherIsLowerScore(t *testing.T) {
	target := geo.Point{Lat: 0, Lng: 0}
	near := EligibleDriver{Location: geo.Point{Lat: 0.01, Lng: 0}, Rating: 4}
	far := EligibleDriver{Location: geo.Point{Lat: 1, Lng: 0}, Rating: 4}

	assert.Greater(t, ScoreDriver(near, target, fleet.BARQ, grid.Low), ScoreDriver(far, target, fleet.BARQ, grid.Low))
}

func TestScoreDriver_IdleBonusCapsAt20Minutes(t *testing.T) {
	target := geo.Point{Lat: 0, Lng: 0}
	d1 := EligibleDriver{Location: target, Rating: 4, IdleSeconds: 20 * 60}
	d2 := EligibleDriver{Location: target, Rating: 4, IdleSeconds: 100 * 60}

	assert.Equal(t, ScoreDriver(d1, target, fleet.BARQ, grid.Low), ScoreDriver(d2, target, fleet.BARQ, grid.Low))
}

func TestScoreDriver_PriorityMultipliers(t *testing.T) {
	target := geo.Point{Lat: 0, Lng: 0}
	d := EligibleDriver{Location: target, Rating: 4}

	low := ScoreDriver(d, target, fleet.BARQ, grid.Low)
	high := ScoreDriver(d, target, fleet.BARQ, grid.High)
	critical := ScoreDriver(d, target, fleet.BARQ, grid.Critical)

	assert.InDelta(t, low*1.2, high, 0.001)
	assert.InDelta(t, low*1.5, critical, 0.001)
}

func TestScoreDriver_NeverNegative(t *testing.T) {
	target := geo.Point{Lat: 0, Lng: 0}
	d := EligibleDriver{Location: geo.Point{Lat: 40, Lng: 40}, Rating: 1}
	assert.GreaterOrEqual(t, ScoreDriver(d, target, fleet.BARQ, grid.Low), 0.0)
}

func TestIncentive_CriticalHighestBase(t *testing.T) {
	assert.Greater(t, Incentive(grid.Critical), Incentive(grid.High))
	assert.Greater(t, Incentive(grid.High), Incentive(grid.Low))
}

func TestFuelCost_ScalesWithDistance(t *testing.T) {
	assert.Equal(t, 5.0, FuelCost(10))
}
