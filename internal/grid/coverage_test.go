package grid

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barqfleet/dispatch-core/internal/fleet"
	"github.com/barqfleet/dispatch-core/internal/geo"
)

func TestAnalyze_ClassifiesUnderservedCell(t *testing.T) {
	bbox := geo.BoundingBox{MinLat: 0, MaxLat: 10, MinLng: 0, MaxLng: 10}
	g := New(1, 1, bbox)
	g.SetDemand(0, 0, HistoricalDemand{Barq: 0.5, Bullet: 0.5})

	barqDriver := fleet.Driver{
		ID:                uuid.New(),
		Location:          geo.Point{Lat: 5, Lng: 5},
		ServiceCapability: map[fleet.ServiceType]bool{fleet.BARQ: true},
	}
	g.Rebuild([]fleet.Driver{barqDriver}, nil, time.Unix(0, 0))

	report := g.Analyze(DefaultThresholds(), DriverTierIndex([]fleet.Driver{barqDriver}))

	require.Len(t, report.Cells, 1)
	assert.Equal(t, Underserved, report.Cells[0].Classification, "only 1 BARQ driver against min 2, and no BULLET coverage")
	assert.Equal(t, 1, report.Cells[0].BarqDrivers)
	assert.Equal(t, 0, report.Cells[0].BulletDrivers)
}

func TestAnalyze_ClassifiesOverservedCell(t *testing.T) {
	bbox := geo.BoundingBox{MinLat: 0, MaxLat: 10, MinLng: 0, MaxLng: 10}
	g := New(1, 1, bbox)
	g.SetDemand(0, 0, HistoricalDemand{Barq: 0.0, Bullet: 0.0})

	drivers := make([]fleet.Driver, 0, 9)
	for i := 0; i < 9; i++ {
		drivers = append(drivers, fleet.Driver{
			ID:                uuid.New(),
			Location:          geo.Point{Lat: 5, Lng: 5},
			ServiceCapability: map[fleet.ServiceType]bool{fleet.BARQ: true},
		})
	}
	g.Rebuild(drivers, nil, time.Unix(0, 0))

	report := g.Analyze(DefaultThresholds(), DriverTierIndex(drivers))

	require.Len(t, report.Cells, 1)
	assert.Equal(t, Overserved, report.Cells[0].Classification)
}

func TestAnalyze_NoDemandCellIsOptimalWithNoDrivers(t *testing.T) {
	bbox := geo.BoundingBox{MinLat: 0, MaxLat: 10, MinLng: 0, MaxLng: 10}
	g := New(1, 1, bbox)

	report := g.Analyze(DefaultThresholds(), DriverTierIndex(nil))

	require.Len(t, report.Cells, 1)
	assert.Equal(t, Optimal, report.Cells[0].Classification)
	assert.Equal(t, 1.0, report.Cells[0].Cell.CoverageScore)
}

func TestAnalyze_CoverageMetricsInUnitInterval(t *testing.T) {
	bbox := geo.BoundingBox{MinLat: 0, MaxLat: 10, MinLng: 0, MaxLng: 10}
	g := New(3, 3, bbox)

	d := fleet.Driver{
		ID:                uuid.New(),
		Location:          geo.Point{Lat: 1, Lng: 1},
		ServiceCapability: map[fleet.ServiceType]bool{fleet.BARQ: true, fleet.BULLET: true},
	}
	g.Rebuild([]fleet.Driver{d}, nil, time.Unix(0, 0))

	report := g.Analyze(DefaultThresholds(), DriverTierIndex([]fleet.Driver{d}))

	assert.GreaterOrEqual(t, report.OverallCoverage, 0.0)
	assert.LessOrEqual(t, report.OverallCoverage, 1.0)
	assert.GreaterOrEqual(t, report.CoverageScoreMean, 0.0)
	assert.LessOrEqual(t, report.CoverageScoreMean, 1.0)
}
