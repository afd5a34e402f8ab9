// Package forecast holds the optional demand-forecaster collaborator
// boundary (spec.md §6). A nil Forecaster is valid everywhere it's consumed
// — the rebalancer treats a missing forecaster as "no spike, no hotspots".
package forecast

import (
	"context"

	"github.com/barqfleet/dispatch-core/internal/geo"
)

// Hotspot is a forecast-reported demand concentration point.
type Hotspot struct {
	Location geo.Point
	Weight   float64
}

// Result is the forecaster's snapshot-time output.
type Result struct {
	ExpectedSpike bool
	Hotspots      []Hotspot
}

// Forecaster is the optional external demand forecaster.
type Forecaster interface {
	Forecast(ctx context.Context) (Result, error)
}

// HotspotCellSet maps each hotspot to the grid cell it falls in, for
// ComputeNeeds' hotspot bonus. Callers supply the cellOf lookup so this
// package doesn't need to depend on internal/grid.
func HotspotCellSet(result Result, cellOf func(geo.Point) (string, bool)) map[string]bool {
	out := make(map[string]bool, len(result.Hotspots))
	for _, h := range result.Hotspots {
		if id, ok := cellOf(h.Location); ok {
			out[id] = true
		}
	}
	return out
}
