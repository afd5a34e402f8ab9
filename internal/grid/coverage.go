package grid

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/barqfleet/dispatch-core/internal/fleet"
)

// CellCoverage is the per-cell analysis result for one rebalance cycle
// (spec.md §4.2.2).
type CellCoverage struct {
	Cell           Cell
	BarqDrivers    int
	BulletDrivers  int
	Classification Classification
}

// Report is the citywide coverage analysis for one cycle.
type Report struct {
	Cells []CellCoverage

	OverallCoverage       float64
	BarqCoverage          float64
	BulletCoverage        float64
	CoverageScoreMean     float64
	CoverageScoreVariance float64
}

// Analyze classifies every cell and computes citywide metrics. driverTier
// looks up, for a driver ID, whether it carries BARQ/BULLET capability; the
// rebalancer supplies this from the same snapshot used to Rebuild the grid.
func (g *Grid) Analyze(th Thresholds, driverTier func(uuid.UUID) (barq, bullet bool)) Report {
	g.mu.Lock()
	cellsCopy := make([]Cell, 0, g.rows*g.cols)
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			cellsCopy = append(cellsCopy, *g.cells[r][c])
		}
	}
	g.mu.Unlock()

	report := Report{Cells: make([]CellCoverage, 0, len(cellsCopy))}

	var anyDriverCells, barqCells, bulletCells int
	scores := make([]float64, 0, len(cellsCopy))

	for i := range cellsCopy {
		cell := cellsCopy[i]
		var barqCount, bulletCount int
		for _, id := range cell.Drivers {
			barq, bullet := driverTier(id)
			if barq {
				barqCount++
			}
			if bullet {
				bulletCount++
			}
		}

		class := classify(cell, barqCount, bulletCount, th)

		coverageScore := cellScore(cell, barqCount, bulletCount, th)
		cellsCopy[i].CoverageScore = coverageScore
		scores = append(scores, coverageScore)

		report.Cells = append(report.Cells, CellCoverage{
			Cell:           cellsCopy[i],
			BarqDrivers:    barqCount,
			BulletDrivers:  bulletCount,
			Classification: class,
		})

		if len(cell.Drivers) > 0 {
			anyDriverCells++
		}
		if barqCount > 0 {
			barqCells++
		}
		if bulletCount > 0 {
			bulletCells++
		}
	}

	g.writeBackScores(report.Cells)

	total := float64(len(cellsCopy))
	if total > 0 {
		report.OverallCoverage = float64(anyDriverCells) / total
		report.BarqCoverage = float64(barqCells) / total
		report.BulletCoverage = float64(bulletCells) / total
	}
	if len(scores) > 0 {
		report.CoverageScoreMean = stat.Mean(scores, nil)
		if len(scores) > 1 {
			report.CoverageScoreVariance = stat.Variance(scores, nil)
		}
	}

	return report
}

func (g *Grid) writeBackScores(cells []CellCoverage) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, cc := range cells {
		g.cells[cc.Cell.Row][cc.Cell.Col].CoverageScore = cc.Cell.CoverageScore
	}
}

func classify(cell Cell, barqCount, bulletCount int, th Thresholds) Classification {
	underserved := (barqCount < th.MinBarq && cell.HistoricalDemand.Barq > 0.1) ||
		(bulletCount < th.MinBullet && cell.HistoricalDemand.Bullet > 0.1)
	if underserved {
		return Underserved
	}
	if barqCount > th.MaxBarq || bulletCount > th.MaxBullet {
		return Overserved
	}
	return Optimal
}

// cellScore is a [0,1] coverage indicator: 1 when driver counts sit at or
// above the minimum thresholds for both tiers, scaled down proportionally
// otherwise. It feeds CoverageScoreMean/Variance, not any spec.md
// invariant — the spec only requires CoverageScore to exist in [0,1].
func cellScore(cell Cell, barqCount, bulletCount int, th Thresholds) float64 {
	barqTarget := float64(th.MinBarq)
	bulletTarget := float64(th.MinBullet)

	barqRatio := 1.0
	if barqTarget > 0 {
		barqRatio = float64(barqCount) / barqTarget
		if barqRatio > 1 {
			barqRatio = 1
		}
	}
	bulletRatio := 1.0
	if bulletTarget > 0 {
		bulletRatio = float64(bulletCount) / bulletTarget
		if bulletRatio > 1 {
			bulletRatio = 1
		}
	}

	score := (barqRatio + bulletRatio) / 2
	if cell.HistoricalDemand.Barq <= 0.1 && cell.HistoricalDemand.Bullet <= 0.1 {
		score = 1 // no meaningful demand here, treat as fully covered
	}
	return score
}

// DriverTierIndex builds the driverTier lookup Analyze needs from a flat
// driver list.
func DriverTierIndex(drivers []fleet.Driver) func(uuid.UUID) (barq, bullet bool) {
	idx := make(map[uuid.UUID][2]bool, len(drivers))
	for _, d := range drivers {
		idx[d.ID] = [2]bool{d.HasCapability(fleet.BARQ), d.HasCapability(fleet.BULLET)}
	}
	return func(id uuid.UUID) (bool, bool) {
		v := idx[id]
		return v[0], v[1]
	}
}
