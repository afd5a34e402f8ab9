// Package grid implements the discrete coverage grid the Fleet Rebalancer
// owns: cell bookkeeping, per-cell coverage classification, and citywide
// coverage metrics (spec.md §3, §4.2.1, §4.2.2).
package grid

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/barqfleet/dispatch-core/internal/fleet"
	"github.com/barqfleet/dispatch-core/internal/geo"
)

// HistoricalDemand is the per-cell demand profile supplied by the (external)
// demand forecaster / historical statistics source.
type HistoricalDemand struct {
	Barq          float64 // in [0,1]
	Bullet        float64 // in [0,1]
	PeakHours     []int
	AverageOrders float64
}

// Classification is a cell's coverage state for the current cycle.
type Classification string

const (
	Underserved Classification = "underserved"
	Overserved  Classification = "overserved"
	Optimal     Classification = "optimal"
)

// Cell is one rectangle of the served-area grid. Cells are created once at
// grid construction and never destroyed; only Drivers, PendingOrders,
// CoverageScore and LastUpdated mutate. Rebuild sets all but CoverageScore;
// Analyze sets CoverageScore on every call.
type Cell struct {
	ID       string
	Row, Col int
	Center   geo.Point

	Drivers       []uuid.UUID
	PendingOrders int

	HistoricalDemand HistoricalDemand
	CoverageScore    float64
	LastUpdated      time.Time
}

// Cell does not store per-tier driver counts: Analyze computes them from the
// live driver index into CellCoverage.BarqDrivers and BulletDrivers, which
// tests and the dashboard read.

// Thresholds configures the under/over-served boundaries (spec.md §6:
// coverage.{BARQ,BULLET}.{min,max}DriversPerGrid).
type Thresholds struct {
	MinBarq, MaxBarq     int
	MinBullet, MaxBullet int
}

// DefaultThresholds matches spec.md §4.2.2's defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{MinBarq: 2, MaxBarq: 8, MinBullet: 1, MaxBullet: 5}
}

// Grid is the R x C coverage matrix. It is owned exclusively by the
// rebalancer: assign() never writes it, and readers outside the engine must
// read the Report from Analyze rather than the grid itself (spec.md §5).
type Grid struct {
	mu sync.Mutex

	rows, cols int
	bbox       geo.BoundingBox
	cells      [][]*Cell
}

// New creates a rows x cols grid over the given bounding box. Cells are
// allocated once and never replaced for the life of the grid.
func New(rows, cols int, bbox geo.BoundingBox) *Grid {
	if rows <= 0 || cols <= 0 {
		rows, cols = 10, 10
	}
	g := &Grid{rows: rows, cols: cols, bbox: bbox}
	g.cells = make([][]*Cell, rows)
	for r := 0; r < rows; r++ {
		g.cells[r] = make([]*Cell, cols)
		for c := 0; c < cols; c++ {
			g.cells[r][c] = &Cell{
				ID:     cellID(r, c),
				Row:    r,
				Col:    c,
				Center: bbox.CellCenter(r, c, rows, cols),
			}
		}
	}
	return g
}

func cellID(row, col int) string {
	return CellID(row, col)
}

// CellID computes a cell's ID from its row/col, independent of any Grid
// instance — callers that need to bucket points into cells before a Grid
// exists (e.g. the pending-order counter) can use this directly with
// geo.BoundingBox.CellOf.
func CellID(row, col int) string {
	const letters = "0123456789abcdefghijklmnopqrstuvwxyz"
	return string(letters[row%len(letters)]) + "-" + string(letters[col%len(letters)])
}

// Dimensions returns the grid's row/col counts.
func (g *Grid) Dimensions() (rows, cols int) {
	return g.rows, g.cols
}

// CellAt returns a copy of the cell at (row, col), or false if out of range.
func (g *Grid) CellAt(row, col int) (Cell, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return Cell{}, false
	}
	return *g.cells[row][col], true
}

// Cells returns a flattened copy of every cell, for reporting/dashboards.
func (g *Grid) Cells() []Cell {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Cell, 0, g.rows*g.cols)
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			out = append(out, *g.cells[r][c])
		}
	}
	return out
}

// SetDemand seeds or updates a cell's historical demand profile. This is how
// the external forecaster/statistics source feeds the grid; it does not
// count as a rebalance-cycle mutation.
func (g *Grid) SetDemand(row, col int, demand HistoricalDemand) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return
	}
	g.cells[row][col].HistoricalDemand = demand
}

// Rebuild clears every cell's driver list and pending-order count, then maps
// each driver in the snapshot onto its cell (spec.md §4.2.1). Off-grid
// locations are silently dropped. Must be called from inside the
// rebalancer's single-flight section — Grid itself only guards its own
// internal consistency, not cross-cycle ordering.
func (g *Grid) Rebuild(drivers []fleet.Driver, pendingOrdersByCell map[string]int, now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			g.cells[r][c].Drivers = g.cells[r][c].Drivers[:0]
			g.cells[r][c].PendingOrders = 0
		}
	}

	for _, d := range drivers {
		row, col, ok := g.bbox.CellOf(d.Location, g.rows, g.cols)
		if !ok {
			continue
		}
		cell := g.cells[row][col]
		cell.Drivers = append(cell.Drivers, d.ID)
	}

	for id, n := range pendingOrdersByCell {
		for r := 0; r < g.rows; r++ {
			for c := 0; c < g.cols; c++ {
				if g.cells[r][c].ID == id {
					g.cells[r][c].PendingOrders = n
				}
			}
		}
	}

	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			g.cells[r][c].LastUpdated = now
		}
	}
}
