package grid

// PriorityBucket buckets a cell's repositioning priority score (spec.md
// §4.2.3).
type PriorityBucket string

const (
	Critical PriorityBucket = "critical"
	High     PriorityBucket = "high"
	Medium   PriorityBucket = "medium"
	Low      PriorityBucket = "low"
)

// Need is an underserved cell awaiting repositioning, with its computed
// priority and the BARQ/BULLET driver shortfall.
type Need struct {
	Cell           CellCoverage
	Priority       float64
	Bucket         PriorityBucket
	RequiredBarq   int
	RequiredBullet int
}

// Strategy is the cycle-wide repositioning posture (spec.md §4.2.3).
type Strategy string

const (
	Emergency  Strategy = "EMERGENCY"
	Predictive Strategy = "PREDICTIVE"
	Proactive  Strategy = "PROACTIVE"
	Reactive   Strategy = "REACTIVE"
)

// ComputeNeeds scores every underserved cell and returns the needs sorted
// critical-first, matching spec.md §4.2.3's scoring formula exactly:
//
//	+0.4 if barq == 0 && demand.barq > 0.3
//	+0.3 if bullet == 0 && demand.bullet > 0.2
//	+ min(0.3, 0.1*pendingOrders)
//	+0.2 if the cell contains a forecast hotspot
func ComputeNeeds(report Report, th Thresholds, hotspotCells map[string]bool) []Need {
	needs := make([]Need, 0)

	for _, cc := range report.Cells {
		if cc.Classification != Underserved {
			continue
		}

		p := 0.0
		if cc.BarqDrivers == 0 && cc.Cell.HistoricalDemand.Barq > 0.3 {
			p += 0.4
		}
		if cc.BulletDrivers == 0 && cc.Cell.HistoricalDemand.Bullet > 0.2 {
			p += 0.3
		}
		pendingBoost := 0.1 * float64(cc.Cell.PendingOrders)
		if pendingBoost > 0.3 {
			pendingBoost = 0.3
		}
		p += pendingBoost
		if hotspotCells[cc.Cell.ID] {
			p += 0.2
		}
		if p > 1 {
			p = 1
		}

		requiredBarq := 0
		if cc.BarqDrivers < th.MinBarq && cc.Cell.HistoricalDemand.Barq > 0.1 {
			requiredBarq = th.MinBarq - cc.BarqDrivers
		}
		requiredBullet := 0
		if cc.BulletDrivers < th.MinBullet && cc.Cell.HistoricalDemand.Bullet > 0.1 {
			requiredBullet = th.MinBullet - cc.BulletDrivers
		}

		needs = append(needs, Need{
			Cell:           cc,
			Priority:       p,
			Bucket:         bucketOf(p),
			RequiredBarq:   requiredBarq,
			RequiredBullet: requiredBullet,
		})
	}

	sortNeedsDescending(needs)
	return needs
}

func bucketOf(p float64) PriorityBucket {
	switch {
	case p > 0.8:
		return Critical
	case p > 0.6:
		return High
	case p > 0.4:
		return Medium
	default:
		return Low
	}
}

func sortNeedsDescending(needs []Need) {
	for i := 1; i < len(needs); i++ {
		j := i
		for j > 0 && needs[j-1].Priority < needs[j].Priority {
			needs[j-1], needs[j] = needs[j], needs[j-1]
			j--
		}
	}
}

// SelectStrategy picks the cycle-wide strategy (spec.md §4.2.3):
// EMERGENCY if any need is critical, else PREDICTIVE if the forecaster
// reports an expected spike, else PROACTIVE if more than 3 needs are high,
// else REACTIVE.
func SelectStrategy(needs []Need, expectedSpike bool) Strategy {
	var highCount int
	for _, n := range needs {
		if n.Bucket == Critical {
			return Emergency
		}
		if n.Bucket == High {
			highCount++
		}
	}
	if expectedSpike {
		return Predictive
	}
	if highCount > 3 {
		return Proactive
	}
	return Reactive
}
