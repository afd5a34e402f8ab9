package assignment

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/barqfleet/dispatch-core/internal/fleet"
)

// RecentEntry is one bookkeeping record of an order assigned to a driver
// (spec.md §4.1.5).
type RecentEntry struct {
	OrderID     uuid.UUID
	ServiceType fleet.ServiceType
	At          time.Time
}

// RecentAssignments tracks, per driver, the orders assigned to them in the
// last hour. Scoring and its tie-breaks do not read it; For is its only
// reader.
type RecentAssignments struct {
	mu      sync.Mutex
	entries map[uuid.UUID][]RecentEntry
}

// NewRecentAssignments builds an empty bookkeeping store.
func NewRecentAssignments() *RecentAssignments {
	return &RecentAssignments{entries: make(map[uuid.UUID][]RecentEntry)}
}

// Record appends an entry for driverID and prunes entries older than one
// hour, for this driver, in the same pass (spec.md §4.1.5: "pruned to the
// last hour on every write").
func (r *RecentAssignments) Record(driverID uuid.UUID, orderID uuid.UUID, tier fleet.ServiceType, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := now.Add(-time.Hour)
	pruned := make([]RecentEntry, 0, len(r.entries[driverID])+1)
	for _, e := range r.entries[driverID] {
		if e.At.After(cutoff) {
			pruned = append(pruned, e)
		}
	}
	pruned = append(pruned, RecentEntry{OrderID: orderID, ServiceType: tier, At: now})
	r.entries[driverID] = pruned
}

// For returns a copy of a driver's recent entries.
func (r *RecentAssignments) For(driverID uuid.UUID) []RecentEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	src := r.entries[driverID]
	out := make([]RecentEntry, len(src))
	copy(out, src)
	return out
}
