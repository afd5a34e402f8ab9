// Package postgres adapts a PostgreSQL schema to the fleet.StatusProvider
// and engine.PendingOrderCounter collaborator boundaries, in the teacher's
// database/sql + lib/pq repository style (raw SQL, explicit Scan, wrapped
// errors) rather than an ORM.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/barqfleet/dispatch-core/internal/fleet"
	"github.com/barqfleet/dispatch-core/internal/geo"
)

// Open establishes a connection pool, in the teacher's database.Connect
// style, using the caller's dsn as-is (this function does not read
// DATABASE_URL itself). The pool sizing mirrors the teacher's database/db.go.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return db, nil
}

// CellLocator maps a geographic point to its grid cell ID, so the store can
// bucket pending-order counts without importing the grid package's layout
// decisions. cmd/barqctl's cellLocator helper supplies this callback.
type CellLocator func(geo.Point) (string, bool)

// Store is a read-only fleet.StatusProvider + PendingOrderCounter backed by
// Postgres. It never writes — order and driver lifecycle mutations belong
// to the external collaborators spec.md §6 describes, not to this module.
type Store struct {
	db     *sql.DB
	cellOf CellLocator
}

// NewStore wires a Store. cellOf may be nil; PendingOrdersByCell then
// returns an empty map instead of erroring, matching engine.PendingOrderCounter's
// optional-collaborator contract.
func NewStore(db *sql.DB, cellOf CellLocator) *Store {
	return &Store{db: db, cellOf: cellOf}
}

// GetFleetStatus implements fleet.StatusProvider.
func (s *Store) GetFleetStatus() (fleet.Snapshot, error) {
	drivers, err := s.loadDrivers()
	if err != nil {
		return fleet.Snapshot{}, err
	}

	orders, err := s.loadCurrentOrders()
	if err != nil {
		return fleet.Snapshot{}, err
	}
	for i := range drivers {
		drivers[i].CurrentOrders = orders[drivers[i].ID]
	}

	snap := fleet.Snapshot{TakenAt: time.Now()}
	for _, d := range drivers {
		switch d.Status {
		case fleet.DriverStatusOffline:
			snap.Offline = append(snap.Offline, d)
		case fleet.DriverStatusBusy:
			snap.Busy = append(snap.Busy, d)
		default:
			snap.Available = append(snap.Available, d)
		}
	}
	return snap, nil
}

func (s *Store) loadDrivers() ([]fleet.Driver, error) {
	query := `
		SELECT
			id, latitude, longitude, status, available,
			capacity_barq, capacity_bullet, idle_time_seconds, rating,
			fatigue_level, performance_rating,
			availability_immediate, availability_at,
			capability_barq, capability_bullet
		FROM drivers
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("postgres: load drivers: %w", err)
	}
	defer rows.Close()

	var drivers []fleet.Driver
	for rows.Next() {
		var d fleet.Driver
		var status string
		var fatigueLevel string
		var availabilityAt sql.NullTime
		var barqCapable, bulletCapable bool

		err := rows.Scan(
			&d.ID, &d.Location.Lat, &d.Location.Lng, &status, &d.Available,
			&d.Capacity.Barq, &d.Capacity.Bullet, &d.IdleTimeSeconds, &d.Rating,
			&fatigueLevel, &d.Performance.Rating,
			&d.EstimatedAvailability.Immediate, &availabilityAt,
			&barqCapable, &bulletCapable,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan driver: %w", err)
		}

		d.Status = fleet.DriverStatus(status)
		d.Fatigue = fleet.Fatigue{Level: fleet.FatigueLevel(fatigueLevel)}
		if availabilityAt.Valid {
			d.EstimatedAvailability.At = availabilityAt.Time
		}
		d.ServiceCapability = map[fleet.ServiceType]bool{
			fleet.BARQ:   barqCapable,
			fleet.BULLET: bulletCapable,
		}
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate drivers: %w", err)
	}
	return drivers, nil
}

func (s *Store) loadCurrentOrders() (map[uuid.UUID][]fleet.AssignedOrder, error) {
	query := `
		SELECT driver_id, order_id, service_type,
			pickup_latitude, pickup_longitude, dropoff_latitude, dropoff_longitude
		FROM driver_current_orders
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("postgres: load current orders: %w", err)
	}
	defer rows.Close()

	out := map[uuid.UUID][]fleet.AssignedOrder{}
	for rows.Next() {
		var driverID uuid.UUID
		var o fleet.AssignedOrder
		var serviceType string

		err := rows.Scan(
			&driverID, &o.OrderID, &serviceType,
			&o.Pickup.Lat, &o.Pickup.Lng, &o.Dropoff.Lat, &o.Dropoff.Lng,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan current order: %w", err)
		}
		o.ServiceType = fleet.ServiceType(serviceType)
		out[driverID] = append(out[driverID], o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate current orders: %w", err)
	}
	return out, nil
}

// PendingOrdersByCell implements engine.PendingOrderCounter: it reads the
// pickup coordinate of every pending order and buckets it with cellOf,
// matching spec.md §4.2.3's pendingOrders term.
func (s *Store) PendingOrdersByCell(ctx context.Context) (map[string]int, error) {
	counts := map[string]int{}
	if s.cellOf == nil {
		return counts, nil
	}

	rows, err := s.db.QueryContext(ctx, `SELECT pickup_latitude, pickup_longitude FROM orders WHERE status = 'PENDING'`)
	if err != nil {
		return nil, fmt.Errorf("postgres: load pending orders: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p geo.Point
		if err := rows.Scan(&p.Lat, &p.Lng); err != nil {
			return nil, fmt.Errorf("postgres: scan pending order: %w", err)
		}
		if cell, ok := s.cellOf(p); ok {
			counts[cell]++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate pending orders: %w", err)
	}
	return counts, nil
}
