package routing

import (
	"context"

	"github.com/barqfleet/dispatch-core/internal/errs"
	"github.com/barqfleet/dispatch-core/internal/geo"
)

const (
	fallbackDistanceKm  = 5
	fallbackDurationMin = 30

	metricEfficiency     = 0.85
	metricServiceQuality = 0.9
)

// Enhancer implements enhance(route, restrictedAreas) -> EnhancedRoute
// (spec.md §4.3), fronting Router with an LRU cache.
type Enhancer struct {
	router Router
	cache  *routeCache
}

// NewEnhancer builds an Enhancer. cacheSize <= 0 uses the package default.
func NewEnhancer(router Router, cacheSize int) (*Enhancer, error) {
	cache, err := newRouteCache(cacheSize)
	if err != nil {
		return nil, err
	}
	return &Enhancer{router: router, cache: cache}, nil
}

// Enhance runs the full spec.md §4.3 pipeline. It never returns an error for
// router failures — those are folded into the fallback fields on the
// result — but does return errs.ErrInvalidGeometry if a restricted area
// polygon is degenerate (fewer than 3 vertices), since that is a caller
// configuration bug, not a runtime router failure.
func (e *Enhancer) Enhance(ctx context.Context, route Route, restrictedAreas []RestrictedArea) (EnhancedRoute, error) {
	for _, area := range restrictedAreas {
		if len(area.Polygon) > 0 && len(area.Polygon) < 3 {
			return EnhancedRoute{}, errs.ErrInvalidGeometry
		}
	}

	raw := extractStops(route.Stops)
	serviceable, excluded := filterRestricted(raw, restrictedAreas)

	if len(serviceable) < minServiceableStops {
		return EnhancedRoute{
			ServiceableStops:   serviceable,
			ExcludedStops:      excluded,
			FullyUnserviceable: true,
		}, nil
	}

	duplicateWarning := hasNearDuplicateWaypoints(serviceable)

	if cached, ok := e.cache.get(serviceable); ok {
		return e.assemble(cached, serviceable, excluded, duplicateWarning, route, true), nil
	}

	resp, err := e.router.Route(ctx, serviceable)
	if err != nil {
		return EnhancedRoute{
			ServiceableStops:         serviceable,
			ExcludedStops:            excluded,
			DuplicateWaypointWarning: duplicateWarning,
			DistanceKm:               fallbackDistanceKm,
			DurationMin:              fallbackDurationMin,
			OSRMError:                err.Error(),
		}, nil
	}

	e.cache.put(serviceable, resp)
	return e.assemble(resp, serviceable, excluded, duplicateWarning, route, false), nil
}

// assemble builds the success-path EnhancedRoute, attaching the derived
// metrics from spec.md §4.3 step 5.
func (e *Enhancer) assemble(resp RouterResponse, serviceable []geo.Point, excluded []ExcludedStop, duplicateWarning bool, route Route, fromCache bool) EnhancedRoute {
	utilization := 0.0
	if route.Capacity > 0 {
		utilization = float64(route.Load) / float64(route.Capacity)
		if utilization > 1 {
			utilization = 1
		}
	}

	stopDensity := 0.0
	if resp.DistanceKm > 0 {
		stopDensity = float64(len(serviceable)) / resp.DistanceKm
	}

	return EnhancedRoute{
		DistanceKm:               resp.DistanceKm,
		DurationMin:              resp.DurationMin,
		Geometry:                 resp.Geometry,
		Alternatives:             resp.Alternatives,
		ServiceableStops:         serviceable,
		ExcludedStops:            excluded,
		DuplicateWaypointWarning: duplicateWarning,
		FromCache:                fromCache,
		Metrics: Metrics{
			Efficiency:     metricEfficiency,
			Utilization:    utilization,
			ServiceQuality: metricServiceQuality,
			StopDensity:    stopDensity,
		},
	}
}
