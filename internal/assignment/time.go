package assignment

import (
	"context"
	"time"

	"github.com/barqfleet/dispatch-core/internal/eta"
	"github.com/barqfleet/dispatch-core/internal/fleet"
	"github.com/barqfleet/dispatch-core/internal/geo"
)

// estimate is the time-estimation result for one candidate (spec.md
// §4.1.4): pickup and delivery ETAs plus, if the order carries a time
// window, its feasibility classification.
type estimate struct {
	PickupTime    time.Time
	DeliveryTime  time.Time
	Feasibility   string // "", onTime, tight, late
	UsedFallback  bool
}

// estimateTimes implements spec.md §4.1.4: pickupTime = now + travel(driver
// -> pickup); totalMinutes = travel(driver->pickup) + pickupService +
// travel(pickup->dropoff). Travel time is delegated to the ETA
// collaborator; on error or nil service, falls back to ceil(distanceKm*3)
// with a 5 minute pickup service.
func estimateTimes(ctx context.Context, svc eta.Service, c Candidate, order fleet.Order, now time.Time) estimate {
	toPickupMin, usedFallback1 := travelMinutes(ctx, svc, c.Driver.Location, order.Pickup, c.DistanceToPickup)

	pickupDropoffKm := geo.HaversineKm(order.Pickup, order.Dropoff)
	toDropoffMin, usedFallback2 := travelMinutes(ctx, svc, order.Pickup, order.Dropoff, pickupDropoffKm)

	pickupTime := now.Add(time.Duration(toPickupMin) * time.Minute)
	deliveryTime := pickupTime.Add(time.Duration(eta.PickupServiceMinutes+toDropoffMin) * time.Minute)

	result := estimate{
		PickupTime:   pickupTime,
		DeliveryTime: deliveryTime,
		UsedFallback: usedFallback1 || usedFallback2,
	}

	if order.TimeWindow != nil {
		totalMinutes := toPickupMin + eta.PickupServiceMinutes + toDropoffMin
		f := eta.CheckFeasibility(now, eta.TimeWindow{Earliest: order.TimeWindow.Earliest, Latest: order.TimeWindow.Latest}, totalMinutes-eta.PickupServiceMinutes, eta.PickupServiceMinutes)
		result.Feasibility = f.Status
	}

	return result
}

func travelMinutes(ctx context.Context, svc eta.Service, origin, destination geo.Point, distanceKm float64) (float64, bool) {
	if svc == nil {
		return eta.FallbackTravelMinutes(distanceKm), true
	}
	res, err := svc.CalculateETA(ctx, eta.TravelQuery{Origin: origin, Destination: destination, DistanceKm: distanceKm})
	if err != nil {
		return eta.FallbackTravelMinutes(distanceKm), true
	}
	return res.TotalMinutes, false
}
