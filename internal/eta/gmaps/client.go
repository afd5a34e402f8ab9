// Package gmaps adapts the Google Maps Distance Matrix API to the eta.Service
// collaborator boundary, in the teacher's pkg/gmaps client style.
package gmaps

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"googlemaps.github.io/maps"

	"github.com/barqfleet/dispatch-core/internal/errs"
	"github.com/barqfleet/dispatch-core/internal/eta"
)

// maxOriginsPerRequest is the Distance Matrix API's per-request origin cap.
const maxOriginsPerRequest = 25

// Client implements eta.Service against the Google Maps Distance Matrix API.
type Client struct {
	maps *maps.Client
}

// NewClient builds a Client from an API key.
func NewClient(apiKey string) (*Client, error) {
	c, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create google maps client: %w", err)
	}
	return &Client{maps: c}, nil
}

// CalculateETA implements eta.Service with a single-leg Distance Matrix
// call between q.Origin and q.Destination (spec.md §4.1.4's "delegate
// travel time to the ETA collaborator" path). assignment.travelMinutes
// falls back to the fixed-rate estimate on any error this returns.
func (c *Client) CalculateETA(ctx context.Context, q eta.TravelQuery) (eta.TravelResult, error) {
	origin := Location{Lat: q.Origin.Lat, Lng: q.Origin.Lng}
	destination := Location{Lat: q.Destination.Lat, Lng: q.Destination.Lng}

	legs, err := c.batchLegs(ctx, []Location{origin}, destination)
	if err != nil {
		return eta.TravelResult{}, fmt.Errorf("gmaps distance matrix: %w: %w", errs.ErrETAUnavailable, err)
	}
	if len(legs) == 0 {
		return eta.TravelResult{}, fmt.Errorf("gmaps distance matrix returned no route: %w", errs.ErrETAUnavailable)
	}

	return eta.TravelResult{TotalMinutes: legs[0].DurationMinutes}, nil
}

// CheckTimeWindowFeasibility implements eta.Service by delegating to the
// package-level fixed-rate classifier once travel time is known.
func (c *Client) CheckTimeWindowFeasibility(ctx context.Context, now time.Time, window eta.TimeWindow, travelMinutes float64) (eta.Feasibility, error) {
	return eta.CheckFeasibility(now, window, travelMinutes, eta.PickupServiceMinutes), nil
}

// Location is a lat/lng pair in the form the Distance Matrix API expects.
type Location struct {
	Lat float64
	Lng float64
}

func (l Location) String() string {
	return fmt.Sprintf("%f,%f", l.Lat, l.Lng)
}

// LegResult is one origin's travel estimate to the shared destination.
type LegResult struct {
	Origin          Location
	DistanceKm      float64
	DurationMinutes float64
}

// BatchETA resolves travel time from many origins to one destination,
// batching into groups of 25 and fanning the groups out concurrently
// (spec.md §6's "parallel driver distance queries", adapted from the
// teacher's CalculateMultipleDistances).
func (c *Client) BatchETA(ctx context.Context, origins []Location, destination Location) ([]LegResult, error) {
	if len(origins) == 0 {
		return nil, nil
	}

	var batches [][]Location
	for i := 0; i < len(origins); i += maxOriginsPerRequest {
		end := i + maxOriginsPerRequest
		if end > len(origins) {
			end = len(origins)
		}
		batches = append(batches, origins[i:end])
	}

	g, gctx := errgroup.WithContext(ctx)
	resultsPerBatch := make([][]LegResult, len(batches))

	for i, batch := range batches {
		i, batch := i, batch
		g.Go(func() error {
			res, err := c.batchLegs(gctx, batch, destination)
			if err != nil {
				return err
			}
			resultsPerBatch[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch eta query: %w: %w", errs.ErrETAUnavailable, err)
	}

	out := make([]LegResult, 0, len(origins))
	for _, batch := range resultsPerBatch {
		out = append(out, batch...)
	}
	return out, nil
}

func (c *Client) batchLegs(ctx context.Context, origins []Location, destination Location) ([]LegResult, error) {
	originStrings := make([]string, len(origins))
	for i, o := range origins {
		originStrings[i] = o.String()
	}

	req := &maps.DistanceMatrixRequest{
		Origins:      originStrings,
		Destinations: []string{destination.String()},
		Mode:         maps.TravelModeDriving,
		Units:        maps.UnitsMetric,
	}

	resp, err := c.maps.DistanceMatrix(ctx, req)
	if err != nil {
		return nil, err
	}

	out := make([]LegResult, 0, len(origins))
	for i, row := range resp.Rows {
		if len(row.Elements) == 0 {
			continue
		}
		el := row.Elements[0]
		if el.Status != "OK" {
			continue
		}
		out = append(out, LegResult{
			Origin:          origins[i],
			DistanceKm:      float64(el.Distance.Meters) / 1000.0,
			DurationMinutes: el.Duration.Minutes(),
		})
	}
	return out, nil
}
