package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/barqfleet/dispatch-core/internal/errs"
	"github.com/barqfleet/dispatch-core/internal/geo"
)

// Router is the external routing collaborator (spec.md §6): an OSRM-shaped
// HTTP service. Implementations must treat any non-2xx response or a body
// whose code is not "Ok" as a failure.
type Router interface {
	Route(ctx context.Context, stops []geo.Point) (RouterResponse, error)
}

// RouterResponse is the router's successful reply, reduced to what Route
// Enhancement needs.
type RouterResponse struct {
	DistanceKm   float64
	DurationMin  float64
	Geometry     string
	Alternatives []Alternative
}

// HTTPRouter calls an OSRM-compatible routing service.
type HTTPRouter struct {
	BaseURL string
	HTTP    *http.Client
}

// NewHTTPRouter builds an HTTPRouter with a bounded-timeout client, per
// spec.md §5's "every external I/O call carries a deadline".
func NewHTTPRouter(baseURL string, timeout time.Duration) *HTTPRouter {
	return &HTTPRouter{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type osrmRoute struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
	Geometry string  `json:"geometry"`
}

type osrmResponse struct {
	Code   string      `json:"code"`
	Routes []osrmRoute `json:"routes"`
}

// Route implements Router against spec.md §6's contract:
// GET /{base}/route/v1/driving/{lng,lat;...}?overview=full&alternatives=true&steps=true&geometries=polyline
func (r *HTTPRouter) Route(ctx context.Context, stops []geo.Point) (RouterResponse, error) {
	coords := make([]string, len(stops))
	for i, s := range stops {
		coords[i] = strconv.FormatFloat(s.Lng, 'f', -1, 64) + "," + strconv.FormatFloat(s.Lat, 'f', -1, 64)
	}

	u := fmt.Sprintf("%s/route/v1/driving/%s", r.BaseURL, strings.Join(coords, ";"))
	q := url.Values{
		"overview":     {"full"},
		"alternatives": {"true"},
		"steps":        {"true"},
		"geometries":   {"polyline"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u+"?"+q.Encode(), nil)
	if err != nil {
		return RouterResponse{}, fmt.Errorf("build router request: %w: %w", errs.ErrRouterFailure, err)
	}

	resp, err := r.HTTP.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return RouterResponse{}, fmt.Errorf("router call timed out: %w", errs.ErrRouterTimeout)
		}
		return RouterResponse{}, fmt.Errorf("router call failed: %w: %w", errs.ErrRouterFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return RouterResponse{}, fmt.Errorf("router returned status %d: %w", resp.StatusCode, errs.ErrRouterFailure)
	}

	var body osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return RouterResponse{}, fmt.Errorf("decode router response: %w: %w", errs.ErrRouterBadPayload, err)
	}
	if body.Code != "Ok" || len(body.Routes) == 0 {
		return RouterResponse{}, fmt.Errorf("router returned code %q: %w", body.Code, errs.ErrRouterBadPayload)
	}

	primary := body.Routes[0]
	alts := make([]Alternative, 0, len(body.Routes)-1)
	for _, rt := range body.Routes[1:] {
		alts = append(alts, Alternative{
			DistanceKm:  rt.Distance / 1000,
			DurationMin: rt.Duration / 60,
			Geometry:    rt.Geometry,
		})
	}

	return RouterResponse{
		DistanceKm:   primary.Distance / 1000,
		DurationMin:  primary.Duration / 60,
		Geometry:     primary.Geometry,
		Alternatives: alts,
	}, nil
}
