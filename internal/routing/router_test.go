package routing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barqfleet/dispatch-core/internal/errs"
	"github.com/barqfleet/dispatch-core/internal/geo"
)

func TestHTTPRouter_Route_ParsesSuccessfulOSRMResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/route/v1/driving/")
		assert.Equal(t, "full", r.URL.Query().Get("overview"))
		assert.Equal(t, "true", r.URL.Query().Get("alternatives"))
		assert.Equal(t, "true", r.URL.Query().Get("steps"))
		assert.Equal(t, "polyline", r.URL.Query().Get("geometries"))

		json.NewEncoder(w).Encode(map[string]any{
			"code": "Ok",
			"routes": []map[string]any{
				{"distance": 10000.0, "duration": 1200.0, "geometry": "primary"},
				{"distance": 12000.0, "duration": 1500.0, "geometry": "alt"},
			},
		})
	}))
	defer srv.Close()

	router := NewHTTPRouter(srv.URL, 2*time.Second)
	stops := []geo.Point{{Lat: 24.70, Lng: 46.60}, {Lat: 24.80, Lng: 46.70}}

	resp, err := router.Route(context.Background(), stops)
	require.NoError(t, err)

	assert.Equal(t, 10.0, resp.DistanceKm)
	assert.Equal(t, 20.0, resp.DurationMin)
	assert.Equal(t, "primary", resp.Geometry)
	require.Len(t, resp.Alternatives, 1)
	assert.Equal(t, 12.0, resp.Alternatives[0].DistanceKm)
}

func TestHTTPRouter_Route_NonOkCodeIsBadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"code": "NoRoute", "routes": []any{}})
	}))
	defer srv.Close()

	router := NewHTTPRouter(srv.URL, 2*time.Second)
	_, err := router.Route(context.Background(), []geo.Point{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}})

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrRouterBadPayload)
}

func TestHTTPRouter_Route_NonTwoXXIsRouterFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	router := NewHTTPRouter(srv.URL, 2*time.Second)
	_, err := router.Route(context.Background(), []geo.Point{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}})

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrRouterFailure)
}

func TestHTTPRouter_Route_ContextDeadlineIsRouterTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		json.NewEncoder(w).Encode(map[string]any{"code": "Ok", "routes": []map[string]any{{"distance": 1, "duration": 1}}})
	}))
	defer srv.Close()

	router := NewHTTPRouter(srv.URL, 2*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	_, err := router.Route(ctx, []geo.Point{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrRouterTimeout)
}
