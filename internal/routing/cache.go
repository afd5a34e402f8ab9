package routing

import (
	"fmt"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/barqfleet/dispatch-core/internal/geo"
)

// defaultCacheSize bounds the route-result cache (SPEC_FULL.md's §4.3
// supplement), used when NewEnhancer's cacheSize argument is not positive.
const defaultCacheSize = 256

// routeKey rounds stops to ~11m precision (4 decimal places) and joins them
// in order, so routes that differ only by sub-cell GPS noise still hit the
// cache.
func routeKey(stops []geo.Point) string {
	parts := make([]string, len(stops))
	for i, s := range stops {
		parts[i] = strconv.FormatFloat(s.Lat, 'f', 4, 64) + "," + strconv.FormatFloat(s.Lng, 'f', 4, 64)
	}
	return strings.Join(parts, ";")
}

// routeCache fronts the external router call with an LRU keyed on the
// ordered, rounded stop sequence.
type routeCache struct {
	cache *lru.Cache[string, RouterResponse]
}

func newRouteCache(size int) (*routeCache, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	c, err := lru.New[string, RouterResponse](size)
	if err != nil {
		return nil, fmt.Errorf("create route cache: %w", err)
	}
	return &routeCache{cache: c}, nil
}

func (c *routeCache) get(stops []geo.Point) (RouterResponse, bool) {
	return c.cache.Get(routeKey(stops))
}

func (c *routeCache) put(stops []geo.Point, resp RouterResponse) {
	c.cache.Add(routeKey(stops), resp)
}
