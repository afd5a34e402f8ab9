// Package geo holds the coordinate primitives shared by every component:
// the single Point type, Haversine distance, bounding-box grid mapping, and
// ray-casting point-in-polygon. Nothing upstream of this package should
// define its own lat/lng pair.
package geo

import "math"

const earthRadiusKm = 6371.0088

// Point is a WGS84 coordinate in degrees.
type Point struct {
	Lat float64
	Lng float64
}

// HaversineKm returns the great-circle distance between two points in
// kilometres.
func HaversineKm(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// BoundingBox is the city's served area, used to linearly map points onto a
// Grid's (rows, cols). A toy modulo mapping (floor(lat*10) mod R) existed in
// the source this spec was distilled from; we use a linear bounding-box
// mapping instead, since no legacy cell-ID compatibility constraint applies
// here.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// CellOf maps a point onto a (row, col) pair for a rows x cols grid laid out
// across the bounding box. Returns ok=false when the point lies outside the
// box — off-grid drivers are irrelevant to coverage and are silently
// dropped by callers.
func (b BoundingBox) CellOf(p Point, rows, cols int) (row, col int, ok bool) {
	if p.Lat < b.MinLat || p.Lat > b.MaxLat || p.Lng < b.MinLng || p.Lng > b.MaxLng {
		return 0, 0, false
	}
	latSpan := b.MaxLat - b.MinLat
	lngSpan := b.MaxLng - b.MinLng
	if latSpan <= 0 || lngSpan <= 0 {
		return 0, 0, false
	}

	row = int((p.Lat - b.MinLat) / latSpan * float64(rows))
	col = int((p.Lng - b.MinLng) / lngSpan * float64(cols))
	if row >= rows {
		row = rows - 1
	}
	if col >= cols {
		col = cols - 1
	}
	if row < 0 || col < 0 {
		return 0, 0, false
	}
	return row, col, true
}

// CellCenter returns the geographic center of cell (row, col).
func (b BoundingBox) CellCenter(row, col, rows, cols int) Point {
	latSpan := b.MaxLat - b.MinLat
	lngSpan := b.MaxLng - b.MinLng
	return Point{
		Lat: b.MinLat + latSpan*(float64(row)+0.5)/float64(rows),
		Lng: b.MinLng + lngSpan*(float64(col)+0.5)/float64(cols),
	}
}

// Polygon is a closed ring of vertices; the last vertex implicitly connects
// back to the first.
type Polygon []Point

// Contains reports whether p lies inside the polygon using the ray-casting
// algorithm with the "yi > y != yj > y" edge rule from the spec. A point
// exactly on an edge is not guaranteed either way, consistent with standard
// ray-casting semantics.
func (poly Polygon) Contains(p Point) bool {
	inside := false
	n := len(poly)
	if n < 3 {
		return false
	}

	j := n - 1
	for i := 0; i < n; i++ {
		yi, xi := poly[i].Lat, poly[i].Lng
		yj, xj := poly[j].Lat, poly[j].Lng

		if (yi > p.Lat) != (yj > p.Lat) {
			xIntersect := (xj-xi)*(p.Lat-yi)/(yj-yi) + xi
			if p.Lng < xIntersect {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}
