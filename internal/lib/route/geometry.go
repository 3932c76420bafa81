// Package route models a planned path as an immutable polyline with
// per-point cumulative distances and an ordered maneuver list. All
// downstream guidance decisions reduce to positions on the 1-D
// cumulative-distance line, which collapses noisy 2-D GPS into a monotone
// scalar suitable for simple threshold comparisons.
package route

import (
	"fmt"
	"math"

	"github.com/haulnav/guidance/internal/lib/geo"
)

// Geometry is the immutable representation of a planned route. It is built
// once per route and replaced wholesale on reroute, never mutated, so it
// can be shared by reference with concurrent readers.
type Geometry struct {
	points     []geo.Point
	cumulative []float64 // meters from path start to each point
	maneuvers  []Maneuver
	total      float64
}

// NewGeometry builds a Geometry from an ordered point sequence and maneuver
// list supplied by an external routing provider. Malformed input (invalid
// coordinates, out-of-range or non-increasing maneuver indices) is rejected
// here so that every downstream distance computation can assume the
// invariants. Zero- and one-point routes are accepted as degenerate routes;
// the guidance engine treats them as "no guidance available".
func NewGeometry(points []geo.Point, maneuvers []Maneuver) (*Geometry, error) {
	for i, p := range points {
		if !p.Valid() {
			return nil, fmt.Errorf("route point %d has invalid coordinates (%f, %f)", i, p.Latitude, p.Longitude)
		}
	}

	cumulative := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		cumulative[i] = cumulative[i-1] + geo.Distance(points[i-1], points[i])
	}

	lastIndex := -1
	for i, m := range maneuvers {
		if m.PointIndex < 0 || m.PointIndex >= len(points) {
			return nil, fmt.Errorf("maneuver %d references point index %d, route has %d points", i, m.PointIndex, len(points))
		}
		if m.PointIndex <= lastIndex {
			return nil, fmt.Errorf("maneuver %d point index %d is not strictly increasing (previous %d)", i, m.PointIndex, lastIndex)
		}
		lastIndex = m.PointIndex
	}

	g := &Geometry{
		points:     points,
		cumulative: cumulative,
		maneuvers:  maneuvers,
	}
	if len(cumulative) > 0 {
		g.total = cumulative[len(cumulative)-1]
	}
	return g, nil
}

// Len returns the number of points on the route.
func (g *Geometry) Len() int {
	return len(g.points)
}

// TotalDistance returns the total path length in meters.
func (g *Geometry) TotalDistance() float64 {
	return g.total
}

// Point returns the route point at the given index, clamped to the route
// bounds. Transient off-by-one conditions at route boundaries must not
// crash live navigation.
func (g *Geometry) Point(index int) geo.Point {
	if len(g.points) == 0 {
		return geo.Point{}
	}
	if index < 0 {
		index = 0
	}
	if index >= len(g.points) {
		index = len(g.points) - 1
	}
	return g.points[index]
}

// Points returns the route's point sequence. The returned slice is shared;
// callers must treat it as read-only.
func (g *Geometry) Points() []geo.Point {
	return g.points
}

// Maneuvers returns the route's maneuver list, ordered by point index. The
// returned slice is shared; callers must treat it as read-only.
func (g *Geometry) Maneuvers() []Maneuver {
	return g.maneuvers
}

// NearestPointIndex scans all route points and returns the index of the one
// closest to the given location, along with its distance in meters. Ties
// resolve to the lowest index. An empty route returns index 0 defensively
// with an infinite distance.
func (g *Geometry) NearestPointIndex(location geo.Point) (int, float64) {
	return g.NearestPointIndexInRange(location, 0, len(g.points)-1)
}

// NearestPointIndexInRange restricts the nearest-point scan to indices in
// [lo, hi] (clamped to the route bounds). The guidance engine uses this to
// bias matching forward of the last matched index.
func (g *Geometry) NearestPointIndexInRange(location geo.Point, lo, hi int) (int, float64) {
	if len(g.points) == 0 {
		return 0, math.Inf(1)
	}
	if lo < 0 {
		lo = 0
	}
	if hi >= len(g.points) {
		hi = len(g.points) - 1
	}
	if lo > hi {
		lo = hi
	}

	bestIndex := lo
	bestDistance := math.Inf(1)
	for i := lo; i <= hi; i++ {
		d := geo.Distance(location, g.points[i])
		if d < bestDistance {
			bestDistance = d
			bestIndex = i
		}
	}
	return bestIndex, bestDistance
}

// DistanceAtIndex returns the cumulative distance in meters from the route
// start to the point at the given index. Out-of-range indices clamp to a
// finite safe value rather than faulting.
func (g *Geometry) DistanceAtIndex(index int) float64 {
	if index < 0 || len(g.cumulative) == 0 {
		return 0
	}
	if index >= len(g.cumulative) {
		return g.total
	}
	return g.cumulative[index]
}

// RemainingDistance returns the meters left to the route end from the point
// at the given index.
func (g *Geometry) RemainingDistance(fromIndex int) float64 {
	return math.Max(0, g.total-g.DistanceAtIndex(fromIndex))
}

// NextManeuver returns the first maneuver anchored strictly after the given
// point index, or false when the vehicle is past the last maneuver.
func (g *Geometry) NextManeuver(fromIndex int) (Maneuver, bool) {
	for _, m := range g.maneuvers {
		if m.PointIndex > fromIndex {
			return m, true
		}
	}
	return Maneuver{}, false
}

// DistanceToNextManeuver returns the along-route meters from the point at
// the given index to the next maneuver, or 0 when there is none.
func (g *Geometry) DistanceToNextManeuver(fromIndex int) float64 {
	m, ok := g.NextManeuver(fromIndex)
	if !ok {
		return 0
	}
	return math.Max(0, g.DistanceAtIndex(m.PointIndex)-g.DistanceAtIndex(fromIndex))
}
