package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	// Angels Camp to Murphys along Highway 4 (real coordinates)
	angelsCamp := Point{Latitude: 38.0675, Longitude: -120.5436}
	murphys := Point{Latitude: 38.1391, Longitude: -120.4561}

	distance := Distance(angelsCamp, murphys)

	// Great-circle distance is approximately 11.0 km
	assert.InDelta(t, 11046, distance, 100, "Distance should be approximately 11.0km")

	// Same point is zero
	assert.Zero(t, Distance(angelsCamp, angelsCamp))

	// Symmetric
	assert.InDelta(t, distance, Distance(murphys, angelsCamp), 0.001)
}

func TestDistance_ShortRange(t *testing.T) {
	// One degree of latitude is ~111.2 km on the 6371 km sphere
	p1 := Point{Latitude: 38.0, Longitude: -120.0}
	p2 := Point{Latitude: 38.001, Longitude: -120.0}

	assert.InDelta(t, 111.2, Distance(p1, p2), 0.5)
}

func TestNewPoint(t *testing.T) {
	p, err := NewPoint(38.0675, -120.5436)
	require.NoError(t, err)
	assert.Equal(t, 38.0675, p.Latitude)

	_, err = NewPoint(200, -300)
	assert.Error(t, err, "Should return error for invalid coordinates")
}

func TestBearing(t *testing.T) {
	origin := Point{Latitude: 38.0, Longitude: -120.0}

	north := Point{Latitude: 38.01, Longitude: -120.0}
	assert.InDelta(t, 0, Bearing(origin, north), 0.1)

	east := Point{Latitude: 38.0, Longitude: -119.99}
	assert.InDelta(t, 90, Bearing(origin, east), 0.5)

	south := Point{Latitude: 37.99, Longitude: -120.0}
	assert.InDelta(t, 180, Bearing(origin, south), 0.1)

	west := Point{Latitude: 38.0, Longitude: -120.01}
	assert.InDelta(t, 270, Bearing(origin, west), 0.5)
}

func TestInterpolate(t *testing.T) {
	start := Point{Latitude: 38.0, Longitude: -120.0}
	end := Point{Latitude: 38.1, Longitude: -120.2}

	assert.Equal(t, start, Interpolate(start, end, 0))
	assert.Equal(t, end, Interpolate(start, end, 1))

	mid := Interpolate(start, end, 0.5)
	assert.InDelta(t, 38.05, mid.Latitude, 1e-9)
	assert.InDelta(t, -120.1, mid.Longitude, 1e-9)
}

func TestDistanceToSegment(t *testing.T) {
	// North-south segment ~1112m long
	a := Point{Latitude: 38.0, Longitude: -120.0}
	b := Point{Latitude: 38.01, Longitude: -120.0}
	mid := Interpolate(a, b, 0.5)

	// 50m east of the midpoint: perpendicular distance ~50m, while the
	// nearest endpoint is ~558m away
	off := Offset(mid, 50, 90)
	assert.InDelta(t, 50, DistanceToSegment(off, a, b), 1)

	// On the segment
	assert.InDelta(t, 0, DistanceToSegment(mid, a, b), 0.5)

	// Projection before the start clamps to a
	before := Offset(a, 100, 180)
	assert.InDelta(t, 100, DistanceToSegment(before, a, b), 1)

	// Projection past the end clamps to b
	past := Offset(b, 100, 0)
	assert.InDelta(t, 100, DistanceToSegment(past, a, b), 1)

	// Degenerate zero-length segment
	assert.InDelta(t, 100, DistanceToSegment(before, a, a), 1)
}

func TestOffset(t *testing.T) {
	origin := Point{Latitude: 38.0675, Longitude: -120.5436}

	// 200m due east should land 200m away on a ~90 degree bearing
	moved := Offset(origin, 200, 90)
	assert.InDelta(t, 200, Distance(origin, moved), 1)
	assert.InDelta(t, 90, Bearing(origin, moved), 1)

	// 1km due north
	moved = Offset(origin, 1000, 0)
	assert.InDelta(t, 1000, Distance(origin, moved), 1)
}
