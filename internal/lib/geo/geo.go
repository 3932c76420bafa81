package geo

import (
	"errors"
	"math"
)

// EarthRadiusMeters is the spherical-approximation radius used by all
// surface distance math. Adequate for in-vehicle distances (<1000 km).
const EarthRadiusMeters = 6371000

// Point represents a geographic coordinate
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// NewPoint creates a Point from latitude and longitude values with validation
func NewPoint(latitude, longitude float64) (Point, error) {
	point := Point{Latitude: latitude, Longitude: longitude}
	if !point.Valid() {
		return Point{}, errors.New("invalid coordinates: latitude must be [-90, 90], longitude must be [-180, 180]")
	}
	return point, nil
}

// Valid reports whether the latitude and longitude are within range
func (p Point) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}

// Distance calculates the great-circle distance between two points in
// meters using the Haversine formula.
func Distance(p1, p2 Point) float64 {
	if p1.Latitude == p2.Latitude && p1.Longitude == p2.Longitude {
		return 0
	}

	lat1 := p1.Latitude * math.Pi / 180
	lon1 := p1.Longitude * math.Pi / 180
	lat2 := p2.Latitude * math.Pi / 180
	lon2 := p2.Longitude * math.Pi / 180

	dlat := lat2 - lat1
	dlon := lon2 - lon1

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// Bearing calculates the initial bearing in degrees [0, 360) when
// travelling from one point toward another.
func Bearing(from, to Point) float64 {
	lat1 := from.Latitude * math.Pi / 180
	lon1 := from.Longitude * math.Pi / 180
	lat2 := to.Latitude * math.Pi / 180
	lon2 := to.Longitude * math.Pi / 180

	y := math.Sin(lon2-lon1) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(lon2-lon1)
	bearing := math.Atan2(y, x) * 180 / math.Pi

	return math.Mod(bearing+360, 360)
}

// Interpolate calculates a point along the segment between two points.
// t=0 returns start, t=1 returns end, t=0.5 returns the midpoint.
// Linear interpolation is adequate for road segments (typically < 10km).
func Interpolate(start, end Point, t float64) Point {
	return Point{
		Latitude:  start.Latitude + t*(end.Latitude-start.Latitude),
		Longitude: start.Longitude + t*(end.Longitude-start.Longitude),
	}
}

// DistanceToSegment calculates the shortest distance in meters from a
// point to the great-circle segment between a and b. Projections falling
// outside the segment clamp to the nearer endpoint.
func DistanceToSegment(p, a, b Point) float64 {
	if a == b {
		return Distance(p, a)
	}
	d13 := Distance(a, p)
	if d13 == 0 {
		return 0
	}

	theta13 := Bearing(a, p) * math.Pi / 180
	theta12 := Bearing(a, b) * math.Pi / 180

	// Projection falls before the segment start
	if math.Cos(theta13-theta12) < 0 {
		return d13
	}

	delta13 := d13 / EarthRadiusMeters
	crossTrack := math.Asin(math.Sin(delta13) * math.Sin(theta13-theta12))
	alongTrack := math.Acos(math.Cos(delta13)/math.Cos(crossTrack)) * EarthRadiusMeters

	// Projection falls past the segment end
	if alongTrack > Distance(a, b) {
		return Distance(b, p)
	}
	return math.Abs(crossTrack) * EarthRadiusMeters
}

// Offset returns the point reached by travelling distanceMeters from p on
// the given initial bearing (degrees).
func Offset(p Point, distanceMeters, bearingDeg float64) Point {
	lat1 := p.Latitude * math.Pi / 180
	lon1 := p.Longitude * math.Pi / 180
	brg := bearingDeg * math.Pi / 180
	d := distanceMeters / EarthRadiusMeters

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(d) + math.Cos(lat1)*math.Sin(d)*math.Cos(brg))
	lon2 := lon1 + math.Atan2(
		math.Sin(brg)*math.Sin(d)*math.Cos(lat1),
		math.Cos(d)-math.Sin(lat1)*math.Sin(lat2),
	)

	return Point{
		Latitude:  lat2 * 180 / math.Pi,
		Longitude: math.Mod(lon2*180/math.Pi+540, 360) - 180,
	}
}
