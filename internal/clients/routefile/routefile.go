// Package routefile reads route documents produced by the external routing
// provider: an ordered coordinate list (raw or as an encoded polyline) plus
// per-maneuver records. It is the adapter seam between the provider's
// response format and the immutable route geometry; it performs no network
// I/O of its own.
package routefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/twpayne/go-polyline"

	"github.com/haulnav/guidance/internal/lib/geo"
	"github.com/haulnav/guidance/internal/lib/route"
)

// Document is a route as delivered by the routing provider. Exactly one of
// Points and EncodedPolyline must be populated.
type Document struct {
	ID              string           `json:"id"`
	Points          []geo.Point      `json:"points,omitempty"`
	EncodedPolyline string           `json:"encoded_polyline,omitempty"`
	Maneuvers       []ManeuverRecord `json:"maneuvers"`

	// RoadClass is the surrounding feature's road-class hint: "highway"
	// selects the highway announcement ladder, anything else the city one.
	RoadClass string `json:"road_class,omitempty"`
}

// ManeuverRecord is the provider's wire shape for one maneuver.
type ManeuverRecord struct {
	PointIndex          int     `json:"point_index"`
	Kind                string  `json:"kind"`
	Instruction         string  `json:"instruction"`
	ExitNumber          string  `json:"exit_number,omitempty"`
	BearingBefore       float64 `json:"bearing_before"`
	BearingAfter        float64 `json:"bearing_after"`
	DistanceAfterMeters float64 `json:"distance_after_meters"`
	DurationSeconds     float64 `json:"duration_seconds,omitempty"`
	RoadName            string  `json:"road_name,omitempty"`
}

// Load reads and parses a route document from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read route file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses a route document from JSON.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse route document: %w", err)
	}
	if doc.ID == "" {
		return nil, errors.New("route document has no id")
	}
	if len(doc.Points) == 0 && doc.EncodedPolyline == "" {
		return nil, errors.New("route document has neither points nor encoded_polyline")
	}
	return &doc, nil
}

// Geometry decodes the document's path and builds the immutable route
// geometry, mapping provider maneuver records onto typed maneuvers.
func (d *Document) Geometry() (*route.Geometry, error) {
	points := d.Points
	if len(points) == 0 {
		decoded, err := DecodePolyline(d.EncodedPolyline)
		if err != nil {
			return nil, err
		}
		points = decoded
	}

	maneuvers := make([]route.Maneuver, len(d.Maneuvers))
	for i, r := range d.Maneuvers {
		maneuvers[i] = route.Maneuver{
			PointIndex:    r.PointIndex,
			Kind:          route.KindFromString(r.Kind),
			Instruction:   r.Instruction,
			ExitNumber:    r.ExitNumber,
			BearingBefore: r.BearingBefore,
			BearingAfter:  r.BearingAfter,
			DistanceAfter: r.DistanceAfterMeters,
			Duration:      time.Duration(r.DurationSeconds * float64(time.Second)),
			RoadName:      r.RoadName,
		}
	}

	return route.NewGeometry(points, maneuvers)
}

// HighwayHint reports whether the document's road-class hint selects the
// highway announcement ladder.
func (d *Document) HighwayHint() bool {
	return d.RoadClass == "highway"
}

// DecodePolyline decodes a Google-encoded polyline string into a point
// sequence.
func DecodePolyline(encoded string) ([]geo.Point, error) {
	if encoded == "" {
		return nil, errors.New("encoded polyline string is empty")
	}

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to decode polyline: %w", err)
	}

	points := make([]geo.Point, len(coords))
	for i, coord := range coords {
		points[i] = geo.Point{Latitude: coord[0], Longitude: coord[1]}
		if !points[i].Valid() {
			return nil, errors.New("decoded polyline contains invalid coordinates")
		}
	}
	return points, nil
}
