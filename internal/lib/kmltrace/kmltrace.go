// Package kmltrace renders a guidance run as a KML document for visual
// inspection in a map viewer: the planned route as a line, the raw fix
// trail as a second line, and a placemark per announcement and off-route
// fix.
package kmltrace

import (
	"fmt"
	"io"

	kml "github.com/twpayne/go-kml/v2"

	"github.com/haulnav/guidance/internal/lib/announce"
	"github.com/haulnav/guidance/internal/lib/geo"
	"github.com/haulnav/guidance/internal/lib/guidance"
	"github.com/haulnav/guidance/internal/lib/route"
)

// Trace accumulates one guidance run.
type Trace struct {
	name          string
	geom          *route.Geometry
	fixes         []geo.Point
	offRoute      []geo.Point
	announcements []announcementAt
}

type announcementAt struct {
	announcement announce.Announcement
	at           geo.Point
}

// New creates a trace for the given route.
func New(name string, geom *route.Geometry) *Trace {
	return &Trace{name: name, geom: geom}
}

// AddTick records one engine tick.
func (t *Trace) AddTick(tick guidance.Tick) {
	t.fixes = append(t.fixes, tick.Fix.Point)
	if tick.OffRoute {
		t.offRoute = append(t.offRoute, tick.Fix.Point)
	}
}

// AddAnnouncement records an announcement at the position it fired.
func (t *Trace) AddAnnouncement(a announce.Announcement, at geo.Point) {
	t.announcements = append(t.announcements, announcementAt{announcement: a, at: at})
}

// WriteKML renders the trace as a KML document.
func (t *Trace) WriteKML(w io.Writer) error {
	children := []kml.Element{kml.Name(t.name)}

	if t.geom != nil && t.geom.Len() > 1 {
		children = append(children, kml.Placemark(
			kml.Name("planned route"),
			kml.LineString(kml.Coordinates(coordinates(t.geom.Points())...)),
		))
	}

	if len(t.fixes) > 1 {
		children = append(children, kml.Placemark(
			kml.Name("fix trail"),
			kml.LineString(kml.Coordinates(coordinates(t.fixes)...)),
		))
	}

	for _, p := range t.offRoute {
		children = append(children, kml.Placemark(
			kml.Name("off route"),
			kml.Point(kml.Coordinates(coordinate(p))),
		))
	}

	for _, a := range t.announcements {
		children = append(children, kml.Placemark(
			kml.Name(a.announcement.Text),
			kml.Description(fmt.Sprintf("rung %.0fm at %.0fm", a.announcement.ThresholdMeters, a.announcement.DistanceMeters)),
			kml.Point(kml.Coordinates(coordinate(a.at))),
		))
	}

	doc := kml.KML(kml.Document(children...))
	return doc.WriteIndent(w, "", "  ")
}

func coordinate(p geo.Point) kml.Coordinate {
	return kml.Coordinate{Lon: p.Longitude, Lat: p.Latitude}
}

func coordinates(points []geo.Point) []kml.Coordinate {
	coords := make([]kml.Coordinate, len(points))
	for i, p := range points {
		coords[i] = coordinate(p)
	}
	return coords
}
