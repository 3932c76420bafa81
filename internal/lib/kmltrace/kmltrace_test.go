package kmltrace

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haulnav/guidance/internal/lib/announce"
	"github.com/haulnav/guidance/internal/lib/geo"
	"github.com/haulnav/guidance/internal/lib/guidance"
	"github.com/haulnav/guidance/internal/lib/route"
)

func TestTrace_WriteKML(t *testing.T) {
	points := []geo.Point{
		{Latitude: 38.0675, Longitude: -120.5436},
		{Latitude: 38.0775, Longitude: -120.5436},
	}
	geom, err := route.NewGeometry(points, nil)
	require.NoError(t, err)

	trace := New("hwy4 run", geom)
	trace.AddTick(guidance.Tick{Fix: guidance.Fix{Point: points[0]}})
	trace.AddTick(guidance.Tick{
		Fix:      guidance.Fix{Point: geo.Offset(points[0], 200, 90)},
		OffRoute: true,
	})
	trace.AddAnnouncement(announce.Announcement{
		Text:            "In 700 meters, turn right onto Main St",
		ThresholdMeters: 1200,
		DistanceMeters:  730,
	}, points[1])

	var buf bytes.Buffer
	require.NoError(t, trace.WriteKML(&buf))

	out := buf.String()
	assert.Contains(t, out, "<kml")
	assert.Contains(t, out, "planned route")
	assert.Contains(t, out, "fix trail")
	assert.Contains(t, out, "off route")
	assert.Contains(t, out, "In 700 meters, turn right onto Main St")
	assert.Contains(t, out, "-120.5436,38.0675")
}

func TestTrace_EmptyStillWrites(t *testing.T) {
	trace := New("empty", nil)

	var buf bytes.Buffer
	require.NoError(t, trace.WriteKML(&buf))
	assert.Contains(t, buf.String(), "empty")
}
