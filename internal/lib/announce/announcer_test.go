package announce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haulnav/guidance/internal/lib/guidance"
	"github.com/haulnav/guidance/internal/lib/route"
)

// collector gathers emitted announcements for assertions.
type collector struct {
	announcements []Announcement
}

func (c *collector) emit(a Announcement) {
	c.announcements = append(c.announcements, a)
}

func tickFor(m *route.Maneuver, distanceMeters float64) guidance.Tick {
	return guidance.Tick{NextManeuver: m, ManeuverDistanceMeters: distanceMeters}
}

func TestAnnouncer_HighwayLadderSequence(t *testing.T) {
	c := &collector{}
	a := New(c.emit)
	a.SetHighwayMode(true)

	m := &route.Maneuver{PointIndex: 40, Kind: route.Exit, Instruction: "Take exit 12 toward Stockton"}

	for _, d := range []float64{1300, 1100, 700, 500, 390} {
		a.OnTick(tickFor(m, d))
	}

	require.Len(t, c.announcements, 3, "Exactly three rungs fire for the approach")
	assert.Equal(t, 1200.0, c.announcements[0].ThresholdMeters)
	assert.Equal(t, 600.0, c.announcements[1].ThresholdMeters)
	assert.Equal(t, 400.0, c.announcements[2].ThresholdMeters)
}

func TestAnnouncer_CityLadderSequence(t *testing.T) {
	c := &collector{}
	a := New(c.emit)

	m := &route.Maneuver{PointIndex: 12, Kind: route.TurnLeft, Instruction: "Turn left onto Oak Ave"}

	for _, d := range []float64{400, 240, 200, 140, 75, 75} {
		a.OnTick(tickFor(m, d))
	}

	require.Len(t, c.announcements, 3)
	assert.Equal(t, 250.0, c.announcements[0].ThresholdMeters)
	assert.Equal(t, 150.0, c.announcements[1].ThresholdMeters)
	assert.Equal(t, 80.0, c.announcements[2].ThresholdMeters)
}

func TestAnnouncer_NoManeuverNoAnnouncement(t *testing.T) {
	c := &collector{}
	a := New(c.emit)

	a.OnTick(guidance.Tick{NextManeuver: nil})
	assert.Empty(t, c.announcements)
}

func TestAnnouncer_RungNeverRefires(t *testing.T) {
	c := &collector{}
	a := New(c.emit)
	a.SetHighwayMode(true)

	m := &route.Maneuver{PointIndex: 40, Kind: route.TurnRight, Instruction: "Turn right"}

	// Hovering around the same distance, only one announcement fires.
	for _, d := range []float64{590, 595, 590, 585} {
		a.OnTick(tickFor(m, d))
	}

	require.Len(t, c.announcements, 1)
	assert.Equal(t, 600.0, c.announcements[0].ThresholdMeters)
}

func TestAnnouncer_NewManeuverResetsLadder(t *testing.T) {
	c := &collector{}
	a := New(c.emit)
	a.SetHighwayMode(true)

	first := &route.Maneuver{PointIndex: 40, Kind: route.Exit, Instruction: "Take exit 12"}
	a.OnTick(tickFor(first, 390)) // fires at 400

	second := &route.Maneuver{PointIndex: 90, Kind: route.TurnLeft, Instruction: "Turn left onto Oak Ave"}
	a.OnTick(tickFor(second, 1300)) // above the far rung, nothing yet
	a.OnTick(tickFor(second, 1150)) // new maneuver is eligible from the top

	require.Len(t, c.announcements, 2)
	assert.Equal(t, 400.0, c.announcements[0].ThresholdMeters)
	assert.Equal(t, 40, c.announcements[0].ManeuverIndex)
	assert.Equal(t, 1200.0, c.announcements[1].ThresholdMeters)
	assert.Equal(t, 90, c.announcements[1].ManeuverIndex)
}

func TestAnnouncer_ResetReannounces(t *testing.T) {
	c := &collector{}
	a := New(c.emit)
	a.SetHighwayMode(true)

	m := &route.Maneuver{PointIndex: 40, Kind: route.TurnRight, Instruction: "Turn right"}
	a.OnTick(tickFor(m, 500))
	require.Len(t, c.announcements, 1)

	a.Reset()
	a.OnTick(tickFor(m, 500))
	require.Len(t, c.announcements, 2, "After reset the same maneuver/threshold fires again")
	assert.Equal(t, c.announcements[0].ThresholdMeters, c.announcements[1].ThresholdMeters)
}

func TestAnnouncer_TextFarAndImmediate(t *testing.T) {
	c := &collector{}
	a := New(c.emit)
	a.SetHighwayMode(true)

	m := &route.Maneuver{PointIndex: 40, Kind: route.TurnRight, Instruction: "Turn right onto Main St"}

	a.OnTick(tickFor(m, 730))
	require.Len(t, c.announcements, 1)
	assert.Equal(t, "In 700 meters, turn right onto Main St", c.announcements[0].Text)

	a.OnTick(tickFor(m, 95))
	require.Len(t, c.announcements, 2)
	assert.Equal(t, "turn right onto Main St", c.announcements[1].Text, "Immediate-action phrasing omits the preamble")
}

func TestAnnouncer_CustomLadders(t *testing.T) {
	c := &collector{}
	a := NewWithLadders(c.emit, []float64{2000, 1000}, []float64{300})
	a.SetHighwayMode(true)

	m := &route.Maneuver{PointIndex: 10, Kind: route.Merge, Instruction: "Merge onto I-5"}
	a.OnTick(tickFor(m, 1800))

	require.Len(t, c.announcements, 1)
	assert.Equal(t, 2000.0, c.announcements[0].ThresholdMeters)
}

func TestFormatDistance(t *testing.T) {
	cases := []struct {
		meters float64
		want   string
	}{
		{45, "45 meters"},
		{99, "99 meters"},
		{100, "100 meters"},
		{730, "700 meters"},
		{999, "900 meters"},
		{1000, "1 kilometer"},
		{1500, "1 kilometer"},
		{1999, "1 kilometer"},
		{2000, "2 kilometers"},
		{2600, "2 kilometers"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatDistance(tc.meters), "meters=%v", tc.meters)
	}
}

func TestCleanInstruction(t *testing.T) {
	assert.Equal(t, "turn right onto Main St", cleanInstruction("Turn right onto Main St"))
	assert.Equal(t, "take exit 12 toward Stockton", cleanInstruction("Take exit 12 toward Stockton"))
	assert.Equal(t, "make a U-turn at Elm St", cleanInstruction("Make a U-turn at Elm St"))
	assert.Equal(t, "already lowercase", cleanInstruction("already lowercase"))
}
