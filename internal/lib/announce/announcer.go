// Package announce turns the ordered stream of guidance ticks into a
// bounded stream of maneuver announcements. It is a pure debouncing layer:
// per-maneuver distance ladders staged from far to near, each rung firing
// at most once, at most one announcement per tick.
package announce

import (
	"fmt"
	"math"

	"github.com/haulnav/guidance/internal/lib/guidance"
)

// Default threshold ladders in meters, descending. Highway speeds need the
// far rung much earlier than city streets.
var (
	DefaultHighwayLadder = []float64{1200, 600, 400}
	DefaultCityLadder    = []float64{250, 150, 80}
)

// Announcement is one spoken/text prompt. Delivery is fire-and-forget.
type Announcement struct {
	Text            string  `json:"text"`
	Instruction     string  `json:"instruction"`
	ManeuverIndex   int     `json:"maneuver_index"` // route point index of the maneuver
	ThresholdMeters float64 `json:"threshold_meters"`
	DistanceMeters  float64 `json:"distance_meters"`
}

// Announcer consumes guidance ticks in order and emits at most one
// announcement per tick via the supplied callback. It is single-owner
// mutable state: OnTick, SetHighwayMode, and Reset must be called from the
// thread that owns the guidance session.
type Announcer struct {
	emit func(Announcement)

	highwayLadder []float64
	cityLadder    []float64
	highway       bool

	lastManeuverIndex int     // route point index of the last announced maneuver, -1 for none
	lastThreshold     float64 // smallest rung already fired for that maneuver
}

// New creates an Announcer with the default ladders. The emit callback
// receives each announcement exactly once.
func New(emit func(Announcement)) *Announcer {
	return NewWithLadders(emit, DefaultHighwayLadder, DefaultCityLadder)
}

// NewWithLadders creates an Announcer with custom threshold ladders, each
// ordered descending. Empty ladders fall back to the defaults.
func NewWithLadders(emit func(Announcement), highwayLadder, cityLadder []float64) *Announcer {
	if len(highwayLadder) == 0 {
		highwayLadder = DefaultHighwayLadder
	}
	if len(cityLadder) == 0 {
		cityLadder = DefaultCityLadder
	}
	return &Announcer{
		emit:              emit,
		highwayLadder:     highwayLadder,
		cityLadder:        cityLadder,
		lastManeuverIndex: -1,
		lastThreshold:     math.Inf(1),
	}
}

// SetHighwayMode selects which threshold ladder is active.
func (a *Announcer) SetHighwayMode(on bool) {
	a.highway = on
}

// Reset clears the debounce state so previously announced maneuvers become
// eligible again. Called whenever the engine's route is replaced.
func (a *Announcer) Reset() {
	a.lastManeuverIndex = -1
	a.lastThreshold = math.Inf(1)
}

// OnTick evaluates one tick against the active ladder and emits the closest
// not-yet-fired rung the vehicle has reached, if any. For a given maneuver
// the fired thresholds are strictly decreasing, so no rung fires twice.
func (a *Announcer) OnTick(tick guidance.Tick) {
	m := tick.NextManeuver
	if m == nil {
		return
	}
	distance := tick.ManeuverDistanceMeters

	prevThreshold := a.lastThreshold
	if m.PointIndex != a.lastManeuverIndex {
		prevThreshold = math.Inf(1)
	} else if distance >= prevThreshold {
		// Already announced at this or a closer threshold and the vehicle
		// has not advanced past the last fired rung.
		return
	}

	ladder := a.cityLadder
	if a.highway {
		ladder = a.highwayLadder
	}

	// Scan from the near end of the ladder so the closest not-yet-fired
	// rung the vehicle has reached wins. Fired thresholds for a maneuver
	// are therefore strictly decreasing.
	for i := len(ladder) - 1; i >= 0; i-- {
		t := ladder[i]
		if distance <= t && t < prevThreshold {
			a.emit(Announcement{
				Text:            announcementText(m.Instruction, distance),
				Instruction:     m.Instruction,
				ManeuverIndex:   m.PointIndex,
				ThresholdMeters: t,
				DistanceMeters:  distance,
			})
			a.lastManeuverIndex = m.PointIndex
			a.lastThreshold = t
			return
		}
	}
}

// announcementText builds the prompt: a distance preamble for far
// announcements, the bare instruction for immediate ones.
func announcementText(instruction string, distanceMeters float64) string {
	cleaned := cleanInstruction(instruction)
	if distanceMeters > 100 {
		return fmt.Sprintf("In %s, %s", FormatDistance(distanceMeters), cleaned)
	}
	return cleaned
}

// FormatDistance renders a distance for speech. Below 100 m, exact meters;
// 100-999 m, floored to the nearest 100 m; 1 km and above, whole kilometers
// with [1000, 2000) always reading "1 kilometer".
func FormatDistance(meters float64) string {
	m := int(meters)
	switch {
	case m < 100:
		return fmt.Sprintf("%d meters", m)
	case m < 1000:
		return fmt.Sprintf("%d meters", m/100*100)
	case m < 2000:
		return "1 kilometer"
	default:
		return fmt.Sprintf("%d kilometers", m/1000)
	}
}
