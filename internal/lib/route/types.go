package route

import (
	"strings"
	"time"
)

// ManeuverKind is a closed set of driving instruction types. Using an
// enumerated type instead of raw strings keeps switches exhaustive.
type ManeuverKind int

const (
	TurnLeft ManeuverKind = iota
	TurnRight
	Merge
	Exit
	KeepLeft
	KeepRight
	UTurn
	Arrive
	Continue
	Other
)

var kindNames = map[ManeuverKind]string{
	TurnLeft:  "turn_left",
	TurnRight: "turn_right",
	Merge:     "merge",
	Exit:      "exit",
	KeepLeft:  "keep_left",
	KeepRight: "keep_right",
	UTurn:     "u_turn",
	Arrive:    "arrive",
	Continue:  "continue",
	Other:     "other",
}

func (k ManeuverKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "other"
}

// KindFromString maps a routing provider's maneuver type string to a
// ManeuverKind. Unrecognized types map to Other rather than failing, since
// providers add types over time.
func KindFromString(s string) ManeuverKind {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	for kind, name := range kindNames {
		if name == normalized {
			return kind
		}
	}
	return Other
}

// Maneuver is a discrete driving instruction anchored to a route point.
type Maneuver struct {
	PointIndex    int           `json:"point_index"`
	Kind          ManeuverKind  `json:"kind"`
	Instruction   string        `json:"instruction"`
	ExitNumber    string        `json:"exit_number,omitempty"`
	BearingBefore float64       `json:"bearing_before"` // degrees [0, 360)
	BearingAfter  float64       `json:"bearing_after"`  // degrees [0, 360)
	DistanceAfter float64       `json:"distance_after_meters"`
	Duration      time.Duration `json:"duration,omitempty"`
	RoadName      string        `json:"road_name,omitempty"`
}
