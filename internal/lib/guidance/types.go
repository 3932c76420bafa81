package guidance

import (
	"time"

	"github.com/haulnav/guidance/internal/lib/geo"
	"github.com/haulnav/guidance/internal/lib/route"
)

// Fix is a single timestamped GPS reading.
type Fix struct {
	Point          geo.Point `json:"point"`
	AccuracyMeters float64   `json:"accuracy_meters"`
	Time           time.Time `json:"time"`
}

// Tick is the engine's verdict for one fix: where the vehicle is relative
// to the route and what comes next. Ticks are immutable values; the
// announcer and UI consume them independently.
type Tick struct {
	Fix          Fix       `json:"fix"`
	SnappedPoint geo.Point `json:"snapped_point"`
	SnappedIndex int       `json:"snapped_index"`

	// DistanceFromRouteMeters is the surface distance from the fix to the
	// matched route point, the basis for off-route detection.
	DistanceFromRouteMeters float64 `json:"distance_from_route_meters"`

	RemainingMeters        float64         `json:"remaining_meters"`
	NextManeuver           *route.Maneuver `json:"next_maneuver,omitempty"`
	ManeuverDistanceMeters float64         `json:"maneuver_distance_meters"`

	OffRoute      bool `json:"off_route"`
	ShouldReroute bool `json:"should_reroute"`

	// LowConfidence marks fixes whose reported accuracy is worse than the
	// configured ceiling. The tick is still produced; suppression is a
	// downstream policy decision.
	LowConfidence bool `json:"low_confidence"`
}

// Config holds the engine's tunable parameters. The off-route threshold,
// reroute confirmation, and backward-correction behavior vary by fleet and
// receiver quality, so they are configuration rather than constants.
type Config struct {
	// OffRouteThresholdMeters is the snapped distance beyond which a fix is
	// considered off the route.
	OffRouteThresholdMeters float64

	// RerouteMinFixes is the number of consecutive off-route fixes required
	// before a reroute is suggested. Debounces one-shot GPS glitches.
	RerouteMinFixes int

	// RerouteMinDuration suggests a reroute once the off-route condition
	// has persisted this long by fix timestamps, even if RerouteMinFixes
	// has not been reached. Zero disables the duration path.
	RerouteMinDuration time.Duration

	// BackwardSearchWindow is how many indices behind the last match the
	// nearest-point search may consider, absorbing short GPS jitter loops.
	BackwardSearchWindow int

	// BackwardCorrectionFactor is how many times closer a point outside the
	// search window must be before the match jumps backward to it.
	BackwardCorrectionFactor float64

	// AccuracyCeilingMeters flags fixes with worse reported accuracy as
	// low-confidence.
	AccuracyCeilingMeters float64
}

// DefaultConfig returns the tuning used in production trucks.
func DefaultConfig() Config {
	return Config{
		OffRouteThresholdMeters:  80,
		RerouteMinFixes:          3,
		RerouteMinDuration:       12 * time.Second,
		BackwardSearchWindow:     10,
		BackwardCorrectionFactor: 3,
		AccuracyCeilingMeters:    50,
	}
}

// withDefaults substitutes defaults for unset fields so a partially
// populated Config never disables matching outright.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.OffRouteThresholdMeters <= 0 {
		c.OffRouteThresholdMeters = d.OffRouteThresholdMeters
	}
	if c.RerouteMinFixes <= 0 {
		c.RerouteMinFixes = d.RerouteMinFixes
	}
	if c.BackwardSearchWindow <= 0 {
		c.BackwardSearchWindow = d.BackwardSearchWindow
	}
	if c.BackwardCorrectionFactor <= 1 {
		c.BackwardCorrectionFactor = d.BackwardCorrectionFactor
	}
	if c.AccuracyCeilingMeters <= 0 {
		c.AccuracyCeilingMeters = d.AccuracyCeilingMeters
	}
	return c
}
