// Package guidance matches a stream of noisy GPS fixes against a planned
// route and decides when the vehicle has departed it. The engine is a
// synchronous state machine: one fix in, one tick out, no blocking, no
// internal parallelism. Fixes must arrive strictly in order from a single
// caller; the only cross-goroutine concern is route replacement, which is
// guarded so no tick is ever computed against a half-replaced route.
package guidance

import (
	"sync"
	"time"

	"github.com/haulnav/guidance/internal/lib/geo"
	"github.com/haulnav/guidance/internal/lib/route"
)

// Engine tracks a vehicle's progress along one route.
type Engine struct {
	mu  sync.Mutex
	cfg Config

	geom             *route.Geometry
	lastMatchedIndex int

	// off-route debounce state
	offRouteFixes int
	offRouteSince time.Time
}

// NewEngine creates an engine tracking the given route. Zero-valued Config
// fields fall back to DefaultConfig.
func NewEngine(geom *route.Geometry, cfg Config) *Engine {
	return &Engine{
		cfg:  cfg.withDefaults(),
		geom: geom,
	}
}

// SetRoute installs a new route after a reroute is accepted, resetting all
// match and off-route state. Atomic with respect to OnLocation.
func (e *Engine) SetRoute(geom *route.Geometry) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.geom = geom
	e.lastMatchedIndex = 0
	e.offRouteFixes = 0
	e.offRouteSince = time.Time{}
}

// OnLocation consumes one fix and returns the resulting guidance tick. It
// must be called once per incoming fix, in arrival order; concurrent calls
// against the same engine are not supported, though route replacement from
// another goroutine is.
func (e *Engine) OnLocation(fix Fix) Tick {
	e.mu.Lock()
	defer e.mu.Unlock()

	tick := Tick{
		Fix:           fix,
		LowConfidence: fix.AccuracyMeters > e.cfg.AccuracyCeilingMeters,
	}

	// Degenerate routes produce a "no guidance available" tick.
	if e.geom == nil || e.geom.Len() < 2 {
		tick.SnappedPoint = fix.Point
		if e.geom != nil && e.geom.Len() == 1 {
			tick.SnappedPoint = e.geom.Point(0)
			tick.DistanceFromRouteMeters = geo.Distance(fix.Point, tick.SnappedPoint)
		}
		return tick
	}

	// Bias the search forward of the last match, minus a small backward
	// tolerance window. A point outside the window only wins when it is
	// overwhelmingly closer, which allows true backward corrections without
	// letting short jitter loops snap the vehicle backward.
	windowStart := e.lastMatchedIndex - e.cfg.BackwardSearchWindow
	if windowStart < 0 {
		windowStart = 0
	}
	candidate, candidateDist := e.geom.NearestPointIndexInRange(fix.Point, windowStart, e.geom.Len()-1)

	backwardCorrection := false
	if windowStart > 0 {
		global, globalDist := e.geom.NearestPointIndexInRange(fix.Point, 0, windowStart-1)
		if globalDist*e.cfg.BackwardCorrectionFactor < candidateDist {
			candidate, candidateDist = global, globalDist
			backwardCorrection = true
		}
	}

	// Monotonic progress guard: the match only moves backward on an
	// explicit correction.
	matched := e.lastMatchedIndex
	if candidate >= e.lastMatchedIndex || backwardCorrection {
		matched = candidate
	}

	tick.DistanceFromRouteMeters = candidateDist
	if candidateDist > e.cfg.OffRouteThresholdMeters {
		tick.OffRoute = true
		if e.offRouteFixes == 0 {
			e.offRouteSince = fix.Time
		}
		e.offRouteFixes++
		tick.ShouldReroute = e.rerouteConfirmed(fix.Time)
	} else {
		e.offRouteFixes = 0
		e.offRouteSince = time.Time{}
	}

	e.lastMatchedIndex = matched
	tick.SnappedIndex = matched
	tick.SnappedPoint = e.geom.Point(matched)
	tick.RemainingMeters = e.geom.RemainingDistance(matched)
	if m, ok := e.geom.NextManeuver(matched); ok {
		tick.NextManeuver = &m
		tick.ManeuverDistanceMeters = e.geom.DistanceToNextManeuver(matched)
	}

	return tick
}

// rerouteConfirmed reports whether the off-route condition has persisted
// long enough, by consecutive fix count or by fix-timestamp duration, to
// warrant recomputing the route externally.
func (e *Engine) rerouteConfirmed(at time.Time) bool {
	if e.offRouteFixes >= e.cfg.RerouteMinFixes {
		return true
	}
	if e.cfg.RerouteMinDuration > 0 && !e.offRouteSince.IsZero() && !at.IsZero() {
		return at.Sub(e.offRouteSince) >= e.cfg.RerouteMinDuration
	}
	return false
}
