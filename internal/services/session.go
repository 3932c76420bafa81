// Package services composes the guidance core into a navigation session:
// one engine, one announcer, and a session-scoped route cache, with
// structured logging of state transitions for the surrounding system.
package services

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/haulnav/guidance/internal/cache"
	"github.com/haulnav/guidance/internal/lib/announce"
	"github.com/haulnav/guidance/internal/lib/guidance"
	"github.com/haulnav/guidance/internal/lib/route"
)

// GuidanceSession owns the mutable guidance state for one vehicle. The
// session mutex makes route installation atomic with respect to location
// processing, so announcer debounce state can never refer to a maneuver
// from a stale route.
type GuidanceSession struct {
	mu        sync.Mutex
	engine    *guidance.Engine
	announcer *announce.Announcer
	routes    *cache.RouteCache
	log       *zap.Logger

	routeID string

	// previous tick flags, for transition logging
	wasOffRoute bool
	wasReroute  bool
	wasArrived  bool
}

// SessionParams carries the session's dependencies and tuning.
type SessionParams struct {
	Engine        guidance.Config
	HighwayLadder []float64
	CityLadder    []float64
	Routes        *cache.RouteCache
	OnAnnounce    func(announce.Announcement)
	Logger        *zap.Logger
}

// NewGuidanceSession creates a session with no route installed.
func NewGuidanceSession(params SessionParams) *GuidanceSession {
	log := params.Logger
	if log == nil {
		log = zap.NewNop()
	}
	emit := params.OnAnnounce
	if emit == nil {
		emit = func(announce.Announcement) {}
	}
	routes := params.Routes
	if routes == nil {
		routes = cache.NewRouteCache(30*time.Minute, log)
	}

	return &GuidanceSession{
		engine:    guidance.NewEngine(nil, params.Engine),
		announcer: announce.NewWithLadders(emit, params.HighwayLadder, params.CityLadder),
		routes:    routes,
		log:       log,
	}
}

// InstallRoute replaces the session's route: the geometry is cached by ID,
// the engine's match state resets, and the announcer's debounce state
// clears so maneuvers on the new route announce from scratch.
func (s *GuidanceSession) InstallRoute(id string, geom *route.Geometry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.routes.Put(id, geom)
	s.installLocked(id, geom)
}

// ReinstallRoute restores a previously installed route from the session
// cache, e.g. when the driver declines a reroute and returns to the
// original path. Returns false when the route is no longer cached.
func (s *GuidanceSession) ReinstallRoute(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	geom, ok := s.routes.Get(id)
	if !ok {
		return false
	}
	s.installLocked(id, geom)
	return true
}

func (s *GuidanceSession) installLocked(id string, geom *route.Geometry) {
	s.engine.SetRoute(geom)
	s.announcer.Reset()
	s.routeID = id
	s.wasOffRoute = false
	s.wasReroute = false
	s.wasArrived = false

	s.log.Info("route installed",
		zap.String("route_id", id),
		zap.Int("points", geom.Len()),
		zap.Int("maneuvers", len(geom.Maneuvers())),
		zap.Float64("total_meters", geom.TotalDistance()),
	)
}

// OnLocation feeds one fix through the engine and the announcer, returning
// the tick for the UI. Calls must arrive strictly in fix order.
func (s *GuidanceSession) OnLocation(fix guidance.Fix) guidance.Tick {
	s.mu.Lock()
	defer s.mu.Unlock()

	tick := s.engine.OnLocation(fix)
	s.announcer.OnTick(tick)
	s.logTransitions(tick)
	return tick
}

// SetHighwayMode switches the announcer's threshold ladder.
func (s *GuidanceSession) SetHighwayMode(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.announcer.SetHighwayMode(on)
}

// RouteID returns the identifier of the installed route, or "" when none.
func (s *GuidanceSession) RouteID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.routeID
}

func (s *GuidanceSession) logTransitions(tick guidance.Tick) {
	if tick.OffRoute && !s.wasOffRoute {
		s.log.Warn("vehicle off route",
			zap.String("route_id", s.routeID),
			zap.Float64("distance_from_route_meters", tick.DistanceFromRouteMeters),
		)
	}
	if !tick.OffRoute && s.wasOffRoute {
		s.log.Info("vehicle back on route", zap.String("route_id", s.routeID))
	}
	if tick.ShouldReroute && !s.wasReroute {
		s.log.Warn("reroute suggested", zap.String("route_id", s.routeID))
	}
	arrived := s.routeID != "" && !tick.OffRoute && tick.NextManeuver == nil && tick.RemainingMeters == 0
	if arrived && !s.wasArrived {
		s.log.Info("arrived at destination", zap.String("route_id", s.routeID))
	}
	s.wasOffRoute = tick.OffRoute
	s.wasReroute = tick.ShouldReroute
	s.wasArrived = arrived
}
