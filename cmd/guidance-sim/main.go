// guidance-sim drives a route through the guidance core: it loads a route
// document, replays a recorded fix trace (or synthesizes one along the
// route), and prints every announcement the core decides to make. With
// --kml-out it also writes the run as a KML file for map inspection.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/haulnav/guidance/internal/cache"
	"github.com/haulnav/guidance/internal/clients/gpsreplay"
	"github.com/haulnav/guidance/internal/clients/routefile"
	"github.com/haulnav/guidance/internal/config"
	"github.com/haulnav/guidance/internal/lib/announce"
	"github.com/haulnav/guidance/internal/lib/guidance"
	"github.com/haulnav/guidance/internal/lib/kmltrace"
	"github.com/haulnav/guidance/internal/services"
)

func main() {
	routePath := flag.String("route", "", "Path to route document JSON (required)")
	tracePath := flag.String("trace", "", "Path to fix trace JSON; omit to synthesize fixes along the route")
	configPath := flag.String("config", "", "Path to config YAML; omit for defaults")
	kmlOut := flag.String("kml-out", "", "Write the run as KML to this path")
	spacing := flag.Float64("spacing", 50, "Synthesized fix spacing in meters")
	jitter := flag.Float64("jitter", 0, "Synthesized fix jitter in meters")
	realtime := flag.Bool("realtime", false, "Pace replay at the configured fixes per second")
	flag.Parse()

	if *routePath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := config.Default()
	if *configPath == "" {
		*configPath = os.Getenv("GUIDANCE_CONFIG")
	}
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	doc, err := routefile.Load(*routePath)
	if err != nil {
		logger.Fatal("failed to load route document", zap.Error(err))
	}
	geom, err := doc.Geometry()
	if err != nil {
		logger.Fatal("failed to build route geometry", zap.Error(err))
	}

	trace := kmltrace.New(doc.ID, geom)

	// The announcer fires synchronously inside OnLocation, so the fix
	// being processed is the announcement's position.
	var currentFix guidance.Fix

	session := services.NewGuidanceSession(services.SessionParams{
		Engine:        cfg.Guidance.EngineConfig(),
		HighwayLadder: cfg.Announce.HighwayLadder,
		CityLadder:    cfg.Announce.CityLadder,
		Routes:        cache.NewRouteCache(cfg.Cache.RouteTTL(), logger),
		Logger:        logger,
		OnAnnounce: func(a announce.Announcement) {
			trace.AddAnnouncement(a, currentFix.Point)
			fmt.Printf("  >> %s\n", a.Text)
		},
	})
	session.SetHighwayMode(cfg.Announce.HighwayMode || doc.HighwayHint())
	session.InstallRoute(doc.ID, geom)

	var fixes []guidance.Fix
	if *tracePath != "" {
		fixes, err = gpsreplay.LoadTrace(*tracePath)
		if err != nil {
			logger.Fatal("failed to load fix trace", zap.Error(err))
		}
	} else {
		fixes = gpsreplay.Synthesize(geom, *spacing, 10, *jitter, time.Now(), time.Second)
		logger.Info("synthesized fix trace", zap.Int("fixes", len(fixes)), zap.Float64("spacing_meters", *spacing))
	}

	opts := gpsreplay.Options{
		MaxFixAge:             cfg.Replay.MaxFixAge(),
		AccuracyCeilingMeters: cfg.Replay.AccuracyCeilingMeters,
	}
	if *realtime {
		opts.FixesPerSecond = cfg.Replay.FixesPerSecond
	}
	source := gpsreplay.NewSource(fixes, opts)

	delivered, err := source.Run(context.Background(), func(fix guidance.Fix) {
		currentFix = fix
		tick := session.OnLocation(fix)
		trace.AddTick(tick)

		status := "on-route"
		if tick.ShouldReroute {
			status = "REROUTE"
		} else if tick.OffRoute {
			status = "off-route"
		}
		fmt.Printf("[%s] remaining %s, %s\n", status, announce.FormatDistance(tick.RemainingMeters), nextUp(tick))
	})
	if err != nil {
		logger.Fatal("replay aborted", zap.Error(err))
	}
	logger.Info("replay complete", zap.Int("fixes_delivered", delivered))

	if *kmlOut != "" {
		f, err := os.Create(*kmlOut)
		if err != nil {
			logger.Fatal("failed to create KML file", zap.Error(err))
		}
		defer f.Close()
		if err := trace.WriteKML(f); err != nil {
			logger.Fatal("failed to write KML", zap.Error(err))
		}
		logger.Info("wrote KML trace", zap.String("path", *kmlOut))
	}
}

func nextUp(tick guidance.Tick) string {
	if tick.NextManeuver == nil {
		return "no maneuvers ahead"
	}
	return fmt.Sprintf("%s in %s", tick.NextManeuver.Kind, announce.FormatDistance(tick.ManeuverDistanceMeters))
}
