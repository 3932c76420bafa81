// test-guidance is a manual test harness for the guidance core: inspect a
// route document, probe nearest-point matching, and preview announcement
// distance phrasing without running a full simulation.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/haulnav/guidance/internal/clients/routefile"
	"github.com/haulnav/guidance/internal/lib/announce"
	"github.com/haulnav/guidance/internal/lib/geo"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "validate-route":
		handleValidateRoute()
	case "nearest-point":
		handleNearestPoint()
	case "format-distance":
		handleFormatDistance()
	case "help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func handleValidateRoute() {
	fs := flag.NewFlagSet("validate-route", flag.ExitOnError)
	routePath := fs.String("route", "", "Path to route document JSON")
	fs.Parse(os.Args[2:])

	if *routePath == "" {
		fmt.Println("Example usage:")
		fmt.Println("  test-guidance validate-route --route route.json")
		os.Exit(1)
	}

	doc, err := routefile.Load(*routePath)
	if err != nil {
		log.Fatalf("Error loading route: %v", err)
	}
	geom, err := doc.Geometry()
	if err != nil {
		log.Fatalf("Invalid route geometry: %v", err)
	}

	fmt.Printf("Route %s: %d points, %.0fm total\n", doc.ID, geom.Len(), geom.TotalDistance())
	for _, m := range geom.Maneuvers() {
		fmt.Printf("  @%-5d %-10s %.0fm from start: %s\n",
			m.PointIndex, m.Kind, geom.DistanceAtIndex(m.PointIndex), m.Instruction)
	}
}

func handleNearestPoint() {
	fs := flag.NewFlagSet("nearest-point", flag.ExitOnError)
	routePath := fs.String("route", "", "Path to route document JSON")
	lat := fs.Float64("lat", 0, "Fix latitude")
	lng := fs.Float64("lng", 0, "Fix longitude")
	fs.Parse(os.Args[2:])

	if *routePath == "" {
		fmt.Println("Example usage:")
		fmt.Println("  test-guidance nearest-point --route route.json --lat 38.0675 --lng -120.5436")
		os.Exit(1)
	}

	doc, err := routefile.Load(*routePath)
	if err != nil {
		log.Fatalf("Error loading route: %v", err)
	}
	geom, err := doc.Geometry()
	if err != nil {
		log.Fatalf("Invalid route geometry: %v", err)
	}

	fix, err := geo.NewPoint(*lat, *lng)
	if err != nil {
		log.Fatalf("Invalid fix coordinates: %v", err)
	}

	idx, dist := geom.NearestPointIndex(fix)
	fmt.Printf("Nearest point: index %d at (%.6f, %.6f), %.1fm away\n",
		idx, geom.Point(idx).Latitude, geom.Point(idx).Longitude, dist)
	fmt.Printf("Remaining distance from there: %.0fm\n", geom.RemainingDistance(idx))
	if m, ok := geom.NextManeuver(idx); ok {
		fmt.Printf("Next maneuver: %s (%.0fm ahead)\n", m.Instruction, geom.DistanceToNextManeuver(idx))
	} else {
		fmt.Println("No maneuvers ahead")
	}
}

func handleFormatDistance() {
	if len(os.Args) < 3 {
		fmt.Println("Example usage:")
		fmt.Println("  test-guidance format-distance 730 1500 2600")
		os.Exit(1)
	}

	for _, arg := range os.Args[2:] {
		meters, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			log.Fatalf("Invalid distance %q: %v", arg, err)
		}
		fmt.Printf("%8s -> %s\n", arg, announce.FormatDistance(meters))
	}
}

func printUsage() {
	fmt.Println("test-guidance - manual test harness for the guidance core")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  validate-route   --route route.json")
	fmt.Println("  nearest-point    --route route.json --lat <lat> --lng <lng>")
	fmt.Println("  format-distance  <meters> [<meters> ...]")
	fmt.Println("  help")
}
