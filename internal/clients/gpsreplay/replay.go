// Package gpsreplay is the location-source collaborator for simulation and
// testing: it replays a recorded fix trace, or synthesizes one along a
// route, and delivers fixes strictly in order. Stale-fix and accuracy
// pre-filtering is owned here, not by the guidance engine; the engine sees
// only the fixes the source chose to deliver.
package gpsreplay

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/haulnav/guidance/internal/lib/geo"
	"github.com/haulnav/guidance/internal/lib/guidance"
	"github.com/haulnav/guidance/internal/lib/route"
)

// Options tunes delivery pacing and the source-side fix filter.
type Options struct {
	// FixesPerSecond paces delivery; 0 delivers as fast as the consumer
	// accepts.
	FixesPerSecond float64

	// MaxFixAge drops fixes older than this relative to the newest
	// timestamp already seen in the stream. 0 disables the filter.
	MaxFixAge time.Duration

	// AccuracyCeilingMeters drops fixes with worse reported accuracy.
	// 0 disables the filter. This ceiling is the source's drop policy and
	// is deliberately looser than the engine's low-confidence flag.
	AccuracyCeilingMeters float64
}

// Source replays an ordered fix sequence.
type Source struct {
	fixes   []guidance.Fix
	opts    Options
	limiter *rate.Limiter
}

// NewSource creates a replay source over the given fixes.
func NewSource(fixes []guidance.Fix, opts Options) *Source {
	var limiter *rate.Limiter
	if opts.FixesPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.FixesPerSecond), 1)
	}
	return &Source{
		fixes:   fixes,
		opts:    opts,
		limiter: limiter,
	}
}

// Run delivers fixes in order to the callback, pacing with the rate limiter
// and applying the source-side filters, until the trace ends or the context
// is cancelled. It returns the number of fixes delivered.
func (s *Source) Run(ctx context.Context, deliver func(guidance.Fix)) (int, error) {
	var delivered int
	var newest time.Time

	for _, fix := range s.fixes {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return delivered, err
			}
		} else if err := ctx.Err(); err != nil {
			return delivered, err
		}

		if fix.Time.After(newest) {
			newest = fix.Time
		}
		if s.drop(fix, newest) {
			continue
		}

		deliver(fix)
		delivered++
	}
	return delivered, nil
}

// drop applies the stale-fix and accuracy policies.
func (s *Source) drop(fix guidance.Fix, newest time.Time) bool {
	if s.opts.MaxFixAge > 0 && !fix.Time.IsZero() && newest.Sub(fix.Time) > s.opts.MaxFixAge {
		return true
	}
	if s.opts.AccuracyCeilingMeters > 0 && fix.AccuracyMeters > s.opts.AccuracyCeilingMeters {
		return true
	}
	return false
}

// LoadTrace reads a JSON fix trace from disk.
func LoadTrace(path string) ([]guidance.Fix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace %s: %w", path, err)
	}

	var fixes []guidance.Fix
	if err := json.Unmarshal(data, &fixes); err != nil {
		return nil, fmt.Errorf("failed to parse trace %s: %w", path, err)
	}
	return fixes, nil
}

// Synthesize generates a fix stream along a route: points interpolated at
// the given spacing, timestamps advancing by interval, each fix reporting
// the given accuracy. A positive jitterMeters displaces each fix by a
// random distance up to that bound on a random bearing, approximating GPS
// noise. Useful when no recorded trace exists for a route.
func Synthesize(geom *route.Geometry, spacingMeters, accuracyMeters, jitterMeters float64, start time.Time, interval time.Duration) []guidance.Fix {
	if geom == nil || geom.Len() == 0 || spacingMeters <= 0 {
		return nil
	}

	points := geom.Points()
	fixes := []guidance.Fix{{Point: jittered(points[0], jitterMeters), AccuracyMeters: accuracyMeters, Time: start}}

	at := start
	for i := 1; i < len(points); i++ {
		segment := geo.Distance(points[i-1], points[i])
		steps := int(segment / spacingMeters)
		for s := 1; s <= steps; s++ {
			at = at.Add(interval)
			fixes = append(fixes, guidance.Fix{
				Point:          jittered(geo.Interpolate(points[i-1], points[i], float64(s)/float64(steps+1)), jitterMeters),
				AccuracyMeters: accuracyMeters,
				Time:           at,
			})
		}
		at = at.Add(interval)
		fixes = append(fixes, guidance.Fix{
			Point:          jittered(points[i], jitterMeters),
			AccuracyMeters: accuracyMeters,
			Time:           at,
		})
	}
	return fixes
}

func jittered(p geo.Point, jitterMeters float64) geo.Point {
	if jitterMeters <= 0 {
		return p
	}
	return geo.Offset(p, rand.Float64()*jitterMeters, rand.Float64()*360)
}
