// Package config holds the tunable parameters of a guidance session.
// Thresholds and debounce windows vary by fleet, receiver quality, and
// market, so they live in configuration rather than code.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/haulnav/guidance/internal/lib/guidance"
)

// Config is the complete application configuration.
type Config struct {
	Guidance GuidanceConfig `yaml:"guidance"`
	Announce AnnounceConfig `yaml:"announce"`
	Replay   ReplayConfig   `yaml:"replay"`
	Cache    CacheConfig    `yaml:"cache"`
}

// GuidanceConfig tunes the location-matching engine.
type GuidanceConfig struct {
	OffRouteThresholdMeters  float64 `yaml:"off_route_threshold_meters" validate:"gte=0"`
	RerouteMinFixes          int     `yaml:"reroute_min_fixes" validate:"gte=0"`
	RerouteMinDurationSecs   float64 `yaml:"reroute_min_duration_seconds" validate:"gte=0"`
	BackwardSearchWindow     int     `yaml:"backward_search_window" validate:"gte=0"`
	BackwardCorrectionFactor float64 `yaml:"backward_correction_factor" validate:"gte=0"`
	AccuracyCeilingMeters    float64 `yaml:"accuracy_ceiling_meters" validate:"gte=0"`
}

// AnnounceConfig tunes the announcement debouncer.
type AnnounceConfig struct {
	HighwayMode   bool      `yaml:"highway_mode"`
	HighwayLadder []float64 `yaml:"highway_ladder" validate:"omitempty,dive,gt=0"`
	CityLadder    []float64 `yaml:"city_ladder" validate:"omitempty,dive,gt=0"`
}

// ReplayConfig tunes the fix replay source used by the simulator.
type ReplayConfig struct {
	FixesPerSecond        float64 `yaml:"fixes_per_second" validate:"gte=0"`
	MaxFixAgeSecs         float64 `yaml:"max_fix_age_seconds" validate:"gte=0"`
	AccuracyCeilingMeters float64 `yaml:"accuracy_ceiling_meters" validate:"gte=0"`
}

// CacheConfig tunes the session route cache.
type CacheConfig struct {
	RouteTTLSecs float64 `yaml:"route_ttl_seconds" validate:"gte=0"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	engine := guidance.DefaultConfig()
	return Config{
		Guidance: GuidanceConfig{
			OffRouteThresholdMeters:  engine.OffRouteThresholdMeters,
			RerouteMinFixes:          engine.RerouteMinFixes,
			RerouteMinDurationSecs:   engine.RerouteMinDuration.Seconds(),
			BackwardSearchWindow:     engine.BackwardSearchWindow,
			BackwardCorrectionFactor: engine.BackwardCorrectionFactor,
			AccuracyCeilingMeters:    engine.AccuracyCeilingMeters,
		},
		Announce: AnnounceConfig{},
		Replay: ReplayConfig{
			FixesPerSecond:        1,
			MaxFixAgeSecs:         30,
			AccuracyCeilingMeters: 200,
		},
		Cache: CacheConfig{
			RouteTTLSecs: 1800,
		},
	}
}

// Load reads and validates the YAML configuration at path, applied on top
// of defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// EngineConfig converts the guidance section into the engine's parameter
// struct.
func (c GuidanceConfig) EngineConfig() guidance.Config {
	return guidance.Config{
		OffRouteThresholdMeters:  c.OffRouteThresholdMeters,
		RerouteMinFixes:          c.RerouteMinFixes,
		RerouteMinDuration:       time.Duration(c.RerouteMinDurationSecs * float64(time.Second)),
		BackwardSearchWindow:     c.BackwardSearchWindow,
		BackwardCorrectionFactor: c.BackwardCorrectionFactor,
		AccuracyCeilingMeters:    c.AccuracyCeilingMeters,
	}
}

// RouteTTL returns the cache TTL as a duration.
func (c CacheConfig) RouteTTL() time.Duration {
	return time.Duration(c.RouteTTLSecs * float64(time.Second))
}

// MaxFixAge returns the replay staleness window as a duration.
func (c ReplayConfig) MaxFixAge() time.Duration {
	return time.Duration(c.MaxFixAgeSecs * float64(time.Second))
}
