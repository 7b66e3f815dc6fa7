// Package config holds the solver tunables. The defaults reproduce the
// empirically tuned constants the engine was calibrated with; their scale
// assumes distance matrices in meters.
package config

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"
)

type Config struct {
	// UnassignedPenalty is the objective cost of leaving one stop unserved.
	// It must dominate plausible route-distance costs so a stop is dropped
	// only when no feasible insertion exists.
	UnassignedPenalty int64 `yaml:"unassigned_penalty"`
	// SpanCostCoefficient weights the spread (max minus min route distance)
	// added to the objective when load balancing is requested.
	SpanCostCoefficient int64 `yaml:"span_cost_coefficient"`
	// AvgSpeedKmh converts the distance matrix into travel times.
	AvgSpeedKmh float64 `yaml:"avg_speed_kmh"`
	// MaxSolveTimeSeconds bounds one solve's wall clock. Recommended 10-600.
	MaxSolveTimeSeconds int `yaml:"max_solve_time_seconds"`
	// TimeSlackMinutes is the waiting allowed before a time window opens.
	TimeSlackMinutes int64 `yaml:"time_slack_minutes"`
	// MaxRouteTimeMinutes caps one vehicle's cumulative time dimension.
	MaxRouteTimeMinutes int64 `yaml:"max_route_time_minutes"`
	// MaxRouteDistanceMeters caps one vehicle's cumulative distance.
	MaxRouteDistanceMeters int64 `yaml:"max_route_distance_meters"`
}

// Default returns the tuned defaults.
func Default() Config {
	return Config{
		UnassignedPenalty:      100000,
		SpanCostCoefficient:    100,
		AvgSpeedKmh:            30,
		MaxSolveTimeSeconds:    30,
		TimeSlackMinutes:       30,
		MaxRouteTimeMinutes:    1440,
		MaxRouteDistanceMeters: 100_000_000,
	}
}

// Load overlays a YAML file on the defaults. Unset fields keep their default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.UnassignedPenalty <= 0 {
		return fmt.Errorf("unassigned_penalty must be positive, got %d", c.UnassignedPenalty)
	}
	if c.SpanCostCoefficient < 0 {
		return fmt.Errorf("span_cost_coefficient must be non-negative, got %d", c.SpanCostCoefficient)
	}
	if c.AvgSpeedKmh <= 0 {
		return fmt.Errorf("avg_speed_kmh must be positive, got %v", c.AvgSpeedKmh)
	}
	if c.MaxSolveTimeSeconds <= 0 {
		return fmt.Errorf("max_solve_time_seconds must be positive, got %d", c.MaxSolveTimeSeconds)
	}
	return nil
}
