package hcp

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Config holds the tunables HCP consumes, named after the option table in
// the planner's specification. It round-trips through JSON the same way
// per-call planner overrides do in practice: start from defaults, then
// unmarshal a caller-supplied partial document on top.
type Config struct {
	// MaxNumberClasses upper-bounds the candidate pool size and the path
	// enumerator's cutoff.
	MaxNumberClasses int `json:"max_number_classes"`

	// SimpleExploration selects the deterministic obstacle-keypoint graph
	// builder when true, the probabilistic roadmap builder when false.
	SimpleExploration bool `json:"simple_exploration"`

	// ObstacleHeadingThreshold is the angle, in radians, used to build the
	// cosine thresholds for forward-edge pruning and detour detection. A
	// non-zero value also enables the deterministic graph builder's
	// nearest-obstacle heading restriction (limitObstHeading), mirroring
	// the source planner's `obstacle_heading_threshold != 0` derivation
	// rather than exposing it as an independent knob.
	ObstacleHeadingThreshold float64 `json:"obstacle_heading_threshold"`

	// RoadmapGraphNoSamples is N for the probabilistic roadmap builder.
	RoadmapGraphNoSamples int `json:"roadmap_graph_no_samples"`

	// RoadmapGraphAreaWidth is the width of the roadmap sampling rectangle.
	RoadmapGraphAreaWidth float64 `json:"roadmap_graph_area_width"`

	// HSignaturePrescaler scales workspace coordinates before H-signature
	// integration, to keep magnitudes numerically stable.
	HSignaturePrescaler float64 `json:"h_signature_prescaler"`

	// HSignatureThreshold is tau, the long-term H-signature dedup
	// threshold used by the candidate pool's lookup list.
	HSignatureThreshold float64 `json:"h_signature_threshold"`

	// EnableMultithreading selects the parallel vs. sequential optimizer
	// fan-out.
	EnableMultithreading bool `json:"enable_multithreading"`

	// VisualizeHCGraph, if set and a Visualizer is attached, publishes the
	// exploration graph every cycle.
	VisualizeHCGraph bool `json:"visualize_hc_graph"`

	// XYGoalTolerance is the minimum start-goal distance; below it,
	// planning returns an empty graph and an empty pool.
	XYGoalTolerance float64 `json:"xy_goal_tolerance"`

	// MinObstacleDist is distToObst, the clearance passed to the graph
	// builders.
	MinObstacleDist float64 `json:"min_obstacle_dist"`

	// NoInnerIterations and NoOuterIterations are the per-TEB optimizer
	// iteration counts.
	NoInnerIterations int `json:"no_inner_iterations"`
	NoOuterIterations int `json:"no_outer_iterations"`

	// DegeneracyThreshold is the magic constant from the planner's design
	// notes: a TEB is considered degenerate if its closest pose to some
	// obstacle lies within this distance of that obstacle. Configurable,
	// defaults to 0.03.
	DegeneracyThreshold float64 `json:"degeneracy_threshold"`
}

// NewDefaultConfig returns the documented defaults.
func NewDefaultConfig() *Config {
	return &Config{
		MaxNumberClasses:         5,
		SimpleExploration:        true,
		ObstacleHeadingThreshold: 0.45,
		RoadmapGraphNoSamples:    15,
		RoadmapGraphAreaWidth:    6,
		HSignaturePrescaler:      1.0,
		HSignatureThreshold:      0.1,
		EnableMultithreading:     true,
		VisualizeHCGraph:         false,
		XYGoalTolerance:          0.2,
		MinObstacleDist:          0.5,
		NoInnerIterations:        5,
		NoOuterIterations:        4,
		DegeneracyThreshold:      0.03,
	}
}

// LoadConfigFromExtra starts from NewDefaultConfig and overlays a partial
// JSON-able document (e.g. a caller's "extra" parameters map) on top,
// mirroring how armplanning.NewPlannerOptionsFromExtra layers overrides
// onto defaults.
func LoadConfigFromExtra(extra map[string]interface{}) (*Config, error) {
	cfg := NewDefaultConfig()
	if len(extra) == 0 {
		return cfg, nil
	}

	raw, err := json.Marshal(extra)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling extra config")
	}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling extra config")
	}
	if cfg.MaxNumberClasses <= 0 {
		return nil, errors.New("max_number_classes must be positive")
	}
	return cfg, nil
}
