package hcp

import (
	"context"
	"math/rand"

	"github.com/pkg/errors"
	"go.opencensus.io/trace"

	"go.viam.com/hcplanner/internal/logging"
	"go.viam.com/hcplanner/spatial"
)

// Planner is the homotopy-class planning orchestrator: per cycle it
// refreshes existing TEBs, explores newly reachable homotopy classes,
// optimizes the candidate pool, and elects the best survivor. It owns the
// pool; the pool owns TEBs; TEBs own their own elastic-band data.
// Obstacles are borrowed, read-only for the duration of a cycle.
type Planner struct {
	cfg        *Config
	obstacles  []spatial.Obstacle
	pool       *Pool
	driver     *OptimizerDriver
	tebFactory TEBFactory
	visualizer Visualizer
	logger     logging.Logger
	rng        *rand.Rand
	stillOk    func() bool

	initialized bool
}

// NewPlanner constructs a Planner. Call Initialize before the first Plan.
func NewPlanner(cfg *Config, obstacles []spatial.Obstacle, tebFactory TEBFactory, logger logging.Logger) *Planner {
	return &Planner{
		cfg:        cfg,
		obstacles:  obstacles,
		pool:       NewPool(cfg, logger),
		driver:     NewOptimizerDriver(cfg),
		tebFactory: tebFactory,
		logger:     logger,
		rng:        rand.New(rand.NewSource(1)),
		stillOk:    func() bool { return true },
	}
}

// Initialize marks the planner ready to plan. Calling Plan beforehand is
// a fatal precondition violation (ErrNotInitialized).
func (pl *Planner) Initialize() {
	pl.initialized = true
}

// SetVisualization attaches an optional visualization sink. A nil
// Visualizer is always safe; HCP only calls through it when it is
// non-nil, and publishes the exploration graph only when the
// visualize_hc_graph config flag is also set.
func (pl *Planner) SetVisualization(v Visualizer) {
	pl.visualizer = v
}

// SetCancellationSignal installs the cooperative stillOk predicate the
// roadmap sampler polls to avoid livelock in over-cluttered scenes.
func (pl *Planner) SetCancellationSignal(stillOk func() bool) {
	if stillOk != nil {
		pl.stillOk = stillOk
	}
}

// SetRandomSource overrides the roadmap sampler's random source, mainly
// for deterministic tests.
func (pl *Planner) SetRandomSource(rng *rand.Rand) {
	pl.rng = rng
}

// Pool exposes the underlying candidate pool, mainly for visualization
// and tests.
func (pl *Planner) Pool() *Pool { return pl.pool }

// Plan runs one planning cycle: refresh existing TEBs, explore new
// homotopy classes, optimize the pool, select the best candidate, and
// prune any detours that slipped through. freeGoalVel, when true, leaves
// the goal velocity boundary condition unconstrained instead of forcing
// it to zero (see SPEC_FULL.md §12).
func (pl *Planner) Plan(ctx context.Context, start, goal spatial.PoseSE2, startVel spatial.Velocity2, freeGoalVel bool) error {
	if !pl.initialized {
		return ErrNotInitialized
	}

	ctx, span := trace.StartSpan(ctx, "hcp.Plan")
	defer span.End()

	var goalVel *spatial.Velocity2
	if freeGoalVel {
		goalVel = &spatial.Velocity2{}
	}
	pl.pool.UpdateAll(&start, &goal, goalVel, &startVel)
	pl.pool.RenewAndAnalyze(pl.obstacles, false)

	eg, err := pl.buildGraph(ctx, start, goal)
	if err != nil {
		return errors.Wrap(err, "building exploration graph")
	}

	if eg.NumVertices() == 0 {
		logEmptyGraph(pl.logger, goal.Position().Sub(start.Position()).Norm(), pl.cfg.XYGoalTolerance)
	}

	if pl.visualizer != nil && pl.cfg.VisualizeHCGraph {
		pl.visualizer.PublishGraph(eg)
	}

	if err := enumerateAndSpawn(eg, pl.obstacles, pl.cfg.HSignaturePrescaler, pl.cfg.MaxNumberClasses, pl.pool, pl.tebFactory, start, goal); err != nil {
		return errors.Wrap(err, "enumerating homotopy classes")
	}

	if err := pl.driver.OptimizeAll(ctx, pl.pool, pl.cfg.NoInnerIterations, pl.cfg.NoOuterIterations); err != nil {
		pl.logger.Warnw("optimizer reported errors after join", "err", err)
	}

	pl.pool.SelectBest()
	pl.pool.PruneDetours(0.0)

	if pl.visualizer != nil {
		pl.visualizer.PublishTebContainer(pl.pool)
	}

	return nil
}

func (pl *Planner) buildGraph(ctx context.Context, start, goal spatial.PoseSE2) (*ExplorationGraph, error) {
	if pl.cfg.SimpleExploration {
		// The source planner derives limitObstHeading from
		// obstacle_heading_threshold != 0 rather than exposing it as an
		// independent config knob; see DESIGN.md.
		return BuildDeterministicGraph(
			start, goal, pl.obstacles, pl.cfg.MinObstacleDist,
			pl.cfg.ObstacleHeadingThreshold, pl.cfg.XYGoalTolerance, pl.cfg.ObstacleHeadingThreshold != 0,
		), nil
	}
	return BuildRoadmapGraph(
		ctx, start, goal, pl.obstacles, pl.cfg.MinObstacleDist,
		pl.cfg.RoadmapGraphNoSamples, pl.cfg.RoadmapGraphAreaWidth,
		pl.cfg.ObstacleHeadingThreshold, pl.cfg.XYGoalTolerance, pl.rng, pl.stillOk,
	)
}

// VelocityCommand returns the first control action of the best TEB, or
// the zero velocity if no best TEB exists.
func (pl *Planner) VelocityCommand() spatial.Velocity2 {
	if teb, ok := pl.pool.Best(); ok {
		return teb.VelocityCommand()
	}
	return spatial.ZeroVelocity2()
}

// IsTrajectoryFeasible checks the best TEB's first lookAhead+1 poses
// against the given costmap, returning false if any pose is reported in
// collision (a negative footprint cost), or if there is no best TEB.
func (pl *Planner) IsTrajectoryFeasible(costmap CostmapModel, footprint Footprint, rIn, rOut float64, lookAhead int) bool {
	teb, ok := pl.pool.Best()
	if !ok {
		return false
	}
	poses := teb.Poses()
	n := lookAhead + 1
	if n > len(poses) {
		n = len(poses)
	}
	for i := 0; i < n; i++ {
		p := poses[i]
		if costmap.FootprintCost(p.X(), p.Y(), p.Theta(), footprint, rIn, rOut) < 0 {
			return false
		}
	}
	return true
}
