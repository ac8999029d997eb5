package hcp

import (
	"context"
	"testing"

	"go.viam.com/test"

	"go.viam.com/hcplanner/internal/logging"
	"go.viam.com/hcplanner/spatial"
)

func newTestPlanner(t *testing.T, cfg *Config, obstacles []spatial.Obstacle) *Planner {
	pl := NewPlanner(cfg, obstacles, fakeTEBFactory(), logging.NewTestLogger(t))
	pl.Initialize()
	return pl
}

// TestPlanBeforeInitializeFails verifies the precondition guard.
func TestPlanBeforeInitializeFails(t *testing.T) {
	cfg := testConfig()
	pl := NewPlanner(cfg, nil, fakeTEBFactory(), logging.NewTestLogger(t))
	err := pl.Plan(context.Background(), spatial.NewPoseSE2(0, 0, 0), spatial.NewPoseSE2(1, 0, 0), spatial.ZeroVelocity2(), false)
	test.That(t, err, test.ShouldEqual, ErrNotInitialized)
}

// TestPlanStraightCorridorProducesOneTEB is end-to-end scenario 1.
func TestPlanStraightCorridorProducesOneTEB(t *testing.T) {
	cfg := testConfig()
	cfg.SimpleExploration = true
	pl := newTestPlanner(t, cfg, nil)

	start := spatial.NewPoseSE2(0, 0, 0)
	goal := spatial.NewPoseSE2(10, 0, 0)
	err := pl.Plan(context.Background(), start, goal, spatial.ZeroVelocity2(), false)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pl.Pool().Len(), test.ShouldEqual, 1)

	v := pl.VelocityCommand()
	test.That(t, v.Linear, test.ShouldEqual, 1.0)
}

// TestPlanSingleObstacleProducesTwoClasses is end-to-end scenario 2.
func TestPlanSingleObstacleProducesTwoClasses(t *testing.T) {
	cfg := testConfig()
	cfg.SimpleExploration = true
	cfg.MaxNumberClasses = 5
	obstacles := []spatial.Obstacle{spatial.NewCircleObstacle(5, 0, 0.3)}
	pl := newTestPlanner(t, cfg, obstacles)

	start := spatial.NewPoseSE2(0, 0, 0)
	goal := spatial.NewPoseSE2(10, 0, 0)
	err := pl.Plan(context.Background(), start, goal, spatial.ZeroVelocity2(), false)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pl.Pool().Len(), test.ShouldEqual, 2)
}

// TestPlanGoalWithinToleranceProducesNoCandidates is end-to-end scenario 3:
// an already-reached goal leaves the pool empty and VelocityCommand zero.
func TestPlanGoalWithinToleranceProducesNoCandidates(t *testing.T) {
	cfg := testConfig()
	cfg.SimpleExploration = true
	pl := newTestPlanner(t, cfg, nil)

	start := spatial.NewPoseSE2(0, 0, 0)
	goal := spatial.NewPoseSE2(0.01, 0, 0)
	err := pl.Plan(context.Background(), start, goal, spatial.ZeroVelocity2(), false)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pl.Pool().Len(), test.ShouldEqual, 0)

	v := pl.VelocityCommand()
	test.That(t, v, test.ShouldResemble, spatial.ZeroVelocity2())
}

// TestPlanRespectsMaxNumberClasses is end-to-end scenario 5.
func TestPlanRespectsMaxNumberClasses(t *testing.T) {
	cfg := testConfig()
	cfg.SimpleExploration = true
	cfg.MaxNumberClasses = 2
	var obstacles []spatial.Obstacle
	for i := 0; i < 5; i++ {
		obstacles = append(obstacles, spatial.NewCircleObstacle(float64(2+2*i), 0, 0.3))
	}
	pl := newTestPlanner(t, cfg, obstacles)

	start := spatial.NewPoseSE2(0, 0, 0)
	goal := spatial.NewPoseSE2(10, 0, 0)
	err := pl.Plan(context.Background(), start, goal, spatial.ZeroVelocity2(), false)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pl.Pool().Len() <= cfg.MaxNumberClasses, test.ShouldBeTrue)
}

type fakeCostmap struct {
	blockedX float64
}

func (c *fakeCostmap) FootprintCost(x, y, theta float64, footprint Footprint, rIn, rOut float64) float64 {
	if x >= c.blockedX {
		return -1
	}
	return 1
}

// TestIsTrajectoryFeasibleDetectsCollision verifies IsTrajectoryFeasible
// reports infeasible once a lookahead pose crosses into a costmap's
// negative-cost region, and that it is vacuously false with no best TEB.
func TestIsTrajectoryFeasibleDetectsCollision(t *testing.T) {
	cfg := testConfig()
	cfg.SimpleExploration = true
	pl := newTestPlanner(t, cfg, nil)

	test.That(t, pl.IsTrajectoryFeasible(&fakeCostmap{blockedX: 100}, nil, 0.3, 0.3, 5), test.ShouldBeFalse)

	start := spatial.NewPoseSE2(0, 0, 0)
	goal := spatial.NewPoseSE2(10, 0, 0)
	err := pl.Plan(context.Background(), start, goal, spatial.ZeroVelocity2(), false)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, pl.IsTrajectoryFeasible(&fakeCostmap{blockedX: 100}, nil, 0.3, 0.3, 1), test.ShouldBeTrue)
	test.That(t, pl.IsTrajectoryFeasible(&fakeCostmap{blockedX: -1}, nil, 0.3, 0.3, 1), test.ShouldBeFalse)
}
