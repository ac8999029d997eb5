package hcp

import (
	"testing"

	"go.viam.com/test"

	"go.viam.com/hcplanner/internal/logging"
	"go.viam.com/hcplanner/spatial"
)

// TestEnumerateAndSpawnRespectsClassCap is end-to-end scenario 5: five
// obstacles producing at least five topological classes, capped at
// max_number_classes = 2.
func TestEnumerateAndSpawnRespectsClassCap(t *testing.T) {
	start := spatial.NewPoseSE2(0, 0, 0)
	goal := spatial.NewPoseSE2(10, 0, 0)

	var obstacles []spatial.Obstacle
	for i := 0; i < 5; i++ {
		obstacles = append(obstacles, spatial.NewCircleObstacle(float64(2+2*i), 0, 0.3))
	}

	eg := BuildDeterministicGraph(start, goal, obstacles, 0.5, 0.45, 0.1, false)

	cfg := testConfig()
	cfg.MaxNumberClasses = 2
	pool := NewPool(cfg, logging.NewTestLogger(t))

	err := enumerateAndSpawn(eg, obstacles, cfg.HSignaturePrescaler, cfg.MaxNumberClasses, pool, fakeTEBFactory(), start, goal)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pool.Len() <= cfg.MaxNumberClasses, test.ShouldBeTrue)
}

// TestEnumerateAndSpawnEmptyGraphNoOp verifies enumeration is a no-op on
// an empty exploration graph (start/goal within tolerance).
func TestEnumerateAndSpawnEmptyGraphNoOp(t *testing.T) {
	start := spatial.NewPoseSE2(0, 0, 0)
	goal := spatial.NewPoseSE2(0.01, 0, 0)

	eg := BuildDeterministicGraph(start, goal, nil, 0.5, 0.45, 0.1, false)

	cfg := testConfig()
	pool := NewPool(cfg, logging.NewTestLogger(t))

	err := enumerateAndSpawn(eg, nil, cfg.HSignaturePrescaler, cfg.MaxNumberClasses, pool, fakeTEBFactory(), start, goal)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pool.Len(), test.ShouldEqual, 0)
}

// TestEnumerateAndSpawnStraightCorridorProducesOneTEB is end-to-end
// scenario 1.
func TestEnumerateAndSpawnStraightCorridorProducesOneTEB(t *testing.T) {
	start := spatial.NewPoseSE2(0, 0, 0)
	goal := spatial.NewPoseSE2(10, 0, 0)

	eg := BuildDeterministicGraph(start, goal, nil, 0.5, 0.45, 0.1, false)

	cfg := testConfig()
	pool := NewPool(cfg, logging.NewTestLogger(t))

	err := enumerateAndSpawn(eg, nil, cfg.HSignaturePrescaler, cfg.MaxNumberClasses, pool, fakeTEBFactory(), start, goal)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pool.Len(), test.ShouldEqual, 1)
}

// TestEnumerateAndSpawnSingleObstacleProducesTwoClasses is end-to-end
// scenario 2: two TEBs with signatures differing by more than tau.
func TestEnumerateAndSpawnSingleObstacleProducesTwoClasses(t *testing.T) {
	start := spatial.NewPoseSE2(0, 0, 0)
	goal := spatial.NewPoseSE2(10, 0, 0)
	obstacles := []spatial.Obstacle{spatial.NewCircleObstacle(5, 0, 0.3)}

	eg := BuildDeterministicGraph(start, goal, obstacles, 0.5, 0.45, 0.1, false)

	cfg := testConfig()
	cfg.MaxNumberClasses = 5
	pool := NewPool(cfg, logging.NewTestLogger(t))

	err := enumerateAndSpawn(eg, obstacles, cfg.HSignaturePrescaler, cfg.MaxNumberClasses, pool, fakeTEBFactory(), start, goal)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pool.Len(), test.ShouldEqual, 2)
}
