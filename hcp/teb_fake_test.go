package hcp

import (
	"context"
	"math"

	"go.viam.com/hcplanner/spatial"
)

// fakeTEB is a minimal stand-in for the real TebOptimalPlanner collaborator,
// used across this package's tests. It stores its poses verbatim and never
// actually deforms them; "optimization" here is a no-op that only exists to
// exercise the driver's fan-out contract.
type fakeTEB struct {
	poses    []spatial.PoseSE2
	cost     []float64
	detour   bool
	startVel spatial.Velocity2
	optimizeErr error
	optimized   int
}

func newFakeTEB(poses []spatial.PoseSE2, cost float64) *fakeTEB {
	return &fakeTEB{poses: poses, cost: []float64{cost}}
}

func (t *fakeTEB) Poses() []spatial.PoseSE2 { return t.poses }

func (t *fakeTEB) UpdateAndPrune(start, goal *spatial.PoseSE2, goalVel *spatial.Velocity2) {
	if len(t.poses) == 0 {
		return
	}
	if start != nil {
		t.poses[0] = *start
	}
	if goal != nil {
		t.poses[len(t.poses)-1] = *goal
	}
}

func (t *fakeTEB) SetStartVelocity(v spatial.Velocity2) { t.startVel = v }

func (t *fakeTEB) Optimize(ctx context.Context, innerIters, outerIters int, computeCost bool) error {
	t.optimized++
	return t.optimizeErr
}

func (t *fakeTEB) CurrentCost() []float64 { return t.cost }

func (t *fakeTEB) DetectDetoursBackwards(cosThreshold float64) bool { return t.detour }

func (t *fakeTEB) ClosestPoseIndexTo(p spatial.Point2) int {
	best := 0
	bestDist := math.Inf(1)
	for i, pose := range t.poses {
		d := pose.Position().Sub(p).Norm()
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

func (t *fakeTEB) VelocityCommand() spatial.Velocity2 { return spatial.Velocity2{Linear: 1} }

// fakeTEBFactory builds a TEBFactory that produces fakeTEBs whose cost is
// the polyline's total Euclidean length, so distinct routes naturally get
// distinct costs in tests.
func fakeTEBFactory() TEBFactory {
	return func(points []spatial.PoseSE2, thetaStart, thetaGoal float64) (TEB, error) {
		var length float64
		for i := 1; i < len(points); i++ {
			length += points[i].Position().Sub(points[i-1].Position()).Norm()
		}
		return newFakeTEB(points, length), nil
	}
}
