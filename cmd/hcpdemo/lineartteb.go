package main

import (
	"context"
	"math"

	"go.viam.com/hcplanner/hcp"
	"go.viam.com/hcplanner/spatial"
)

// linearTEB is a demonstration TEB: it keeps the polyline it is seeded with
// as its poses and reports cost as the polyline's arc length. It
// exists only to exercise the planner end-to-end from the command line; a
// deployment wires in a real elastic-band optimizer instead.
type linearTEB struct {
	poses    []spatial.PoseSE2
	cost     float64
	startVel spatial.Velocity2
}

func newLinearTEB(points []spatial.PoseSE2, thetaStart, thetaGoal float64) (hcp.TEB, error) {
	t := &linearTEB{poses: points}
	t.recomputeCost()
	return t, nil
}

func (t *linearTEB) Poses() []spatial.PoseSE2 { return t.poses }

func (t *linearTEB) UpdateAndPrune(start, goal *spatial.PoseSE2, goalVel *spatial.Velocity2) {
	if len(t.poses) == 0 {
		return
	}
	if start != nil {
		t.poses[0] = *start
	}
	if goal != nil {
		t.poses[len(t.poses)-1] = *goal
	}
	t.recomputeCost()
}

func (t *linearTEB) SetStartVelocity(v spatial.Velocity2) { t.startVel = v }

// Optimize is a no-op beyond recomputing cost: linearTEB never deforms its
// poses off the straight line between consecutive boundary points.
func (t *linearTEB) Optimize(ctx context.Context, innerIters, outerIters int, computeCost bool) error {
	if computeCost {
		t.recomputeCost()
	}
	return nil
}

func (t *linearTEB) CurrentCost() []float64 { return []float64{t.cost} }

func (t *linearTEB) DetectDetoursBackwards(cosThreshold float64) bool {
	if len(t.poses) < 3 {
		return false
	}
	start := t.poses[0].Position()
	goal := t.poses[len(t.poses)-1].Position()
	dHat := goal.Sub(start)
	norm := dHat.Norm()
	if norm == 0 {
		return false
	}
	dHat = dHat.Mul(1 / norm)
	for i := 1; i < len(t.poses); i++ {
		step := t.poses[i].Position().Sub(t.poses[i-1].Position())
		stepNorm := step.Norm()
		if stepNorm == 0 {
			continue
		}
		if step.Mul(1/stepNorm).Dot(dHat) < cosThreshold {
			return true
		}
	}
	return false
}

func (t *linearTEB) ClosestPoseIndexTo(p spatial.Point2) int {
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

func (t *linearTEB) VelocityCommand() spatial.Velocity2 {
	if len(t.poses) < 2 {
		return spatial.ZeroVelocity2()
	}
	step := t.poses[1].Position().Sub(t.poses[0].Position())
	return spatial.Velocity2{Linear: step.Norm(), Angular: t.poses[1].Theta() - t.poses[0].Theta()}
}

func (t *linearTEB) recomputeCost() {
	var length float64
	for i := 1; i < len(t.poses); i++ {
		length += t.poses[i].Position().Sub(t.poses[i-1].Position()).Norm()
	}
	t.cost = length
}
