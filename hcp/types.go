package hcp

import (
	"context"
	"math"

	"go.viam.com/hcplanner/spatial"
)

// HSignature is the complex-valued topological invariant computed by
// ComputeHSignature. Two signatures are equivalent, not strictly equal:
// equality is judged coordinate-wise against a threshold, and that
// relation is not transitive (see Equivalent).
type HSignature complex128

// Equivalent reports whether h and other differ by at most tau in both
// the real and imaginary parts. This relation is intentionally not
// transitive: it is evaluated pairwise against live pool members, never
// folded into a hash or union-find structure (see the candidate pool).
func (h HSignature) Equivalent(other HSignature, tau float64) bool {
	return math.Abs(real(complex128(h))-real(complex128(other))) <= tau &&
		math.Abs(imag(complex128(h))-imag(complex128(other))) <= tau
}

// TEB is the external trajectory-candidate collaborator. Its nonlinear
// optimization, elastic-band representation, and cost model are out of
// scope here; HCP only depends on this contract.
type TEB interface {
	// Poses returns the TEB's ordered sequence of poses.
	Poses() []spatial.PoseSE2

	// UpdateAndPrune re-anchors the TEB's boundary conditions. A nil
	// start or goal leaves that end unchanged.
	UpdateAndPrune(start, goal *spatial.PoseSE2, goalVel *spatial.Velocity2)

	// SetStartVelocity sets the TEB's initial velocity boundary condition.
	SetStartVelocity(v spatial.Velocity2)

	// Optimize runs innerIters inner and outerIters outer optimization
	// rounds, optionally recomputing cost.
	Optimize(ctx context.Context, innerIters, outerIters int, computeCost bool) error

	// CurrentCost returns the per-objective cost vector; callers sum it.
	CurrentCost() []float64

	// DetectDetoursBackwards reports whether any segment of the TEB
	// points more than cosThreshold away from the nominal start-to-goal
	// direction.
	DetectDetoursBackwards(cosThreshold float64) bool

	// ClosestPoseIndexTo returns the index of the pose nearest p.
	ClosestPoseIndexTo(p spatial.Point2) int

	// VelocityCommand returns the first control action of the TEB.
	VelocityCommand() spatial.Velocity2
}

// TEBFactory builds a new TEB seeded from an ordered polyline with fixed
// boundary orientations, as the path enumerator does on discovering a
// novel homotopy class.
type TEBFactory func(points []spatial.PoseSE2, thetaStart, thetaGoal float64) (TEB, error)

// CostmapModel is the external footprint-cost collaborator used by
// IsTrajectoryFeasible. A negative cost means collision.
type CostmapModel interface {
	FootprintCost(x, y, theta float64, footprint Footprint, rIn, rOut float64) float64
}

// Footprint is an opaque robot footprint description, owned by the
// CostmapModel implementation.
type Footprint interface{}

// Visualizer is the optional visualization sink. A nil Visualizer is
// always safe to attach; Planner guards every publish call with a nil
// check, the way the source planner guards every publish call with
// `if (visualization_)`, and publishes the graph only when the
// visualize_hc_graph config flag is also set.
type Visualizer interface {
	PublishGraph(g *ExplorationGraph)
	PublishTebContainer(p *Pool)
	PublishLocalPlanAndPoses(t TEB)
}
