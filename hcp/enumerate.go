package hcp

import (
	"go.viam.com/hcplanner/spatial"
)

// enumerateAndSpawn performs the depth-first, two-phase simple-path
// enumeration described in the planner's design: for every out-neighbor
// of the current vertex, a goal hit is registered (phase A) before any
// further descent (phase B), and only one goal hit per parent vertex is
// taken — a deliberate choice preserved from the source algorithm to
// avoid exponentially rediscovering near-duplicate classes that differ
// only by trivial tail loops to the goal.
//
// Enumeration halts as soon as the pool reaches maxClasses.
func enumerateAndSpawn(
	eg *ExplorationGraph,
	obstacles []spatial.Obstacle,
	prescaler float64,
	maxClasses int,
	pool *Pool,
	tebFactory TEBFactory,
	start, goal spatial.PoseSE2,
) error {
	if eg.NumVertices() == 0 {
		return nil
	}

	stack := []int64{eg.StartID()}
	return dfsExplore(eg, eg.StartID(), stack, obstacles, prescaler, maxClasses, pool, tebFactory, start, goal)
}

func dfsExplore(
	eg *ExplorationGraph,
	current int64,
	stack []int64,
	obstacles []spatial.Obstacle,
	prescaler float64,
	maxClasses int,
	pool *Pool,
	tebFactory TEBFactory,
	start, goal spatial.PoseSE2,
) error {
	if pool.Len() >= maxClasses {
		return nil
	}

	neighbors := eg.Neighbors(current)

	// Phase A: one goal hit per parent is enough to represent a class
	// through this node.
	for _, v := range neighbors {
		if containsVertex(stack, v) {
			continue
		}
		if v == eg.GoalID() {
			path := appendVertex(stack, v)
			if err := registerPath(eg, path, obstacles, prescaler, pool, tebFactory, start, goal); err != nil {
				return err
			}
			break
		}
	}

	if pool.Len() >= maxClasses {
		return nil
	}

	// Phase B: descend into every unvisited, non-goal neighbor.
	for _, v := range neighbors {
		if pool.Len() >= maxClasses {
			return nil
		}
		if containsVertex(stack, v) || v == eg.GoalID() {
			continue
		}
		if err := dfsExplore(eg, v, appendVertex(stack, v), obstacles, prescaler, maxClasses, pool, tebFactory, start, goal); err != nil {
			return err
		}
	}
	return nil
}

// registerPath converts a vertex-id path into a polyline, computes its
// H-signature, and - if novel - spawns a new TEB for it.
func registerPath(
	eg *ExplorationGraph,
	path []int64,
	obstacles []spatial.Obstacle,
	prescaler float64,
	pool *Pool,
	tebFactory TEBFactory,
	start, goal spatial.PoseSE2,
) error {
	points := make([]spatial.Point2, len(path))
	for i, id := range path {
		points[i] = eg.Position(id)
	}
	h := ComputeHSignature(points, obstacles, prescaler)

	return pool.RegisterAndSpawn(h, func() (TEB, error) {
		poses := make([]spatial.PoseSE2, len(points))
		for i, p := range points {
			theta := start.Theta()
			switch {
			case i == len(points)-1:
				theta = goal.Theta()
			case i > 0:
				theta = spatial.HeadingBetween(points[i-1], points[i])
			}
			poses[i] = spatial.NewPoseSE2FromPoint(p, theta)
		}
		return tebFactory(poses, start.Theta(), goal.Theta())
	})
}

// appendVertex returns stack with v pushed, copying the backing array so
// sibling recursive calls never alias each other's slices.
func appendVertex(stack []int64, v int64) []int64 {
	next := make([]int64, len(stack)+1)
	copy(next, stack)
	next[len(stack)] = v
	return next
}

func containsVertex(stack []int64, v int64) bool {
	for _, s := range stack {
		if s == v {
			return true
		}
	}
	return false
}
