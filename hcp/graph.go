package hcp

import (
	"context"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/graph/simple"

	"go.viam.com/hcplanner/internal/logging"
	"go.viam.com/hcplanner/spatial"
)

// ExplorationGraph is the directed graph of waypoints between start and
// goal that the path enumerator walks. It wraps gonum's simple.DirectedGraph
// for adjacency (the same package rdk's kinematics.Model uses for its
// kinematic tree) and keeps vertex positions in a side map, since gonum
// nodes carry no attributes of their own.
type ExplorationGraph struct {
	g       *simple.DirectedGraph
	pos     map[int64]spatial.Point2
	nextID  int64
	startID int64
	goalID  int64
	hasGoal bool
}

func newExplorationGraph() *ExplorationGraph {
	return &ExplorationGraph{
		g:   simple.NewDirectedGraph(),
		pos: make(map[int64]spatial.Point2),
	}
}

func (eg *ExplorationGraph) addVertex(p spatial.Point2) int64 {
	id := eg.nextID
	eg.nextID++
	eg.g.AddNode(simple.Node(id))
	eg.pos[id] = p
	return id
}

func (eg *ExplorationGraph) addEdge(i, j int64) {
	if eg.g.HasEdgeFromTo(i, j) {
		return
	}
	eg.g.SetEdge(eg.g.NewEdge(simple.Node(i), simple.Node(j)))
}

// Position returns the workspace position of vertex id.
func (eg *ExplorationGraph) Position(id int64) spatial.Point2 { return eg.pos[id] }

// StartID returns the start vertex id.
func (eg *ExplorationGraph) StartID() int64 { return eg.startID }

// GoalID returns the goal vertex id.
func (eg *ExplorationGraph) GoalID() int64 { return eg.goalID }

// NumVertices returns the number of vertices in the graph. A graph built
// for a start/goal pair inside xyGoalTolerance has zero vertices.
func (eg *ExplorationGraph) NumVertices() int {
	if eg.g == nil {
		return 0
	}
	return eg.g.Nodes().Len()
}

// NumEdges returns the number of directed edges in the graph.
func (eg *ExplorationGraph) NumEdges() int {
	if eg.g == nil {
		return 0
	}
	return eg.g.Edges().Len()
}

// Neighbors returns the out-neighbor vertex ids of id. The order follows
// gonum's iterator and is not defined.
func (eg *ExplorationGraph) Neighbors(id int64) []int64 {
	it := eg.g.From(id)
	out := make([]int64, 0, it.Len())
	for it.Next() {
		out = append(out, it.Node().ID())
	}
	return out
}

// keypointOffsets orders the two keypoint ids spawned for a single
// obstacle (c+n, c-n), useful for the redundant-edge-check shortcut noted
// in the planner's design notes.
type keypointOffsets struct {
	plus, minus int64
}

// BuildDeterministicGraph implements the deterministic obstacle-keypoint
// exploration graph strategy (simple_exploration = true): start and goal
// vertices, two keypoints straddling each obstacle the nominal direction
// passes, and forward-only, collision-free edges between them.
func BuildDeterministicGraph(
	start, goal spatial.PoseSE2,
	obstacles []spatial.Obstacle,
	distToObst float64,
	obstacleHeadingThreshold float64,
	xyGoalTolerance float64,
	limitObstHeading bool,
) *ExplorationGraph {
	eg := newExplorationGraph()

	diff := goal.Position().Sub(start.Position())
	norm := diff.Norm()
	if norm < xyGoalTolerance {
		return eg
	}
	dHat := diff.Mul(1 / norm)
	normalUnit := diff.Ortho().Mul(1 / norm)
	nHat := normalUnit.Mul(distToObst)

	eg.startID = eg.addVertex(start.Position())

	nearestDist := math.Inf(1)
	var nearest keypointOffsets

	for _, obs := range obstacles {
		c := obs.Centroid()
		rel := c.Sub(start.Position())
		relNorm := rel.Norm()
		if rel.Dot(dHat) < 0.1*relNorm {
			// Obstacle is behind or lateral to the start direction; skip it.
			continue
		}
		plus := eg.addVertex(c.Add(nHat))
		minus := eg.addVertex(c.Sub(nHat))
		if relNorm < nearestDist {
			nearestDist = relNorm
			nearest = keypointOffsets{plus: plus, minus: minus}
		}
	}

	eg.goalID = eg.addVertex(goal.Position())
	eg.hasGoal = true

	cosThreshold := math.Cos(obstacleHeadingThreshold)
	startHeading := spatial.Point2{X: math.Cos(start.Theta()), Y: math.Sin(start.Theta())}

	for i := int64(0); i < eg.nextID; i++ {
		if i == eg.goalID {
			continue
		}
		for j := int64(0); j < eg.nextID; j++ {
			if i == j {
				continue
			}
			posI, posJ := eg.pos[i], eg.pos[j]
			seg := posJ.Sub(posI)
			segNorm := seg.Norm()
			if segNorm == 0 {
				continue
			}
			dij := seg.Mul(1 / segNorm)
			if dij.Dot(dHat) <= cosThreshold {
				continue
			}
			if limitObstHeading && i == eg.startID && (j == nearest.plus || j == nearest.minus) {
				if startHeading.Dot(dij) <= cosThreshold {
					continue
				}
			}
			blocked := false
			for _, obs := range obstacles {
				if obs.IntersectsSegment(posI, posJ, 0.5*distToObst) {
					blocked = true
					break
				}
			}
			if blocked {
				continue
			}
			eg.addEdge(i, j)
		}
	}

	return eg
}

// BuildRoadmapGraph implements the probabilistic roadmap exploration
// graph strategy (simple_exploration = false): N collision-free samples
// inside a rotated rectangle aligned with the start-to-goal direction,
// connected with the same forward-only edge rules (without the
// nearest-obstacle heading limit).
//
// stillOk is polled inside the resample loop so an over-cluttered scene
// can be cancelled rather than livelocking.
func BuildRoadmapGraph(
	ctx context.Context,
	start, goal spatial.PoseSE2,
	obstacles []spatial.Obstacle,
	distToObst float64,
	numSamples int,
	areaWidth float64,
	obstacleHeadingThreshold float64,
	xyGoalTolerance float64,
	rng *rand.Rand,
	stillOk func() bool,
) (*ExplorationGraph, error) {
	eg := newExplorationGraph()

	diff := goal.Position().Sub(start.Position())
	norm := diff.Norm()
	if norm < xyGoalTolerance {
		return eg, nil
	}
	dHat := diff.Mul(1 / norm)
	normalUnit := diff.Ortho().Mul(1 / norm)
	anchor := start.Position().Sub(normalUnit.Mul(0.5 * areaWidth))

	eg.startID = eg.addVertex(start.Position())

	for i := 0; i < numSamples; i++ {
		for {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if stillOk != nil && !stillOk() {
				return nil, ErrCancelled
			}
			u := rng.Float64() * norm
			v := rng.Float64() * areaWidth
			p := anchor.Add(dHat.Mul(u)).Add(normalUnit.Mul(v))

			collision := false
			for _, obs := range obstacles {
				if obs.Collides(p, distToObst) {
					collision = true
					break
				}
			}
			if !collision {
				eg.addVertex(p)
				break
			}
		}
	}

	eg.goalID = eg.addVertex(goal.Position())
	eg.hasGoal = true

	cosThreshold := math.Cos(obstacleHeadingThreshold)
	for i := int64(0); i < eg.nextID; i++ {
		if i == eg.goalID {
			continue
		}
		for j := int64(0); j < eg.nextID; j++ {
			if i == j {
				continue
			}
			posI, posJ := eg.pos[i], eg.pos[j]
			seg := posJ.Sub(posI)
			segNorm := seg.Norm()
			if segNorm == 0 {
				continue
			}
			dij := seg.Mul(1 / segNorm)
			if dij.Dot(dHat) <= cosThreshold {
				continue
			}
			blocked := false
			for _, obs := range obstacles {
				if obs.IntersectsSegment(posI, posJ, 0.5*distToObst) {
					blocked = true
					break
				}
			}
			if blocked {
				continue
			}
			eg.addEdge(i, j)
		}
	}

	return eg, nil
}

// logEmptyGraph is a small helper the planner uses to report a
// below-tolerance start/goal pair at debug level.
func logEmptyGraph(logger logging.Logger, norm, tolerance float64) {
	logger.Debugw("start/goal within tolerance, returning empty exploration graph",
		"distance", norm, "xy_goal_tolerance", tolerance)
}
