package spatial

import "math"

// Obstacle is the geometric collaborator the planner queries. Real
// deployments back this with a full collision-geometry library; HCP only
// depends on this narrow contract.
type Obstacle interface {
	// Centroid returns the obstacle's representative center point.
	Centroid() Point2
	// Collides reports whether a disc of radius r centered at p touches
	// the obstacle.
	Collides(p Point2, r float64) bool
	// IntersectsSegment reports whether the segment a-b passes within
	// distance r of the obstacle's centroid.
	IntersectsSegment(a, b Point2, r float64) bool
	// MinDistanceTo returns the minimum distance from p to the obstacle's
	// surface.
	MinDistanceTo(p Point2) float64
}

// CircleObstacle is a minimal circular Obstacle implementation used by
// HCP's own tests and demo. Production obstacle geometry (meshes,
// polygons, swept volumes) lives outside this module's scope.
type CircleObstacle struct {
	Center Point2
	Radius float64
}

// NewCircleObstacle builds a circular obstacle centered at (x, y).
func NewCircleObstacle(x, y, radius float64) *CircleObstacle {
	return &CircleObstacle{Center: Point2{X: x, Y: y}, Radius: radius}
}

// Centroid implements Obstacle.
func (c *CircleObstacle) Centroid() Point2 { return c.Center }

// Collides implements Obstacle.
func (c *CircleObstacle) Collides(p Point2, r float64) bool {
	return p.Sub(c.Center).Norm() <= c.Radius+r
}

// MinDistanceTo implements Obstacle.
func (c *CircleObstacle) MinDistanceTo(p Point2) float64 {
	d := p.Sub(c.Center).Norm() - c.Radius
	if d < 0 {
		return 0
	}
	return d
}

// IntersectsSegment implements Obstacle using the standard point-to-segment
// distance construction, measured from the circle's center; the circle's
// radius is not added to r.
func (c *CircleObstacle) IntersectsSegment(a, b Point2, r float64) bool {
	seg := b.Sub(a)
	segLenSq := seg.Dot(seg)
	thresh := r
	if segLenSq == 0 {
		return a.Sub(c.Center).Norm() <= thresh
	}
	t := c.Center.Sub(a).Dot(seg) / segLenSq
	t = math.Max(0, math.Min(1, t))
	closest := a.Add(seg.Mul(t))
	return closest.Sub(c.Center).Norm() <= thresh
}
