// Package spatial provides the minimal 2D rigid-body types the homotopy
// class planner operates on: points, poses, and planar velocities.
package spatial

import (
	"math"

	"github.com/golang/geo/r2"
)

// Point2 is a 2D workspace point. It is an alias for r2.Point so that
// callers can use golang/geo's vector arithmetic (Add, Sub, Mul, Dot,
// Cross, Norm, Ortho) directly.
type Point2 = r2.Point

// PoseSE2 is a rigid 2D pose: a position and an orientation in (-pi, pi].
// It is an immutable value type.
type PoseSE2 struct {
	pos   Point2
	theta float64
}

// NewPoseSE2 builds a pose, normalizing theta into (-pi, pi].
func NewPoseSE2(x, y, theta float64) PoseSE2 {
	return PoseSE2{pos: Point2{X: x, Y: y}, theta: NormalizeAngle(theta)}
}

// NewPoseSE2FromPoint builds a pose from a position and heading.
func NewPoseSE2FromPoint(p Point2, theta float64) PoseSE2 {
	return PoseSE2{pos: p, theta: NormalizeAngle(theta)}
}

// X returns the pose's x coordinate.
func (p PoseSE2) X() float64 { return p.pos.X }

// Y returns the pose's y coordinate.
func (p PoseSE2) Y() float64 { return p.pos.Y }

// Theta returns the pose's orientation in (-pi, pi].
func (p PoseSE2) Theta() float64 { return p.theta }

// Position returns the pose's 2D position.
func (p PoseSE2) Position() Point2 { return p.pos }

// NormalizeAngle wraps theta into (-pi, pi].
func NormalizeAngle(theta float64) float64 {
	theta = math.Mod(theta+math.Pi, 2*math.Pi)
	if theta <= 0 {
		theta += 2 * math.Pi
	}
	return theta - math.Pi
}

// Velocity2 is a planar linear-x / angular-z velocity pair.
type Velocity2 struct {
	Linear  float64
	Angular float64
}

// ZeroVelocity2 is the stopped command, returned when no active plan exists.
func ZeroVelocity2() Velocity2 { return Velocity2{} }

// HeadingBetween returns the direction of travel from a to b, or zero if
// the two points coincide.
func HeadingBetween(a, b Point2) float64 {
	d := b.Sub(a)
	if d.Norm() == 0 {
		return 0
	}
	return math.Atan2(d.Y, d.X)
}
