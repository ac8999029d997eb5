package hcp

import (
	"math/cmplx"

	"go.viam.com/hcplanner/spatial"
)

// perturbEpsilon nudges a near-zero denominator away from the branch
// point rather than failing when an obstacle centroid coincides with a
// path vertex.
const perturbEpsilon = 1e-9

// zeroThreshold below which a (z - obstacle) term is treated as coincident.
const zeroThreshold = 1e-12

// ComputeHSignature computes the complex-valued homotopy-class invariant
// of an ordered polyline relative to a set of obstacle centroids, using
// the Bhattacharya/Ghrist-style integral formulation: for each obstacle j,
// a branch weight a_j = (-1)^j / prod_{k != j}(o_j - o_k), integrated
// against the principal-branch log of consecutive segment ratios around
// that obstacle.
//
// An empty or single-point path returns the zero signature. An obstacle
// set of size one degenerates the branch-weight product to 1 (the empty
// product), which is the expected behavior: a single obstacle still
// discriminates between routing on either side of it.
func ComputeHSignature(points []spatial.Point2, obstacles []spatial.Obstacle, prescaler float64) HSignature {
	if len(points) < 2 || len(obstacles) == 0 {
		return HSignature(0)
	}

	centers := make([]complex128, len(obstacles))
	for j, o := range obstacles {
		c := o.Centroid()
		centers[j] = complex(c.X*prescaler, c.Y*prescaler)
	}

	zs := make([]complex128, len(points))
	for k, p := range points {
		zs[k] = complex(p.X*prescaler, p.Y*prescaler)
	}

	var total complex128
	for j := range obstacles {
		weight := branchWeight(j, centers)

		var segSum complex128
		for k := 0; k < len(zs)-1; k++ {
			num := perturbIfCoincident(zs[k+1] - centers[j])
			den := perturbIfCoincident(zs[k] - centers[j])
			segSum += cmplx.Log(num / den)
		}
		total += weight * segSum
	}
	return HSignature(total)
}

// branchWeight computes a_j = (-1)^j / prod_{k != j}(o_j - o_k).
func branchWeight(j int, centers []complex128) complex128 {
	product := complex(1, 0)
	for k, c := range centers {
		if k == j {
			continue
		}
		product *= centers[j] - c
	}
	if cmplx.Abs(product) < zeroThreshold {
		product = complex(perturbEpsilon, 0)
	}
	sign := 1.0
	if j%2 == 1 {
		sign = -1.0
	}
	return complex(sign, 0) / product
}

// perturbIfCoincident nudges z away from zero so an obstacle coincident
// with a path vertex doesn't produce a log(0) singularity.
func perturbIfCoincident(z complex128) complex128 {
	if cmplx.Abs(z) < zeroThreshold {
		return z + complex(perturbEpsilon, 0)
	}
	return z
}
