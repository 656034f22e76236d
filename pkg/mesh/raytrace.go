package mesh

import (
	"math"

	"github.com/AllenInstitute/pycilium/pkg/geometry"
)

// TraceOptions controls interior ray casting
type TraceOptions struct {
	// Attempts is the number of perturbed retries after the first ray misses
	Attempts int
	// Jitter is the perturbation added to the unit direction on the first
	// retry. It grows by a factor of 1.2 per retry.
	Jitter float64
}

// DefaultTraceOptions returns the retry schedule used when none is configured
func DefaultTraceOptions() TraceOptions {
	return TraceOptions{Attempts: 10, Jitter: 0.001}
}

// jitterGrowth is the per-retry growth of the perturbation
const jitterGrowth = 1.2

// Fractional parts of multiples of these constants form the low-discrepancy
// perturbation sequence (R3 sequence by Roberts).
var jitterBasis = [3]float64{0.8191725133961645, 0.6710436067037893, 0.5497004779019703}

// TraceFromVertex casts a ray from mesh vertex v into the mesh along its
// negated vertex normal and returns the distance to the opposite wall.
// Faces incident to v are ignored. When the ray escapes, up to
// opts.Attempts perturbed rays are tried. The perturbations are a fixed
// sequence, so repeated calls return identical results.
func (ix *Index) TraceFromVertex(v int, opts TraceOptions) (float64, bool) {
	if v < 0 || v >= len(ix.normals) {
		return 0, false
	}
	normal := ix.normals[v]
	if normal == (geometry.Vector3{}) {
		return 0, false
	}

	origin := ix.mesh.Vertices[v]
	inward := normal.Negate()
	skip := func(tri int) bool {
		f := ix.mesh.Faces[tri]
		return f[0] == v || f[1] == v || f[2] == v
	}

	for attempt := 0; attempt <= opts.Attempts; attempt++ {
		dir := inward
		if attempt > 0 {
			scale := opts.Jitter * math.Pow(jitterGrowth, float64(attempt))
			dir = dir.Add(jitterVector(attempt).Mul(scale))
		}
		dir = dir.Normalize()
		if dir == (geometry.Vector3{}) {
			continue
		}

		if dist, _, ok := ix.Intersect(origin, dir, skip); ok {
			return dist, true
		}
	}
	return 0, false
}

// jitterVector returns the k-th perturbation, components in [0, 1)
func jitterVector(k int) geometry.Vector3 {
	var c [3]float64
	for i, b := range jitterBasis {
		_, c[i] = math.Modf(float64(k) * b)
	}
	return geometry.NewVector3(c[0], c[1], c[2])
}
