package geometry

import "math"

// rayEpsilon rejects intersections at or behind the ray origin
const rayEpsilon = 1e-9

// Triangle represents a triangular facet in 3D space
type Triangle struct {
	Normal     Vector3
	V1, V2, V3 Vector3
}

// NewTriangle creates a new triangle
func NewTriangle(normal, v1, v2, v3 Vector3) Triangle {
	return Triangle{
		Normal: normal,
		V1:     v1,
		V2:     v2,
		V3:     v3,
	}
}

// CalculateNormal computes the normal vector for the triangle
func (t Triangle) CalculateNormal() Vector3 {
	edge1 := t.V2.Sub(t.V1)
	edge2 := t.V3.Sub(t.V1)
	return edge1.Cross(edge2).Normalize()
}

// Area returns the surface area of the triangle
func (t Triangle) Area() float64 {
	edge1 := t.V2.Sub(t.V1)
	edge2 := t.V3.Sub(t.V1)
	cross := edge1.Cross(edge2)
	return cross.Length() / 2.0
}

// EdgeLengths returns the lengths of all three edges
func (t Triangle) EdgeLengths() [3]float64 {
	return [3]float64{
		t.V1.Distance(t.V2),
		t.V2.Distance(t.V3),
		t.V3.Distance(t.V1),
	}
}

// Perimeter returns the total length of all edges
func (t Triangle) Perimeter() float64 {
	lengths := t.EdgeLengths()
	return lengths[0] + lengths[1] + lengths[2]
}

// Center returns the centroid of the triangle
func (t Triangle) Center() Vector3 {
	return Vector3{
		X: (t.V1.X + t.V2.X + t.V3.X) / 3.0,
		Y: (t.V1.Y + t.V2.Y + t.V3.Y) / 3.0,
		Z: (t.V1.Z + t.V2.Z + t.V3.Z) / 3.0,
	}
}

// Span returns the largest distance from the centroid to a vertex
func (t Triangle) Span() float64 {
	c := t.Center()
	return math.Max(c.Distance(t.V1), math.Max(c.Distance(t.V2), c.Distance(t.V3)))
}

// ClosestPoint returns the point of the triangle (interior, edges or corners)
// nearest to p.
//
// Region classification follows Ericson, Real-Time Collision Detection 5.1.5.
// Degenerate triangles fall through to one of the edge or vertex regions.
func (t Triangle) ClosestPoint(p Vector3) Vector3 {
	a, b, c := t.V1, t.V2, t.V3
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.Add(ab.Mul(v))
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.Add(ac.Mul(w))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Mul(w))
	}

	denom := va + vb + vc
	if denom == 0 {
		// collinear corners
		return a
	}
	v := vb / denom
	w := vc / denom
	return a.Add(ab.Mul(v)).Add(ac.Mul(w))
}

// IntersectRay returns the ray parameter t of the intersection between the ray
// origin + t*dir and the triangle. Both faces are hit. Intersections with
// t <= rayEpsilon and rays parallel to the triangle plane report false.
func (t Triangle) IntersectRay(origin, dir Vector3) (float64, bool) {
	edge1 := t.V2.Sub(t.V1)
	edge2 := t.V3.Sub(t.V1)

	h := dir.Cross(edge2)
	det := edge1.Dot(h)
	if math.Abs(det) < 1e-12 {
		return 0, false
	}
	invDet := 1.0 / det

	s := origin.Sub(t.V1)
	u := invDet * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := invDet * dir.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}

	dist := invDet * edge2.Dot(q)
	if dist <= rayEpsilon {
		return 0, false
	}
	return dist, true
}

// Angles returns the three interior angles in radians
func (t Triangle) Angles() [3]float64 {
	e1 := t.V2.Sub(t.V1)
	e2 := t.V3.Sub(t.V2)
	e3 := t.V1.Sub(t.V3)

	// Angle at V1
	a1 := angleBetween(e1, e3.Mul(-1))
	// Angle at V2
	a2 := angleBetween(e1.Mul(-1), e2)
	// Angle at V3
	a3 := angleBetween(e2.Mul(-1), e3)

	return [3]float64{a1, a2, a3}
}

// angleBetween clamps the cosine so rounding never produces NaN
func angleBetween(a, b Vector3) float64 {
	cos := a.Normalize().Dot(b.Normalize())
	return math.Acos(math.Max(-1, math.Min(1, cos)))
}
