package geometry

import (
	"math"
	"testing"
)

func TestTriangleArea(t *testing.T) {
	// Create a right triangle with sides 3, 4, 5
	tri := NewTriangle(
		NewVector3(0, 0, 1),
		NewVector3(0, 0, 0),
		NewVector3(3, 0, 0),
		NewVector3(0, 4, 0),
	)

	area := tri.Area()
	expected := 6.0 // (3 * 4) / 2 = 6

	if math.Abs(area-expected) > 1e-10 {
		t.Errorf("Area failed: expected %v, got %v", expected, area)
	}
}

func TestTriangleEdgeLengths(t *testing.T) {
	tri := NewTriangle(
		NewVector3(0, 0, 1),
		NewVector3(0, 0, 0),
		NewVector3(3, 0, 0),
		NewVector3(0, 4, 0),
	)

	lengths := tri.EdgeLengths()

	// Expected lengths: 3, 5, 4 (Pythagorean triple)
	if math.Abs(lengths[0]-3.0) > 1e-10 {
		t.Errorf("Edge 0 length failed: expected 3.0, got %v", lengths[0])
	}
	if math.Abs(lengths[1]-5.0) > 1e-10 {
		t.Errorf("Edge 1 length failed: expected 5.0, got %v", lengths[1])
	}
	if math.Abs(lengths[2]-4.0) > 1e-10 {
		t.Errorf("Edge 2 length failed: expected 4.0, got %v", lengths[2])
	}
}

func TestTrianglePerimeter(t *testing.T) {
	tri := NewTriangle(
		NewVector3(0, 0, 1),
		NewVector3(0, 0, 0),
		NewVector3(3, 0, 0),
		NewVector3(0, 4, 0),
	)

	perimeter := tri.Perimeter()
	expected := 12.0 // 3 + 4 + 5 = 12

	if math.Abs(perimeter-expected) > 1e-10 {
		t.Errorf("Perimeter failed: expected %v, got %v", expected, perimeter)
	}
}

func TestTriangleCenter(t *testing.T) {
	tri := NewTriangle(
		NewVector3(0, 0, 1),
		NewVector3(0, 0, 0),
		NewVector3(3, 0, 0),
		NewVector3(0, 3, 0),
	)

	center := tri.Center()
	expected := NewVector3(1, 1, 0)

	if center != expected {
		t.Errorf("Center failed: expected %v, got %v", expected, center)
	}
}

func TestTriangleClosestPointInterior(t *testing.T) {
	tri := NewTriangle(
		NewVector3(0, 0, 1),
		NewVector3(0, 0, 0),
		NewVector3(4, 0, 0),
		NewVector3(0, 4, 0),
	)

	closest := tri.ClosestPoint(NewVector3(1, 1, 5))
	expected := NewVector3(1, 1, 0)

	if closest.Distance(expected) > 1e-10 {
		t.Errorf("ClosestPoint failed: expected %v, got %v", expected, closest)
	}
}

func TestTriangleClosestPointRegions(t *testing.T) {
	tri := NewTriangle(
		NewVector3(0, 0, 1),
		NewVector3(0, 0, 0),
		NewVector3(4, 0, 0),
		NewVector3(0, 4, 0),
	)

	cases := []struct {
		name     string
		point    Vector3
		expected Vector3
	}{
		{"vertex A", NewVector3(-1, -1, 0), NewVector3(0, 0, 0)},
		{"vertex B", NewVector3(6, -1, 2), NewVector3(4, 0, 0)},
		{"vertex C", NewVector3(-1, 6, -2), NewVector3(0, 4, 0)},
		{"edge AB", NewVector3(2, -3, 0), NewVector3(2, 0, 0)},
		{"edge AC", NewVector3(-3, 2, 1), NewVector3(0, 2, 0)},
		{"edge BC", NewVector3(3, 3, 0), NewVector3(2, 2, 0)},
	}

	for _, c := range cases {
		got := tri.ClosestPoint(c.point)
		if got.Distance(c.expected) > 1e-10 {
			t.Errorf("%s: expected %v, got %v", c.name, c.expected, got)
		}
	}
}

func TestTriangleIntersectRay(t *testing.T) {
	tri := NewTriangle(
		NewVector3(0, 0, 1),
		NewVector3(0, 0, 0),
		NewVector3(4, 0, 0),
		NewVector3(0, 4, 0),
	)

	dist, ok := tri.IntersectRay(NewVector3(1, 1, 3), NewVector3(0, 0, -1))
	if !ok || math.Abs(dist-3) > 1e-10 {
		t.Errorf("IntersectRay failed: expected 3, got %v (hit=%v)", dist, ok)
	}

	// back face is hit as well
	dist, ok = tri.IntersectRay(NewVector3(1, 1, -2), NewVector3(0, 0, 1))
	if !ok || math.Abs(dist-2) > 1e-10 {
		t.Errorf("IntersectRay back face failed: expected 2, got %v (hit=%v)", dist, ok)
	}

	if _, ok := tri.IntersectRay(NewVector3(5, 5, 3), NewVector3(0, 0, -1)); ok {
		t.Errorf("IntersectRay should miss outside the triangle")
	}
	if _, ok := tri.IntersectRay(NewVector3(1, 1, 3), NewVector3(0, 0, 1)); ok {
		t.Errorf("IntersectRay should miss behind the origin")
	}
	if _, ok := tri.IntersectRay(NewVector3(1, 1, 3), NewVector3(1, 0, 0)); ok {
		t.Errorf("IntersectRay should miss for a parallel ray")
	}
}

func TestTriangleSpan(t *testing.T) {
	tri := NewTriangle(
		NewVector3(0, 0, 1),
		NewVector3(0, 0, 0),
		NewVector3(3, 0, 0),
		NewVector3(0, 3, 0),
	)

	expected := math.Sqrt(5) // centroid (1,1,0) to (3,0,0) or (0,3,0)
	if math.Abs(tri.Span()-expected) > 1e-10 {
		t.Errorf("Span failed: expected %v, got %v", expected, tri.Span())
	}
}
