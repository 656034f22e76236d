package skeleton

import (
	"fmt"

	"github.com/AllenInstitute/pycilium/pkg/geometry"
)

// Hit describes the segment of a tree nearest to a query point
type Hit struct {
	Segment   int              // Edge index
	Point     geometry.Vector3 // Nearest point on the segment
	ArcLength float64          // Distance from the parent endpoint to Point
	Distance  float64          // Distance from the query point to Point
}

// NearestOnTree projects point onto every edge and returns the closest one.
// Ties go to the lowest edge index.
func NearestOnTree(t *Tree, point geometry.Vector3) (Hit, error) {
	if len(t.edges) == 0 {
		return Hit{}, ErrEmptyTree
	}

	best := Hit{Segment: -1}
	for i := range t.edges {
		proj := t.Segment(i).Project(point)
		if best.Segment < 0 || proj.Distance < best.Distance {
			best = Hit{
				Segment:   i,
				Point:     proj.Point,
				ArcLength: proj.ArcLength,
				Distance:  proj.Distance,
			}
		}
	}
	return best, nil
}

// PathLengthToRoot sums the edge lengths from vertex v up to the root
func PathLengthToRoot(t *Tree, v int) (float64, error) {
	if v < 0 || v >= len(t.nodes) {
		return 0, fmt.Errorf("%w: %d of %d", ErrVertexRange, v, len(t.nodes))
	}

	length := 0.0
	current := v
	for steps := 0; current != t.root; steps++ {
		parent := t.parents[current]
		if parent < 0 || steps >= len(t.nodes) {
			return 0, fmt.Errorf("%w: from vertex %d", ErrUnreachableRoot, v)
		}
		length += t.nodes[current].Position.Distance(t.nodes[parent].Position)
		current = parent
	}
	return length, nil
}

// CoordinateForPoint maps point onto the tree's path-length axis: the path
// length from the root to the parent end of the nearest segment plus the
// distance along that segment.
func CoordinateForPoint(t *Tree, point geometry.Vector3) (float64, error) {
	hit, err := NearestOnTree(t, point)
	if err != nil {
		return 0, err
	}

	base, err := PathLengthToRoot(t, t.edges[hit.Segment].Parent)
	if err != nil {
		return 0, err
	}
	return base + hit.ArcLength, nil
}

// CableLength returns the sum of all edge lengths
func CableLength(t *Tree) float64 {
	total := 0.0
	for i := range t.edges {
		total += t.Segment(i).Length()
	}
	return total
}
