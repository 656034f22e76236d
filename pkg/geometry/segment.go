package geometry

import "math"

// Segment is a straight line piece between two points
type Segment struct {
	Start Vector3
	End   Vector3
}

// NewSegment creates a new segment
func NewSegment(start, end Vector3) Segment {
	return Segment{Start: start, End: end}
}

// Length returns the distance between the endpoints
func (s Segment) Length() float64 {
	return s.Start.Distance(s.End)
}

// Direction returns the unit vector from Start to End, or the zero vector for
// a degenerate segment
func (s Segment) Direction() Vector3 {
	return s.End.Sub(s.Start).Normalize()
}

// Projection is the result of projecting a point onto a segment
type Projection struct {
	Point     Vector3 // Nearest point on the segment
	ArcLength float64 // Distance from Start to Point along the segment
	Distance  float64 // Distance from the query point to Point
}

// Project returns the point of the segment nearest to p.
// The scalar projection is clamped to [0, Length], so both endpoints are valid
// answers. A zero-length segment projects everything onto Start.
func (s Segment) Project(p Vector3) Projection {
	return Project(s.Start, s.End, p)
}

// Project computes the nearest point on the segment start-end to p
func Project(start, end, p Vector3) Projection {
	axis := end.Sub(start)
	length := axis.Length()
	if length == 0 {
		return Projection{
			Point:     start,
			ArcLength: 0,
			Distance:  p.Distance(start),
		}
	}

	unit := axis.Mul(1.0 / length)
	along := math.Max(0, math.Min(length, p.Sub(start).Dot(unit)))
	nearest := start.Add(unit.Mul(along))

	return Projection{
		Point:     nearest,
		ArcLength: along,
		Distance:  p.Distance(nearest),
	}
}

// AxialOffset returns the signed distance of p along the segment axis measured
// from Start, and the distance from p to the infinite line through the segment.
// For a degenerate segment the offset is 0 and the distance is |p - Start|.
func (s Segment) AxialOffset(p Vector3) (offset, perpendicular float64) {
	axis := s.End.Sub(s.Start)
	length := axis.Length()
	d := p.Sub(s.Start)
	if length == 0 {
		return 0, d.Length()
	}

	offset = d.Dot(axis) / length
	perp2 := d.LengthSquared() - offset*offset
	if perp2 < 0 {
		perp2 = 0
	}
	return offset, math.Sqrt(perp2)
}
