package mesh

import (
	"github.com/AllenInstitute/pycilium/pkg/geometry"
)

// FilterNearPolyline keeps the part of m that lies within radius of the
// polyline formed by segments.
//
// A vertex is kept when, for at least one segment, its perpendicular distance
// to the segment's line is at most radius and its position along the segment
// axis lies within endcapBuffer of the segment (offset in
// [-endcapBuffer, length+endcapBuffer]). A zero-length segment keeps vertices
// within radius of its point. Faces survive only when all three corners do.
// Kept vertices are renumbered in their original order.
//
// When nothing survives the result is an empty mesh, not an error.
func FilterNearPolyline(m *Mesh, segments []geometry.Segment, radius, endcapBuffer float64) *Mesh {
	// kept vertices lie within radius+endcapBuffer of a segment endpoint's box
	reach := geometry.NewBoundingBox()
	for _, seg := range segments {
		reach.Extend(seg.Start)
		reach.Extend(seg.End)
	}
	reach = reach.Expand(radius + endcapBuffer)

	keep := make([]bool, len(m.Vertices))
	for i, v := range m.Vertices {
		keep[i] = reach.Contains(v) && nearPolyline(v, segments, radius, endcapBuffer)
	}
	return applyVertexMask(m, keep)
}

func nearPolyline(v geometry.Vector3, segments []geometry.Segment, radius, endcapBuffer float64) bool {
	for _, seg := range segments {
		length := seg.Length()
		offset, perpendicular := seg.AxialOffset(v)
		if perpendicular > radius {
			continue
		}
		if length == 0 || (offset >= -endcapBuffer && offset <= length+endcapBuffer) {
			return true
		}
	}
	return false
}

// applyVertexMask drops unmasked vertices and every face touching one
func applyVertexMask(m *Mesh, keep []bool) *Mesh {
	remap := make([]int, len(m.Vertices))
	out := &Mesh{}
	for i, v := range m.Vertices {
		if !keep[i] {
			remap[i] = -1
			continue
		}
		remap[i] = len(out.Vertices)
		out.Vertices = append(out.Vertices, v)
	}

	for _, f := range m.Faces {
		a, b, c := remap[f[0]], remap[f[1]], remap[f[2]]
		if a < 0 || b < 0 || c < 0 {
			continue
		}
		out.Faces = append(out.Faces, [3]int{a, b, c})
	}
	return out
}

// FilterMeshes applies FilterNearPolyline to every mesh and drops the ones
// left empty. The second result holds the input index of each returned mesh.
func FilterMeshes(meshes []*Mesh, segments []geometry.Segment, radius, endcapBuffer float64) ([]*Mesh, []int) {
	var filtered []*Mesh
	var sources []int
	for i, m := range meshes {
		reduced := FilterNearPolyline(m, segments, radius, endcapBuffer)
		if reduced.Empty() {
			continue
		}
		filtered = append(filtered, reduced)
		sources = append(sources, i)
	}
	return filtered, sources
}
