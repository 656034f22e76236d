package analysis

import (
	"github.com/AllenInstitute/pycilium/pkg/geometry"
	"github.com/AllenInstitute/pycilium/pkg/mesh"
)

// MeshResult contains various measurements of a mesh
type MeshResult struct {
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	BoundsVolume  float64
	VertexCount   int
	TriangleCount int
	SurfaceArea   float64
	Edges         Summary
}

// AnalyzeMesh measures an indexed mesh. Edges shared by two faces are
// counted once per face.
func AnalyzeMesh(m *mesh.Mesh) *MeshResult {
	result := &MeshResult{
		BoundingBox:   m.BoundingBox(),
		VertexCount:   len(m.Vertices),
		TriangleCount: len(m.Faces),
		SurfaceArea:   m.SurfaceArea(),
	}
	if !result.BoundingBox.IsEmpty() {
		result.Dimensions = result.BoundingBox.Size()
		result.BoundsVolume = result.BoundingBox.Volume()
	}

	lengths := make([]float64, 0, 3*len(m.Faces))
	for i := range m.Faces {
		edges := m.Triangle(i).EdgeLengths()
		lengths = append(lengths, edges[:]...)
	}
	result.Edges = Summarize(lengths)
	return result
}
