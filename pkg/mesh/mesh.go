// Package mesh holds indexed triangle meshes and the surface queries used for
// radius estimation: closest surface point, ray casting and proximity
// filtering against a skeleton polyline.
package mesh

import (
	"fmt"
	"math"

	"github.com/AllenInstitute/pycilium/pkg/geometry"
	"github.com/AllenInstitute/pycilium/pkg/stl"
)

// Mesh is an indexed triangle mesh. Meshes are treated as read-only inputs.
type Mesh struct {
	Vertices []geometry.Vector3
	Faces    [][3]int
}

// New validates vertex coordinates and face indices and returns a mesh
func New(vertices []geometry.Vector3, faces [][3]int) (*Mesh, error) {
	for i, v := range vertices {
		if !v.IsFinite() {
			return nil, fmt.Errorf("vertex %d is not finite: %v", i, v)
		}
	}
	for i, f := range faces {
		for _, v := range f {
			if v < 0 || v >= len(vertices) {
				return nil, fmt.Errorf("face %d references vertex %d of %d", i, v, len(vertices))
			}
		}
	}
	return &Mesh{Vertices: vertices, Faces: faces}, nil
}

// FromModel welds the triangle soup of an STL model into an indexed mesh.
// Only bit-identical corner positions are merged.
func FromModel(model *stl.Model) *Mesh {
	m := &Mesh{Faces: make([][3]int, 0, len(model.Triangles))}
	cache := make(map[geometry.Vector3]int)

	index := func(v geometry.Vector3) int {
		if idx, ok := cache[v]; ok {
			return idx
		}
		idx := len(m.Vertices)
		cache[v] = idx
		m.Vertices = append(m.Vertices, v)
		return idx
	}

	for _, tri := range model.Triangles {
		m.Faces = append(m.Faces, [3]int{index(tri.V1), index(tri.V2), index(tri.V3)})
	}
	return m
}

// Load parses an STL file into an indexed mesh
func Load(filename string) (*Mesh, error) {
	model, err := stl.Parse(filename)
	if err != nil {
		return nil, err
	}
	return FromModel(model), nil
}

// ToModel converts the mesh back into an STL triangle soup
func (m *Mesh) ToModel(name string) *stl.Model {
	model := stl.NewModel(name)
	for i := range m.Faces {
		tri := m.Triangle(i)
		tri.Normal = tri.CalculateNormal()
		model.AddTriangle(tri)
	}
	return model
}

// Empty reports whether the mesh has no faces
func (m *Mesh) Empty() bool {
	return len(m.Faces) == 0
}

// Triangle returns face i as a geometry triangle with an unset normal
func (m *Mesh) Triangle(i int) geometry.Triangle {
	f := m.Faces[i]
	return geometry.Triangle{
		V1: m.Vertices[f[0]],
		V2: m.Vertices[f[1]],
		V3: m.Vertices[f[2]],
	}
}

// BoundingBox returns the bounds of all vertices
func (m *Mesh) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for _, v := range m.Vertices {
		bbox.Extend(v)
	}
	return bbox
}

// SurfaceArea returns the total face area
func (m *Mesh) SurfaceArea() float64 {
	total := 0.0
	for i := range m.Faces {
		total += m.Triangle(i).Area()
	}
	return total
}

// VertexNormals returns unit vertex normals, each the sum of the incident
// face normals weighted by the face's opening angle at that vertex.
// Vertices without faces get the zero vector.
func (m *Mesh) VertexNormals() []geometry.Vector3 {
	normals := make([]geometry.Vector3, len(m.Vertices))
	for i, f := range m.Faces {
		tri := m.Triangle(i)
		n := tri.CalculateNormal()
		if n == (geometry.Vector3{}) {
			continue
		}
		angles := tri.Angles()
		for j, v := range f {
			if math.IsNaN(angles[j]) {
				continue
			}
			normals[v] = normals[v].Add(n.Mul(angles[j]))
		}
	}
	for i := range normals {
		normals[i] = normals[i].Normalize()
	}
	return normals
}
