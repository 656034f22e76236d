// Package meshtest builds small meshes with known geometry for tests.
package meshtest

import (
	"math"

	"github.com/AllenInstitute/pycilium/pkg/geometry"
	"github.com/AllenInstitute/pycilium/pkg/mesh"
)

// SlabGap is the distance between the two plates of Slab
const SlabGap = 4.0

// SlabCenter is the bottom vertex every bottom face starts from
var SlabCenter = geometry.NewVector3(1, 3, 0)

// Slab returns two parallel plates shifted by offset: a bottom plate at z=0
// spanning ±12 and fanned around SlabCenter (faces 0-3, normals -Z), and a
// top plate at z=SlabGap spanning ±10 (faces 4-5, normals +Z). Rays cast
// inward from any face's first vertex cross the gap and land inside a face
// of the other plate.
func Slab(offset geometry.Vector3) *mesh.Mesh {
	vertices := []geometry.Vector3{
		SlabCenter,
		geometry.NewVector3(-12, -12, 0),
		geometry.NewVector3(12, -12, 0),
		geometry.NewVector3(12, 12, 0),
		geometry.NewVector3(-12, 12, 0),
		geometry.NewVector3(-10, -10, SlabGap),
		geometry.NewVector3(10, -10, SlabGap),
		geometry.NewVector3(10, 10, SlabGap),
		geometry.NewVector3(-10, 10, SlabGap),
	}
	for i := range vertices {
		vertices[i] = vertices[i].Add(offset)
	}

	faces := [][3]int{
		{0, 2, 1},
		{0, 3, 2},
		{0, 4, 3},
		{0, 1, 4},
		{5, 6, 7},
		{5, 7, 8},
	}
	return &mesh.Mesh{Vertices: vertices, Faces: faces}
}

// Sheet returns a single triangle lying in the plane z=height. Rays cast
// from its corners never hit anything.
func Sheet(height float64) *mesh.Mesh {
	return &mesh.Mesh{
		Vertices: []geometry.Vector3{
			geometry.NewVector3(0, 0, height),
			geometry.NewVector3(5, 0, height),
			geometry.NewVector3(0, 5, height),
		},
		Faces: [][3]int{{0, 1, 2}},
	}
}

// Terrain returns an n x n grid surface with a deterministic height field,
// useful for comparing accelerated and exhaustive queries
func Terrain(n int, spacing float64) *mesh.Mesh {
	m := &mesh.Mesh{}
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			x := float64(i) * spacing
			y := float64(j) * spacing
			z := 2 * math.Sin(x*0.37) * math.Cos(y*0.23)
			m.Vertices = append(m.Vertices, geometry.NewVector3(x, y, z))
		}
	}
	for j := 0; j+1 < n; j++ {
		for i := 0; i+1 < n; i++ {
			a := j*n + i
			b := a + 1
			c := a + n
			d := c + 1
			m.Faces = append(m.Faces, [3]int{a, b, d}, [3]int{a, d, c})
		}
	}
	return m
}
