package mesh

import (
	"math"

	"github.com/AllenInstitute/pycilium/pkg/geometry"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// Closest is the result of a closest-surface-point query
type Closest struct {
	Point    geometry.Vector3
	Distance float64
	Triangle int
}

// Index answers surface queries against one mesh. It is built once and is
// safe for concurrent use.
type Index struct {
	mesh      *Mesh
	triangles []geometry.Triangle
	tree      *kdtree.Tree
	maxSpan   float64
	normals   []geometry.Vector3
}

// NewIndex precomputes triangles, a k-d tree over triangle centroids and
// vertex normals for m
func NewIndex(m *Mesh) *Index {
	ix := &Index{
		mesh:      m,
		triangles: make([]geometry.Triangle, len(m.Faces)),
		normals:   m.VertexNormals(),
	}

	points := make(centroids, len(m.Faces))
	for i := range m.Faces {
		tri := m.Triangle(i)
		ix.triangles[i] = tri
		ix.maxSpan = math.Max(ix.maxSpan, tri.Span())
		points[i] = centroid{pos: tri.Center().Array(), tri: i}
	}
	if len(points) > 0 {
		ix.tree = kdtree.New(points, false)
	}
	return ix
}

// Mesh returns the indexed mesh
func (ix *Index) Mesh() *Mesh {
	return ix.mesh
}

// ClosestPoint returns the point on the mesh surface nearest to p.
// Equally distant triangles resolve to the lowest triangle index.
// It reports false for a mesh without faces.
func (ix *Index) ClosestPoint(p geometry.Vector3) (Closest, bool) {
	if ix.tree == nil {
		return Closest{}, false
	}

	// The triangle owning the nearest centroid bounds the answer from above.
	// Any triangle at least as close has its centroid within that bound plus
	// the largest centroid-to-corner span.
	query := &centroid{pos: p.Array()}
	seed, _ := ix.tree.Nearest(query)
	best := ix.closestOn(seed.(*centroid).tri, p)

	reach := best.Distance + ix.maxSpan
	reach = reach*(1+1e-9) + 1e-12
	keeper := kdtree.NewDistKeeper(reach * reach)
	ix.tree.NearestSet(keeper, query)

	for _, candidate := range keeper.Heap {
		if candidate.Comparable == nil {
			continue
		}
		tri := candidate.Comparable.(*centroid).tri
		if tri == best.Triangle {
			continue
		}
		c := ix.closestOn(tri, p)
		if c.Distance < best.Distance || (c.Distance == best.Distance && c.Triangle < best.Triangle) {
			best = c
		}
	}
	return best, true
}

func (ix *Index) closestOn(tri int, p geometry.Vector3) Closest {
	point := ix.triangles[tri].ClosestPoint(p)
	return Closest{Point: point, Distance: p.Distance(point), Triangle: tri}
}

// Intersect casts the ray origin + t*dir against every triangle not rejected
// by skip and returns the nearest hit distance in units of |dir| and the
// triangle hit. Equal distances resolve to the lowest triangle index.
func (ix *Index) Intersect(origin, dir geometry.Vector3, skip func(tri int) bool) (float64, int, bool) {
	bestT := math.Inf(1)
	bestTri := -1
	for i, tri := range ix.triangles {
		if skip != nil && skip(i) {
			continue
		}
		if t, ok := tri.IntersectRay(origin, dir); ok && t < bestT {
			bestT = t
			bestTri = i
		}
	}
	if bestTri < 0 {
		return 0, -1, false
	}
	return bestT, bestTri, true
}

// centroid is a triangle centroid stored in the k-d tree
type centroid struct {
	pos [3]float64
	tri int
}

func (c *centroid) Compare(other kdtree.Comparable, d kdtree.Dim) float64 {
	return c.pos[d] - other.(*centroid).pos[d]
}

func (c *centroid) Dims() int { return 3 }

func (c *centroid) Distance(other kdtree.Comparable) float64 {
	o := other.(*centroid)
	dx := c.pos[0] - o.pos[0]
	dy := c.pos[1] - o.pos[1]
	dz := c.pos[2] - o.pos[2]
	return dx*dx + dy*dy + dz*dz
}

type centroids []centroid

func (c centroids) Index(i int) kdtree.Comparable { return &c[i] }
func (c centroids) Len() int                      { return len(c) }
func (c centroids) Slice(start, end int) kdtree.Interface {
	return c[start:end]
}

func (c centroids) Pivot(d kdtree.Dim) int {
	p := centroidPlane{dim: d, centroids: c}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

// centroidPlane orders centroids along one dimension for partitioning
type centroidPlane struct {
	dim       kdtree.Dim
	centroids centroids
}

func (p centroidPlane) Len() int { return len(p.centroids) }
func (p centroidPlane) Less(i, j int) bool {
	return p.centroids[i].pos[p.dim] < p.centroids[j].pos[p.dim]
}
func (p centroidPlane) Swap(i, j int) {
	p.centroids[i], p.centroids[j] = p.centroids[j], p.centroids[i]
}
func (p centroidPlane) Slice(start, end int) kdtree.SortSlicer {
	p.centroids = p.centroids[start:end]
	return p
}
