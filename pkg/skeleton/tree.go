package skeleton

import (
	"fmt"

	"github.com/AllenInstitute/pycilium/pkg/geometry"
)

// Node is one vertex of a skeleton
type Node struct {
	ID         int64
	ParentID   *int64 // nil for the root
	UserID     int64
	Position   geometry.Vector3
	Radius     *float64 // nil when unknown
	Confidence int
}

// Edge connects a parent vertex to a child vertex by index
type Edge struct {
	Parent int
	Child  int
}

// Tree is a rooted skeleton stored as an arena of nodes addressed by index.
// A Tree is immutable once built and safe for concurrent reads.
type Tree struct {
	nodes   []Node
	edges   []Edge
	parents []int // parent index per vertex, -1 for vertices without an edge
	root    int
}

// NewTree assembles a tree from nodes, parent->child edges and a root index.
// It does not check that the edges form a tree; Build does.
func NewTree(nodes []Node, edges []Edge, root int) (*Tree, error) {
	if root < 0 || root >= len(nodes) {
		return nil, fmt.Errorf("%w: root %d of %d nodes", ErrVertexRange, root, len(nodes))
	}

	parents := make([]int, len(nodes))
	for i := range parents {
		parents[i] = -1
	}
	for _, e := range edges {
		if e.Parent < 0 || e.Parent >= len(nodes) || e.Child < 0 || e.Child >= len(nodes) {
			return nil, fmt.Errorf("%w: edge %d->%d of %d nodes", ErrVertexRange, e.Parent, e.Child, len(nodes))
		}
		parents[e.Child] = e.Parent
	}

	return &Tree{
		nodes:   append([]Node(nil), nodes...),
		edges:   append([]Edge(nil), edges...),
		parents: parents,
		root:    root,
	}, nil
}

// Len returns the number of vertices
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Root returns the index of the root vertex
func (t *Tree) Root() int {
	return t.root
}

// Node returns the vertex at index i
func (t *Tree) Node(i int) Node {
	return t.nodes[i]
}

// Nodes returns a copy of all vertices in input order
func (t *Tree) Nodes() []Node {
	return append([]Node(nil), t.nodes...)
}

// Edges returns a copy of the parent->child edges
func (t *Tree) Edges() []Edge {
	return append([]Edge(nil), t.edges...)
}

// EdgeCount returns the number of edges
func (t *Tree) EdgeCount() int {
	return len(t.edges)
}

// Parent returns the parent index of vertex i, or -1 for the root
func (t *Tree) Parent(i int) int {
	return t.parents[i]
}

// Children returns the child indices of vertex i in edge order
func (t *Tree) Children(i int) []int {
	var children []int
	for _, e := range t.edges {
		if e.Parent == i {
			children = append(children, e.Child)
		}
	}
	return children
}

// Positions returns the vertex coordinates in vertex order
func (t *Tree) Positions() []geometry.Vector3 {
	positions := make([]geometry.Vector3, len(t.nodes))
	for i, n := range t.nodes {
		positions[i] = n.Position
	}
	return positions
}

// Segment returns the line segment of edge i, starting at the parent
func (t *Tree) Segment(i int) geometry.Segment {
	e := t.edges[i]
	return geometry.NewSegment(t.nodes[e.Parent].Position, t.nodes[e.Child].Position)
}

// Segments returns one line segment per edge, in edge order
func (t *Tree) Segments() []geometry.Segment {
	segments := make([]geometry.Segment, len(t.edges))
	for i := range t.edges {
		segments[i] = t.Segment(i)
	}
	return segments
}

// WithRadii returns a copy of the tree whose node radii are replaced by radii.
// A nil entry marks the radius as unknown.
func (t *Tree) WithRadii(radii []*float64) (*Tree, error) {
	if len(radii) != len(t.nodes) {
		return nil, fmt.Errorf("%w: %d radii for %d vertices", ErrVertexRange, len(radii), len(t.nodes))
	}

	out := &Tree{
		nodes:   make([]Node, len(t.nodes)),
		edges:   t.edges,
		parents: t.parents,
		root:    t.root,
	}
	for i, n := range t.nodes {
		if radii[i] != nil {
			r := *radii[i]
			n.Radius = &r
		} else {
			n.Radius = nil
		}
		out.nodes[i] = n
	}
	return out, nil
}
