package skeleton

import (
	"fmt"

	"github.com/AllenInstitute/pycilium/pkg/geometry"
)

// Record is one compact-detail tracing node:
// (id, parent id or null, user id, x, y, z, radius, confidence).
// A negative Radius means the radius is unknown.
type Record struct {
	NodeID     int64
	ParentID   *int64
	UserID     int64
	X, Y, Z    float64
	Radius     float64
	Confidence int
}

// Connector is an opaque connector entry of a compact-detail payload.
// Skeletons with connectors are rejected by Build.
type Connector []any

// Build reconstructs a rooted tree from flat node records.
//
// Vertex i corresponds to records[i]. For every record with a parent an edge
// (parent index, record index) is emitted in record order. Exactly one record
// must have a nil parent, every parent id must name another record, and every
// record must be reachable from the root.
func Build(records []Record, connectors []Connector) (*Tree, error) {
	if len(connectors) > 0 {
		return nil, fmt.Errorf("%w: got %d", ErrUnsupportedConnector, len(connectors))
	}

	idToIndex := make(map[int64]int, len(records))
	nodes := make([]Node, len(records))
	root := -1

	for i, rec := range records {
		if prev, exists := idToIndex[rec.NodeID]; exists {
			return nil, fmt.Errorf("%w: id %d at records %d and %d", ErrDuplicateNode, rec.NodeID, prev, i)
		}
		idToIndex[rec.NodeID] = i

		if rec.ParentID == nil {
			if root >= 0 {
				return nil, fmt.Errorf("%w: nodes %d and %d", ErrDuplicateRoot, records[root].NodeID, rec.NodeID)
			}
			root = i
		}

		nodes[i] = nodeFromRecord(rec)
	}

	if root < 0 {
		return nil, fmt.Errorf("%w: %d records", ErrNoRoot, len(records))
	}

	edges := make([]Edge, 0, len(records)-1)
	for i, rec := range records {
		if rec.ParentID == nil {
			continue
		}
		parent, ok := idToIndex[*rec.ParentID]
		if !ok {
			return nil, fmt.Errorf("%w: node %d references parent %d", ErrDanglingParent, rec.NodeID, *rec.ParentID)
		}
		edges = append(edges, Edge{Parent: parent, Child: i})
	}

	tree, err := NewTree(nodes, edges, root)
	if err != nil {
		return nil, err
	}
	if err := checkConnected(tree); err != nil {
		return nil, err
	}
	return tree, nil
}

func nodeFromRecord(rec Record) Node {
	n := Node{
		ID:         rec.NodeID,
		UserID:     rec.UserID,
		Position:   geometry.NewVector3(rec.X, rec.Y, rec.Z),
		Confidence: rec.Confidence,
	}
	if rec.ParentID != nil {
		parent := *rec.ParentID
		n.ParentID = &parent
	}
	if rec.Radius >= 0 {
		radius := rec.Radius
		n.Radius = &radius
	}
	return n
}

// checkConnected walks down from the root. With unique ids and a single root
// every non-root vertex has one parent, so any vertex left unvisited sits on
// a cycle or hangs off one.
func checkConnected(t *Tree) error {
	children := make([][]int, t.Len())
	for _, e := range t.edges {
		children[e.Parent] = append(children[e.Parent], e.Child)
	}

	visited := make([]bool, t.Len())
	stack := []int{t.root}
	visited[t.root] = true
	count := 1
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range children[v] {
			if !visited[c] {
				visited[c] = true
				count++
				stack = append(stack, c)
			}
		}
	}

	if count == t.Len() {
		return nil
	}
	for i, seen := range visited {
		if !seen {
			return fmt.Errorf("%w: node %d", ErrCycle, t.nodes[i].ID)
		}
	}
	return nil
}
