package fusion_test

import (
	"context"
	"testing"

	"github.com/AllenInstitute/pycilium/internal/meshtest"
	"github.com/AllenInstitute/pycilium/pkg/fusion"
	"github.com/AllenInstitute/pycilium/pkg/geometry"
	"github.com/AllenInstitute/pycilium/pkg/mesh"
	"github.com/AllenInstitute/pycilium/pkg/skeleton"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chain builds an unbranched skeleton through the given points
func chain(t *testing.T, points ...geometry.Vector3) *skeleton.Tree {
	t.Helper()
	records := make([]skeleton.Record, len(points))
	for i, p := range points {
		records[i] = skeleton.Record{NodeID: int64(i + 1), X: p.X, Y: p.Y, Z: p.Z, Radius: -1}
		if i > 0 {
			parent := int64(i)
			records[i].ParentID = &parent
		}
	}
	tree, err := skeleton.Build(records, nil)
	require.NoError(t, err)
	return tree
}

func slabTree(t *testing.T) *skeleton.Tree {
	return chain(t,
		geometry.NewVector3(1, 3, 1),
		geometry.NewVector3(-5, -6, 1),
		geometry.NewVector3(2, -3, 0),
		geometry.NewVector3(0, 1, 3.5),
	)
}

func TestFuseSlab(t *testing.T) {
	f := fusion.New(fusion.Config{Workers: 2})
	got, err := f.Fuse(context.Background(), slabTree(t), []*mesh.Mesh{meshtest.Slab(geometry.Vector3{})})
	require.NoError(t, err)
	require.Len(t, got, 4)

	wantDistance := []float64{1, 1, 0, 0.5}
	for i, a := range got {
		assert.Equal(t, 0, a.Mesh, "vertex %d", i)
		assert.InDelta(t, wantDistance[i], a.Distance, 1e-9, "vertex %d", i)
		require.NotNil(t, a.Radius, "vertex %d", i)
		assert.InDelta(t, meshtest.SlabGap, *a.Radius, 1e-9, "vertex %d", i)
	}

	// bottom faces all start at the fan center, top faces at their first corner
	assert.Equal(t, 0, got[0].Anchor)
	assert.Equal(t, 5, got[3].Anchor)
	assert.Empty(t, got.Unresolved())
}

func TestFuseTieGoesToFirstMesh(t *testing.T) {
	tree := slabTree(t)
	slab := meshtest.Slab(geometry.Vector3{})
	twin := meshtest.Slab(geometry.Vector3{})
	far := meshtest.Slab(geometry.NewVector3(0, 0, 500))

	got, err := fusion.New(fusion.Config{}).Fuse(context.Background(), tree, []*mesh.Mesh{far, slab, twin})
	require.NoError(t, err)
	for i, a := range got {
		assert.Equal(t, 1, a.Mesh, "vertex %d", i)
	}
}

func TestFuseUnresolvedRadius(t *testing.T) {
	tree := chain(t, geometry.NewVector3(1, 1, 2), geometry.NewVector3(1, 1, 3))

	got, err := fusion.New(fusion.Config{}).Fuse(context.Background(), tree, []*mesh.Mesh{meshtest.Sheet(0)})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, got.Unresolved())
	assert.Equal(t, []*float64{nil, nil}, got.Radii())
	assert.InDelta(t, 2.0, got[0].Distance, 1e-12)
}

func TestFuseErrors(t *testing.T) {
	f := fusion.New(fusion.Config{})
	ctx := context.Background()
	tree := slabTree(t)

	_, err := f.Fuse(ctx, nil, []*mesh.Mesh{meshtest.Sheet(0)})
	assert.ErrorIs(t, err, fusion.ErrNilTree)

	_, err = f.Fuse(ctx, tree, nil)
	assert.ErrorIs(t, err, fusion.ErrNoMeshes)

	bare := &mesh.Mesh{Vertices: []geometry.Vector3{{}, {X: 1}}}
	_, err = f.Fuse(ctx, tree, []*mesh.Mesh{bare, {}})
	assert.ErrorIs(t, err, fusion.ErrNoSurface)
}

func TestFuseSkipsEmptyMeshes(t *testing.T) {
	got, err := fusion.New(fusion.Config{}).Fuse(context.Background(), slabTree(t),
		[]*mesh.Mesh{{}, meshtest.Slab(geometry.Vector3{})})
	require.NoError(t, err)
	for _, a := range got {
		assert.Equal(t, 1, a.Mesh)
	}
}

func TestFuseDeterministic(t *testing.T) {
	var points []geometry.Vector3
	for i := 0; i < 60; i++ {
		points = append(points, geometry.NewVector3(float64(i%11)-5, float64(i%7)-3, 0.05*float64(i%70)))
	}
	tree := chain(t, points...)
	meshes := []*mesh.Mesh{
		meshtest.Slab(geometry.Vector3{}),
		meshtest.Sheet(2),
		meshtest.Slab(geometry.NewVector3(0.5, 0, 0.01)),
	}

	serial, err := fusion.New(fusion.Config{Workers: 1}).Fuse(context.Background(), tree, meshes)
	require.NoError(t, err)
	parallel, err := fusion.New(fusion.Config{Workers: 8}).Fuse(context.Background(), tree, meshes)
	require.NoError(t, err)
	again, err := fusion.New(fusion.Config{Workers: 8}).Fuse(context.Background(), tree, meshes)
	require.NoError(t, err)

	assert.Equal(t, serial, parallel)
	assert.Equal(t, parallel, again)
}

func TestFuseCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fusion.New(fusion.Config{}).Fuse(ctx, slabTree(t), []*mesh.Mesh{meshtest.Slab(geometry.Vector3{})})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFuseTreeAnnotatesRadii(t *testing.T) {
	tree := slabTree(t)
	annotated, assignments, err := fusion.New(fusion.Config{}).FuseTree(context.Background(), tree,
		[]*mesh.Mesh{meshtest.Slab(geometry.Vector3{})})
	require.NoError(t, err)
	require.Equal(t, tree.Len(), annotated.Len())

	for i := 0; i < annotated.Len(); i++ {
		r := annotated.Node(i).Radius
		require.NotNil(t, r)
		assert.Equal(t, *assignments[i].Radius, *r)
		assert.Nil(t, tree.Node(i).Radius, "input tree must stay untouched")
	}
}

func TestFuseFilteredRemapsMeshIndex(t *testing.T) {
	tree := slabTree(t)
	meshes := []*mesh.Mesh{meshtest.Sheet(1000), meshtest.Slab(geometry.Vector3{})}

	_, assignments, err := fusion.New(fusion.Config{}).FuseFiltered(context.Background(), tree, meshes,
		fusion.FilterConfig{Radius: 100, EndcapBuffer: 50})
	require.NoError(t, err)
	for _, a := range assignments {
		assert.Equal(t, 1, a.Mesh)
		require.NotNil(t, a.Radius)
	}
}

func TestFuseFilteredEverythingRemoved(t *testing.T) {
	tree := slabTree(t)

	annotated, _, err := fusion.New(fusion.Config{}).FuseFiltered(context.Background(), tree,
		[]*mesh.Mesh{meshtest.Sheet(1000)}, fusion.DefaultFilterConfig())
	assert.ErrorIs(t, err, fusion.ErrNoSurface)
	assert.Nil(t, annotated)
}

func TestNewTraceSchedule(t *testing.T) {
	assert.Equal(t, mesh.DefaultTraceOptions(), fusion.New(fusion.Config{}).Trace())

	single := mesh.TraceOptions{Attempts: 0, Jitter: 0}
	assert.Equal(t, single, fusion.New(fusion.Config{Trace: &single}).Trace())
}
