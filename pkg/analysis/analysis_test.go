package analysis_test

import (
	"math"
	"testing"

	"github.com/AllenInstitute/pycilium/internal/meshtest"
	"github.com/AllenInstitute/pycilium/pkg/analysis"
	"github.com/AllenInstitute/pycilium/pkg/fusion"
	"github.com/AllenInstitute/pycilium/pkg/geometry"
	"github.com/AllenInstitute/pycilium/pkg/skeleton"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// forkedTree is root (0,0,0) -> (3,0,0) which forks to (3,4,0) and (3,0,2)
func forkedTree(t *testing.T) *skeleton.Tree {
	t.Helper()
	records := []skeleton.Record{
		{NodeID: 1, X: 0, Y: 0, Z: 0, Radius: -1},
		{NodeID: 2, ParentID: ptr[int64](1), X: 3, Y: 0, Z: 0, Radius: -1},
		{NodeID: 3, ParentID: ptr[int64](2), X: 3, Y: 4, Z: 0, Radius: -1},
		{NodeID: 4, ParentID: ptr[int64](2), X: 3, Y: 0, Z: 2, Radius: -1},
	}
	tree, err := skeleton.Build(records, nil)
	require.NoError(t, err)
	return tree
}

func TestAnalyzeSkeleton(t *testing.T) {
	result := analysis.AnalyzeSkeleton(forkedTree(t))

	assert.Equal(t, 4, result.VertexCount)
	assert.Equal(t, 3, result.EdgeCount)
	assert.Equal(t, []int{1}, result.BranchPoints)
	assert.Equal(t, []int{2, 3}, result.Tips)
	assert.InDelta(t, 9.0, result.CableLength, 1e-12)
	assert.Equal(t, geometry.NewVector3(3, 4, 2), result.Dimensions)

	assert.Equal(t, 3, result.Segments.Count)
	assert.InDelta(t, 2.0, result.Segments.Min, 1e-12)
	assert.InDelta(t, 4.0, result.Segments.Max, 1e-12)
	assert.InDelta(t, 3.0, result.Segments.Mean, 1e-12)
	assert.InDelta(t, 3.0, result.Segments.Median, 1e-12)
	assert.InDelta(t, 1.0, result.Segments.StdDev, 1e-12)

	require.NotNil(t, result.Axis)
	assert.Equal(t, 2, result.Axis.Tip)
	assert.InDelta(t, 5.0, result.Axis.Length, 1e-12)
	assert.InDelta(t, 7.0, result.Axis.PathLength, 1e-12)
	assert.InDelta(t, 5.0/7.0, result.Axis.Straightness, 1e-12)
	assert.InDelta(t, math.Pi/2, result.Axis.Theta, 1e-12)
	assert.InDelta(t, math.Atan2(4, 3), result.Axis.Phi, 1e-12)
	assert.InDelta(t, 0.6, result.Axis.BaseAlignment, 1e-12)

	wantArc := (5 + math.Sqrt(13)) / 2 * math.Acos(9/(5*math.Sqrt(13)))
	assert.InDelta(t, wantArc, result.TipSeparation, 1e-9)
}

func TestAnalyzeSingleVertexSkeleton(t *testing.T) {
	tree, err := skeleton.Build([]skeleton.Record{{NodeID: 7, X: 1, Y: 2, Z: 3}}, nil)
	require.NoError(t, err)

	result := analysis.AnalyzeSkeleton(tree)
	assert.Equal(t, 1, result.VertexCount)
	assert.Empty(t, result.Tips)
	assert.Nil(t, result.Axis)
	assert.Zero(t, result.Segments.Count)
}

func TestFindLongestAndShortestSegments(t *testing.T) {
	result := analysis.AnalyzeSkeleton(forkedTree(t))

	longest := analysis.FindLongestSegments(result, 2)
	require.Len(t, longest, 2)
	assert.InDelta(t, 4.0, longest[0].Length, 1e-12)
	assert.InDelta(t, 3.0, longest[1].Length, 1e-12)

	shortest := analysis.FindShortestSegments(result, 10)
	require.Len(t, shortest, 3)
	assert.Equal(t, 2, shortest[0].Index)
}

func TestAnalyzeMesh(t *testing.T) {
	result := analysis.AnalyzeMesh(meshtest.Sheet(1))

	assert.Equal(t, 3, result.VertexCount)
	assert.Equal(t, 1, result.TriangleCount)
	assert.InDelta(t, 12.5, result.SurfaceArea, 1e-12)
	assert.Equal(t, 3, result.Edges.Count)
	assert.InDelta(t, 5*math.Sqrt2, result.Edges.Max, 1e-12)
}

func TestSummarizeRadii(t *testing.T) {
	assignments := fusion.Assignments{
		{Distance: 1, Radius: ptr(2.0)},
		{Distance: 2},
		{Distance: 3, Radius: ptr(4.0)},
		{Distance: 4, Radius: ptr(6.0)},
	}

	s := analysis.SummarizeRadii(assignments)
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 1, s.Unresolved)
	assert.InDelta(t, 4.0, s.Mean, 1e-12)
	assert.InDelta(t, 4.0, s.Median, 1e-12)
	assert.InDelta(t, 2.0, s.StdDev, 1e-12)
	assert.InDelta(t, 2.5, s.MeanDistance, 1e-12)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "(1.000, -2.500, 0.000)", analysis.FormatVector(geometry.NewVector3(1, -2.5, 0)))
	assert.Equal(t, "3.142 um", analysis.FormatMeasurement(math.Pi, "um"))
	assert.Equal(t, "2.000 nm", analysis.FormatRadius(ptr(2.0)))
	assert.Equal(t, "-", analysis.FormatRadius(nil))
	assert.Equal(t, "90.00°", analysis.FormatAngle(math.Pi/2))
}

func TestFindSegmentsNegativeCount(t *testing.T) {
	result := analysis.AnalyzeSkeleton(forkedTree(t))

	assert.Empty(t, analysis.FindLongestSegments(result, -1))
	assert.Empty(t, analysis.FindShortestSegments(result, -3))
}

func TestAnalyzeMeshBoundsVolume(t *testing.T) {
	result := analysis.AnalyzeMesh(meshtest.Slab(geometry.Vector3{}))

	assert.Equal(t, geometry.NewVector3(24, 24, meshtest.SlabGap), result.Dimensions)
	assert.InDelta(t, 24*24*meshtest.SlabGap, result.BoundsVolume, 1e-9)
}
