package analysis

import (
	"math"
	"sort"

	"github.com/AllenInstitute/pycilium/pkg/geometry"
	"github.com/AllenInstitute/pycilium/pkg/skeleton"
)

// SegmentInfo describes one skeleton edge
type SegmentInfo struct {
	Index  int
	Start  geometry.Vector3
	End    geometry.Vector3
	Length float64
}

// AxisInfo describes the straight line from the root to the tip farthest
// from it along the tree
type AxisInfo struct {
	Tip int
	// Length is the straight-line root to tip distance
	Length float64
	// PathLength is the distance along the tree
	PathLength float64
	// Theta and Phi are the polar and azimuthal angles of the axis
	Theta, Phi float64
	// Straightness is Length / PathLength, 1 for an unbent path
	Straightness float64
	// BaseAlignment is the cosine between the first root edge and the axis
	BaseAlignment float64
}

// SkeletonResult contains various measurements of a skeleton
type SkeletonResult struct {
	BoundingBox  geometry.BoundingBox
	Dimensions   geometry.Vector3
	VertexCount  int
	EdgeCount    int
	BranchPoints []int
	Tips         []int
	CableLength  float64
	Segments     Summary
	AllSegments  []SegmentInfo
	Axis         *AxisInfo
	// TipSeparation is the arc distance around the root between the two
	// tips farthest along the tree, zero for fewer than two tips
	TipSeparation float64
}

// AnalyzeSkeleton performs comprehensive analysis on a skeleton
func AnalyzeSkeleton(tree *skeleton.Tree) *SkeletonResult {
	result := &SkeletonResult{
		BoundingBox: geometry.NewBoundingBox(),
		VertexCount: tree.Len(),
		EdgeCount:   tree.EdgeCount(),
		CableLength: skeleton.CableLength(tree),
	}

	for _, p := range tree.Positions() {
		result.BoundingBox.Extend(p)
	}
	if !result.BoundingBox.IsEmpty() {
		result.Dimensions = result.BoundingBox.Size()
	}

	lengths := make([]float64, 0, tree.EdgeCount())
	for i, seg := range tree.Segments() {
		info := SegmentInfo{Index: i, Start: seg.Start, End: seg.End, Length: seg.Length()}
		result.AllSegments = append(result.AllSegments, info)
		lengths = append(lengths, info.Length)
	}
	result.Segments = Summarize(lengths)

	for i := 0; i < tree.Len(); i++ {
		switch n := len(tree.Children(i)); {
		case n == 0 && i != tree.Root():
			result.Tips = append(result.Tips, i)
		case n > 1:
			result.BranchPoints = append(result.BranchPoints, i)
		}
	}

	result.Axis, result.TipSeparation = analyzeTips(tree, result.Tips)
	return result
}

// analyzeTips ranks the tips by path length from the root
func analyzeTips(tree *skeleton.Tree, tips []int) (*AxisInfo, float64) {
	type tip struct {
		vertex int
		path   float64
	}
	ranked := make([]tip, 0, len(tips))
	for _, v := range tips {
		path, err := skeleton.PathLengthToRoot(tree, v)
		if err != nil {
			continue
		}
		ranked = append(ranked, tip{vertex: v, path: path})
	}
	if len(ranked) == 0 {
		return nil, 0
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].path > ranked[j].path
	})

	root := tree.Node(tree.Root()).Position
	far := ranked[0]
	disp := tree.Node(far.vertex).Position.Sub(root)

	axis := &AxisInfo{Tip: far.vertex, PathLength: far.path}
	axis.Length, axis.Theta, axis.Phi = geometry.SphericalCoords(disp)
	if far.path > 0 {
		axis.Straightness = axis.Length / far.path
	}
	if children := tree.Children(tree.Root()); len(children) > 0 && axis.Length > 0 {
		first := tree.Node(children[0]).Position.Sub(root)
		if first.Length() > 0 {
			axis.BaseAlignment = geometry.CosineSimilarity(first, disp)
		}
	}

	separation := 0.0
	if len(ranked) > 1 {
		a := tree.Node(ranked[0].vertex).Position
		b := tree.Node(ranked[1].vertex).Position
		separation = geometry.MeanRadiusArcDistance(a, b, root)
		if math.IsNaN(separation) {
			separation = 0
		}
	}
	return axis, separation
}

// FindLongestSegments returns the N longest segments of the skeleton
func FindLongestSegments(result *SkeletonResult, count int) []SegmentInfo {
	return rankSegments(result, count, func(a, b SegmentInfo) bool { return a.Length > b.Length })
}

// FindShortestSegments returns the N shortest segments of the skeleton
func FindShortestSegments(result *SkeletonResult, count int) []SegmentInfo {
	return rankSegments(result, count, func(a, b SegmentInfo) bool { return a.Length < b.Length })
}

func rankSegments(result *SkeletonResult, count int, less func(a, b SegmentInfo) bool) []SegmentInfo {
	segments := make([]SegmentInfo, len(result.AllSegments))
	copy(segments, result.AllSegments)

	sort.SliceStable(segments, func(i, j int) bool {
		return less(segments[i], segments[j])
	})

	count = max(0, min(count, len(segments)))
	return segments[:count]
}
