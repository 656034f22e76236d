package main

import (
	"fmt"

	"github.com/AllenInstitute/pycilium/pkg/analysis"
	"github.com/spf13/cobra"
)

var infoSegments int

var infoCmd = &cobra.Command{
	Use:   "info [skeleton] [mesh...]",
	Short: "Display general information about a skeleton and its meshes",
	Long:  "Show skeleton topology, cable length, segment statistics and the main axis, followed by statistics for any meshes given.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().IntVarP(&infoSegments, "segments", "n", 5, "number of longest segments to list")
}

func runInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]

	tree, err := loadSkeleton(filename)
	if err != nil {
		return err
	}
	result := analysis.AnalyzeSkeleton(tree)

	fmt.Println("Skeleton Information")
	fmt.Println("====================")
	fmt.Printf("File: %s\n\n", filename)

	fmt.Println("Topology:")
	fmt.Printf("  Vertices: %d\n", result.VertexCount)
	fmt.Printf("  Edges: %d\n", result.EdgeCount)
	fmt.Printf("  Root: %d (node %d)\n", tree.Root(), tree.Node(tree.Root()).ID)
	fmt.Printf("  Branch points: %d\n", len(result.BranchPoints))
	fmt.Printf("  Tips: %d\n", len(result.Tips))
	fmt.Printf("  Cable length: %s\n\n", analysis.FormatMeasurement(result.CableLength, ""))

	fmt.Println("Bounding Box:")
	fmt.Printf("  Min: %s\n", analysis.FormatVector(result.BoundingBox.Min))
	fmt.Printf("  Max: %s\n", analysis.FormatVector(result.BoundingBox.Max))
	fmt.Printf("  Size: %s\n\n", analysis.FormatVector(result.Dimensions))

	if result.Segments.Count > 0 {
		fmt.Println("Segment Lengths:")
		printSummary(result.Segments)

		fmt.Printf("\nLongest %d segments:\n", infoSegments)
		for _, seg := range analysis.FindLongestSegments(result, infoSegments) {
			fmt.Printf("  #%d %s -> %s  %s\n", seg.Index,
				analysis.FormatVector(seg.Start), analysis.FormatVector(seg.End),
				analysis.FormatMeasurement(seg.Length, ""))
		}
		fmt.Println()
	}

	if axis := result.Axis; axis != nil {
		fmt.Println("Main Axis:")
		fmt.Printf("  Farthest tip: %d (node %d)\n", axis.Tip, tree.Node(axis.Tip).ID)
		fmt.Printf("  Length: %s (path %s)\n",
			analysis.FormatMeasurement(axis.Length, ""), analysis.FormatMeasurement(axis.PathLength, ""))
		fmt.Printf("  Theta: %s  Phi: %s\n", analysis.FormatAngle(axis.Theta), analysis.FormatAngle(axis.Phi))
		fmt.Printf("  Straightness: %.4f\n", axis.Straightness)
		fmt.Printf("  Base alignment: %.4f\n", axis.BaseAlignment)
		if len(result.Tips) > 1 {
			fmt.Printf("  Tip separation: %s\n", analysis.FormatMeasurement(result.TipSeparation, ""))
		}
	}

	meshes, err := loadMeshes(args[1:])
	if err != nil {
		return err
	}
	for i, m := range meshes {
		mr := analysis.AnalyzeMesh(m)
		fmt.Printf("\nMesh %d: %s\n", i, args[i+1])
		fmt.Printf("  Vertices: %d\n", mr.VertexCount)
		fmt.Printf("  Triangles: %d\n", mr.TriangleCount)
		fmt.Printf("  Surface Area: %s\n", analysis.FormatMeasurement(mr.SurfaceArea, "nm²"))
		fmt.Printf("  Size: %s\n", analysis.FormatVector(mr.Dimensions))
		fmt.Printf("  Bounding volume: %s\n", analysis.FormatMeasurement(mr.BoundsVolume, "nm³"))
		fmt.Printf("  Edge lengths: min %.3f, max %.3f, mean %.3f\n", mr.Edges.Min, mr.Edges.Max, mr.Edges.Mean)
	}
	return nil
}

func printSummary(s analysis.Summary) {
	fmt.Printf("  Count: %d\n", s.Count)
	fmt.Printf("  Minimum: %s\n", analysis.FormatMeasurement(s.Min, ""))
	fmt.Printf("  Maximum: %s\n", analysis.FormatMeasurement(s.Max, ""))
	fmt.Printf("  Mean: %s\n", analysis.FormatMeasurement(s.Mean, ""))
	fmt.Printf("  Median: %s\n", analysis.FormatMeasurement(s.Median, ""))
	fmt.Printf("  Std. deviation: %s\n", analysis.FormatMeasurement(s.StdDev, ""))
}
