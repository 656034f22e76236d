package main

import (
	"fmt"

	"github.com/AllenInstitute/pycilium/pkg/analysis"
	"github.com/AllenInstitute/pycilium/pkg/geometry"
	"github.com/AllenInstitute/pycilium/pkg/skeleton"
	"github.com/spf13/cobra"
)

var locateX, locateY, locateZ float64

var locateCmd = &cobra.Command{
	Use:   "locate [skeleton]",
	Short: "Find the skeleton position closest to a point",
	Long: `Project a 3D point onto the closest skeleton segment and report its
coordinate along the tree, measured as path length from the root.`,
	Args: cobra.ExactArgs(1),
	RunE: runLocate,
}

func init() {
	rootCmd.AddCommand(locateCmd)

	locateCmd.Flags().Float64Var(&locateX, "x", 0.0, "X coordinate of the point")
	locateCmd.Flags().Float64Var(&locateY, "y", 0.0, "Y coordinate of the point")
	locateCmd.Flags().Float64Var(&locateZ, "z", 0.0, "Z coordinate of the point")

	locateCmd.MarkFlagsRequiredTogether("x", "y", "z")
}

func runLocate(cmd *cobra.Command, args []string) error {
	tree, err := loadSkeleton(args[0])
	if err != nil {
		return err
	}
	p := geometry.NewVector3(locateX, locateY, locateZ)

	hit, err := skeleton.NearestOnTree(tree, p)
	if err != nil {
		return err
	}
	coord, err := skeleton.CoordinateForPoint(tree, p)
	if err != nil {
		return err
	}
	edge := tree.Edges()[hit.Segment]

	fmt.Println("Skeleton Location")
	fmt.Println("=================")
	fmt.Printf("Point: %s\n\n", analysis.FormatVector(p))
	fmt.Printf("Nearest segment: #%d (node %d -> node %d)\n", hit.Segment,
		tree.Node(edge.Parent).ID, tree.Node(edge.Child).ID)
	fmt.Printf("  Closest point: %s\n", analysis.FormatVector(hit.Point))
	fmt.Printf("  Distance: %s\n", analysis.FormatMeasurement(hit.Distance, ""))
	fmt.Printf("  Along segment: %s\n", analysis.FormatMeasurement(hit.ArcLength, ""))
	fmt.Printf("\nPath length from root: %s\n", analysis.FormatMeasurement(coord, ""))
	return nil
}
