package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AllenInstitute/pycilium/pkg/mesh"
	"github.com/AllenInstitute/pycilium/pkg/stl"
	"github.com/spf13/cobra"
)

// shared by filter and fuse; applied through config.Flags when set
var (
	filterRadius float64
	endcapBuffer float64
	filterOutput string
)

var filterCmd = &cobra.Command{
	Use:   "filter [skeleton] [mesh...]",
	Short: "Cut meshes down to the neighbourhood of a skeleton",
	Long: `Keep only the mesh vertices within --radius of a skeleton segment, extended
past the segment ends by --endcap-buffer, and the faces whose corners all survive.
Each non-empty result is written as binary STL to the output directory.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runFilter,
}

func init() {
	rootCmd.AddCommand(filterCmd)

	addFilterFlags(filterCmd)
	filterCmd.Flags().StringVarP(&filterOutput, "output", "o", ".", "output directory")
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&filterRadius, "radius", 600, "maximum distance from the skeleton")
	cmd.Flags().Float64Var(&endcapBuffer, "endcap-buffer", 300, "distance kept past segment ends")
}

func runFilter(cmd *cobra.Command, args []string) error {
	tree, err := loadSkeleton(args[0])
	if err != nil {
		return err
	}
	meshes, err := loadMeshes(args[1:])
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filterOutput, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	segments := tree.Segments()
	radius := settings.Filter.Radius
	buffer := settings.Filter.EndcapBuffer

	fmt.Println("Mesh Filter")
	fmt.Println("===========")
	fmt.Printf("Radius: %.3f  Endcap buffer: %.3f\n\n", radius, buffer)

	written := 0
	for i, m := range meshes {
		source := args[i+1]
		reduced := mesh.FilterNearPolyline(m, segments, radius, buffer)
		if reduced.Empty() {
			fmt.Printf("  %s: no faces within range, skipped\n", source)
			continue
		}

		name := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
		target := filepath.Join(filterOutput, name+"_filtered.stl")
		if err := stl.WriteFile(target, reduced.ToModel(name)); err != nil {
			return err
		}
		written++
		fmt.Printf("  %s: %d/%d faces -> %s\n", source, len(reduced.Faces), len(m.Faces), target)
	}

	fmt.Printf("\n%d of %d meshes written\n", written, len(meshes))
	return nil
}
