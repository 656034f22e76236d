package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/AllenInstitute/pycilium/pkg/analysis"
	"github.com/AllenInstitute/pycilium/pkg/fusion"
	"github.com/AllenInstitute/pycilium/pkg/skeleton"
	"github.com/AllenInstitute/pycilium/pkg/watcher"
	"github.com/spf13/cobra"
)

var (
	fuseFilter  bool
	fuseSWC     string
	fuseWatch   bool
	fuseSummary bool
)

var fuseCmd = &cobra.Command{
	Use:   "fuse [skeleton] [mesh...]",
	Short: "Estimate skeleton radii from surface meshes",
	Long: `Match every skeleton vertex to the closest surface of the given meshes and
trace a ray through the mesh from there to estimate the vertex radius.

With --filter the meshes are first cut down to the skeleton neighbourhood.
With --watch the estimate is recomputed whenever an input file changes.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runFuse,
}

func init() {
	rootCmd.AddCommand(fuseCmd)

	addFilterFlags(fuseCmd)
	fuseCmd.Flags().BoolVar(&fuseFilter, "filter", false, "restrict meshes to the skeleton neighbourhood first")
	fuseCmd.Flags().StringVar(&fuseSWC, "swc", "", "write the annotated skeleton as SWC to this file")
	fuseCmd.Flags().BoolVarP(&fuseWatch, "watch", "w", false, "rerun when the skeleton or a mesh changes")
	fuseCmd.Flags().BoolVar(&fuseSummary, "summary", false, "print only the radius summary")
}

func runFuse(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := fuseOnce(ctx, args)
	if !fuseWatch {
		return err
	}
	if err != nil {
		logger.Error("fusion failed", "error", err)
	}

	w, err := watcher.New(settings.Debounce(), logger)
	if err != nil {
		return err
	}
	if err := w.Add(args...); err != nil {
		w.Close()
		return err
	}

	fmt.Printf("\nWatching %d files, press Ctrl+C to stop\n", len(args))
	return w.Run(ctx, func(changed []string) {
		logger.Info("inputs changed", "files", strings.Join(changed, ", "))
		if err := fuseOnce(ctx, args); err != nil {
			logger.Error("fusion failed", "error", err)
		}
	})
}

func fuseOnce(ctx context.Context, args []string) error {
	tree, err := loadSkeleton(args[0])
	if err != nil {
		return err
	}
	meshes, err := loadMeshes(args[1:])
	if err != nil {
		return err
	}

	fuser := fusion.New(settings.Fusion())
	var annotated *skeleton.Tree
	var assignments fusion.Assignments
	if fuseFilter {
		annotated, assignments, err = fuser.FuseFiltered(ctx, tree, meshes, settings.MeshFilter())
	} else {
		annotated, assignments, err = fuser.FuseTree(ctx, tree, meshes)
	}
	if err != nil {
		return err
	}

	fmt.Println("Radius Estimate")
	fmt.Println("===============")
	fmt.Printf("Skeleton: %s\n", args[0])
	fmt.Printf("Meshes: %d\n\n", len(meshes))

	if !fuseSummary {
		fmt.Printf("  %6s %12s %5s %12s %12s\n", "vertex", "node", "mesh", "distance", "radius")
		for i, a := range assignments {
			fmt.Printf("  %6d %12d %5d %12.3f %12s\n", i, tree.Node(i).ID, a.Mesh, a.Distance, analysis.FormatRadius(a.Radius))
		}
		fmt.Println()
	}

	summary := analysis.SummarizeRadii(assignments)
	fmt.Println("Radii:")
	printSummary(summary.Summary)
	fmt.Printf("  Unresolved: %d\n", summary.Unresolved)
	fmt.Printf("  Mean surface distance: %s\n", analysis.FormatMeasurement(summary.MeanDistance, ""))

	if fuseSWC != "" {
		if err := skeleton.WriteSWCFile(fuseSWC, annotated); err != nil {
			return err
		}
		fmt.Printf("\nWrote annotated skeleton to %s\n", fuseSWC)
	}
	return nil
}
