package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/AllenInstitute/pycilium/internal/config"
	"github.com/AllenInstitute/pycilium/pkg/fusion"
	"github.com/AllenInstitute/pycilium/pkg/mesh"
	"github.com/AllenInstitute/pycilium/pkg/skeleton"
	"github.com/AllenInstitute/pycilium/version"
	"github.com/spf13/cobra"
)

var (
	configPath string
	workers    int
	verbose    bool

	// settings is populated before any subcommand runs
	settings config.Config
	logger   *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cilium",
	Short: "Estimate cilium radii by fusing skeleton tracings with surface meshes",
	Long: `cilium reads a traced skeleton (CATMAID compact-detail JSON) and one or more
STL surface meshes. Every skeleton vertex is matched to the closest mesh surface
and a ray cast through the mesh from there yields its radius.`,
	Version:           version.GetFullVersion(),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (.yaml, .toml or .json)")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "number of concurrent workers (default: number of CPUs)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup installs the logger and resolves configuration for every subcommand
func setup(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	fusion.SetLogger(logger)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	flags := config.Flags{Workers: workers}
	if f := cmd.Flags().Lookup("radius"); f != nil && f.Changed {
		flags.Radius = &filterRadius
	}
	if f := cmd.Flags().Lookup("endcap-buffer"); f != nil && f.Changed {
		flags.EndcapBuffer = &endcapBuffer
	}
	if err := cfg.Resolve(flags); err != nil {
		return err
	}

	settings = cfg
	logger.Debug("configuration resolved",
		"workers", settings.Workers,
		"filter_radius", settings.Filter.Radius,
		"endcap_buffer", settings.Filter.EndcapBuffer,
		"trace_attempts", settings.Trace.Attempts)
	return nil
}

// loadSkeleton reads a compact-detail skeleton file
func loadSkeleton(path string) (*skeleton.Tree, error) {
	tree, err := skeleton.Load(path)
	if err != nil {
		return nil, fmt.Errorf("error loading skeleton: %w", err)
	}
	logger.Debug("skeleton loaded", "file", path, "vertices", tree.Len(), "edges", tree.EdgeCount())
	return tree, nil
}

// loadMeshes reads STL files in argument order
func loadMeshes(paths []string) ([]*mesh.Mesh, error) {
	meshes := make([]*mesh.Mesh, 0, len(paths))
	for _, path := range paths {
		m, err := mesh.Load(path)
		if err != nil {
			return nil, fmt.Errorf("error loading mesh: %w", err)
		}
		logger.Debug("mesh loaded", "file", path, "vertices", len(m.Vertices), "faces", len(m.Faces))
		meshes = append(meshes, m)
	}
	return meshes, nil
}
