package main

import (
	"fmt"
	"os"

	"github.com/AllenInstitute/pycilium/pkg/skeleton"
	"github.com/spf13/cobra"
)

var swcOutput string

var swcCmd = &cobra.Command{
	Use:   "swc [skeleton]",
	Short: "Convert a skeleton to SWC",
	Long:  "Write the skeleton in SWC format to a file, or to standard output when no file is given.",
	Args:  cobra.ExactArgs(1),
	RunE:  runSWC,
}

func init() {
	rootCmd.AddCommand(swcCmd)

	swcCmd.Flags().StringVarP(&swcOutput, "output", "o", "", "output file (default: stdout)")
}

func runSWC(cmd *cobra.Command, args []string) error {
	tree, err := loadSkeleton(args[0])
	if err != nil {
		return err
	}

	if swcOutput == "" {
		return skeleton.WriteSWC(os.Stdout, tree)
	}
	if err := skeleton.WriteSWCFile(swcOutput, tree); err != nil {
		return err
	}
	fmt.Printf("Wrote %d vertices to %s\n", tree.Len(), swcOutput)
	return nil
}
