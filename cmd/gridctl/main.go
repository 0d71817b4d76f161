// Package main is the entry point for gridctl, which builds a grid from a
// config file and a data file and runs page scripts against it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gridctl",
		Short:         "Drive a data grid's selection and row features from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "gridctl %s\n", version)
			fmt.Fprintf(out, "Commit: %s\n", commit)
			fmt.Fprintf(out, "Built: %s\n", date)
		},
	}
}
