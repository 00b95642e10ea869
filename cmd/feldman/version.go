package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/taurusgroup/feldman-vss/pkg/math/curve"
)

// Version information, set via ldflags at build time
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "feldman version %s\n", Version)
		fmt.Fprintf(out, "Git commit: %s\n", GitCommit)
		fmt.Fprintf(out, "Curve: %s\n", curve.Name)
		fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
	},
}
