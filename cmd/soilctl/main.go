// Package main provides soilctl, an offline client for the soil analysis engine.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "soilctl",
		Short: "Score soil readings and suggest crops",
		Long: `soilctl runs the soil analysis engine locally. It scores a parameter set,
lists suitable crops for a set of readings and applies database migrations.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newCropsCmd(),
		newMigrateCmd(),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
