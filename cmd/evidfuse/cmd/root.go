// Package cmd implements the evidfuse command line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "evidfuse",
	Short: "Adaptive evidence fusion for group decision analysis",
	Long: `evidfuse fuses the pairwise-comparison judgments of an expert panel
into a ranked assessment of decision alternatives. Judgments are turned
into basic probability assignments, discounted by expert importance, and
combined per criterion and across criteria with an adaptive rule that
normalizes low-conflict evidence and preserves high-conflict evidence as
ignorance. The result is a belief-plausibility interval and a rank for
every alternative.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
