package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "coursetrans",
	Short: "Course translation pipeline",
	Long: `coursetrans captures course UI strings as translation keys and
translates them in batches through an AI provider, tracking progress
per course job.`,
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
