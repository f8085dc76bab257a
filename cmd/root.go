// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "workflow-perf",
	Short: "A CLI tool to analyze GitHub Actions build performance per author.",
	Long: `workflow-perf fetches GitHub Actions workflow run history for a repository
and derives a per-author, per-week build success/failure ratio.

Data flows through two batch stages: "fetch" writes the raw run history to a
timestamped CSV file, and "aggregate" folds the latest raw file into a weekly
performance summary CSV.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("results-dir", "results", "Directory for raw and summary CSV files")
}
