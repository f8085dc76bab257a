// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/workflow-perf/internal/storage"
	"github.com/naka-gawa/workflow-perf/internal/usecase"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Computes per-author weekly build ratios from the latest raw CSV",
	Long: `Loads the most recently written raw workflow data file (selected by the
timestamp embedded in its filename), buckets the runs by author and ISO week
(Monday through Sunday), and writes a summary CSV with one success/failure
ratio per author per week.`,
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := log.New(io.Discard, "", log.LstdFlags)
		if verbose {
			logger.SetOutput(os.Stderr)
		}

		resultsDir, _ := cmd.InheritedFlags().GetString("results-dir")

		path, err := storage.LatestRunsFile(resultsDir)
		if err != nil {
			if errors.Is(err, storage.ErrNoRunData) {
				fmt.Println("No GitHub workflow data files found in the results directory.")
				return
			}
			fmt.Fprintf(os.Stderr, "Failed to locate raw data file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Using data from: %s\n", filepath.Base(path))

		runs, err := storage.ReadRuns(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read raw data file: %v\n", err)
			os.Exit(1)
		}

		aggregator := usecase.NewAggregator(logger)
		records := aggregator.Aggregate(runs)

		outPath, err := storage.WriteSummary(resultsDir, records, time.Now())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write summary file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Results saved to: %s\n", outPath)
	},
}

func init() {
	rootCmd.AddCommand(aggregateCmd)
}
