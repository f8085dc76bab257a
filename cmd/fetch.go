// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/workflow-perf/internal/config"
	"github.com/naka-gawa/workflow-perf/internal/gateway"
	"github.com/naka-gawa/workflow-perf/internal/storage"
	"github.com/naka-gawa/workflow-perf/internal/usecase"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetches workflow run history and writes it to a raw CSV file",
	Long: `Fetches GitHub Actions workflow runs for the configured repository,
optionally filtered by creation date and capped in count, and writes one
normalized row per run to a timestamped CSV file in the results directory.

The repository is configured through the GITHUB_OWNER, GITHUB_REPO and
GITHUB_TOKEN environment variables (a .env file is honored).`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		// Get the verbose flag from the root command to set up the logger.
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
		if verbose {
			logger.SetOutput(os.Stderr) // If verbose, log to standard error.
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		resultsDir, _ := cmd.InheritedFlags().GetString("results-dir")
		dateExpr, _ := cmd.Flags().GetString("date")
		startDate, _ := cmd.Flags().GetString("start-date")
		endDate, _ := cmd.Flags().GetString("end-date")
		days, _ := cmd.Flags().GetInt("days")
		limit, _ := cmd.Flags().GetInt("limit")
		output, _ := cmd.Flags().GetString("output")

		// An explicit --date expression is passed through verbatim;
		// otherwise the filter is built from the individual bounds.
		created := dateExpr
		if created == "" {
			created = gateway.FormatDateRange(startDate, endDate, days, time.Now())
		}

		// Inject dependencies and run the main business logic.
		githubGateway, err := gateway.NewGitHubGateway(cfg.Token, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}
		fetcher := usecase.NewFetcher(githubGateway, logger)

		report, err := fetcher.Fetch(ctx, cfg.Owner, cfg.Repo, created, limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to fetch workflow runs: %v\n", err)
			os.Exit(1)
		}

		// Echo each normalized run as it will appear in the CSV.
		for i, run := range report.Builds {
			fmt.Printf("%d: %s,%s,%s,%s,%s,%s,%d,%s\n",
				i+1, run.Author, run.WorkflowName, run.PRName, run.Conclusion,
				run.HeadBranch, run.BaseBranch, run.RunAttempt,
				run.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		path, err := storage.WriteRuns(resultsDir, report.Builds, time.Now())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write raw data file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nData saved to %s\n", path)

		if output != "" {
			jsonData, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to marshal report to JSON: %v\n", err)
				os.Exit(1)
			}
			if err := os.WriteFile(output, jsonData, 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to write JSON report: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Full report saved to %s\n", output)
		}
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().String("date", "", "Creation-date filter expression (e.g. 2024-01-24, 2024-01-01..2024-01-31, >=2023-12-31)")
	fetchCmd.Flags().String("start-date", "", "Start date for filtering workflow runs (YYYY-MM-DD)")
	fetchCmd.Flags().String("end-date", "", "End date for filtering workflow runs (YYYY-MM-DD)")
	fetchCmd.Flags().Int("days", -1, "Get workflow runs from the last N days")
	fetchCmd.Flags().Int("limit", 0, "Limit the number of workflow runs to process (0 = no limit)")
	fetchCmd.Flags().String("output", "", "Also save the full report to the specified JSON file")
}
