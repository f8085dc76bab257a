// Package storage persists workflow run data and aggregation results as
// timestamped CSV files in a results directory.
package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/naka-gawa/workflow-perf/internal/domain"
)

const (
	runsPrefix    = "github_workflow_data_"
	summaryPrefix = "github_performance_by_author_"

	// Filename timestamps sort lexicographically in chronological order.
	fileTimestampLayout = "20060102_150405"
	createdAtLayout     = "2006-01-02 15:04:05"
)

var runsHeader = []string{
	"author", "workflow_name", "pr_name", "conclusion",
	"head_branch", "base_branch", "run_attempt", "created_at",
}

// ErrNoRunData indicates that no raw workflow data file exists yet.
var ErrNoRunData = errors.New("no workflow data files found")

// WriteRuns writes the runs to a freshly timestamped raw CSV file in dir,
// creating dir if needed, and returns the file's path. A new file is created
// per call; existing files are never overwritten.
func WriteRuns(dir string, runs []domain.BuildRun, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}
	path := filepath.Join(dir, runsPrefix+now.Format(fileTimestampLayout)+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create raw data file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(runsHeader); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, run := range runs {
		record := []string{
			run.Author,
			run.WorkflowName,
			run.PRName,
			string(run.Conclusion),
			run.HeadBranch,
			run.BaseBranch,
			strconv.Itoa(run.RunAttempt),
			run.CreatedAt.Format(createdAtLayout),
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV: %w", err)
	}
	return path, nil
}

// ReadRuns parses a raw CSV file back into runs. Any missing column or
// unparseable cell is a terminating error; there is no per-row recovery.
func ReadRuns(path string) ([]domain.BuildRun, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open raw data file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse raw data file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("raw data file %s has no header row", path)
	}

	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[name] = i
	}
	for _, name := range runsHeader {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("raw data file %s is missing column %q", path, name)
		}
	}

	runs := make([]domain.BuildRun, 0, len(records)-1)
	for i, record := range records[1:] {
		attempt, err := strconv.Atoi(record[col["run_attempt"]])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid run_attempt: %w", i+1, err)
		}
		createdAt, err := time.Parse(createdAtLayout, record[col["created_at"]])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid created_at: %w", i+1, err)
		}
		runs = append(runs, domain.BuildRun{
			Author:       record[col["author"]],
			WorkflowName: record[col["workflow_name"]],
			PRName:       record[col["pr_name"]],
			Conclusion:   domain.Conclusion(record[col["conclusion"]]),
			HeadBranch:   record[col["head_branch"]],
			BaseBranch:   record[col["base_branch"]],
			RunAttempt:   attempt,
			CreatedAt:    createdAt,
		})
	}
	return runs, nil
}

// LatestRunsFile returns the raw CSV file in dir with the greatest embedded
// timestamp. Selection is by the filename's timestamp portion, never by
// filesystem modification time, so the rule survives copies and restores.
func LatestRunsFile(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, runsPrefix+"*.csv"))
	if err != nil {
		return "", fmt.Errorf("failed to list raw data files: %w", err)
	}
	if len(matches) == 0 {
		return "", ErrNoRunData
	}
	latest := matches[0]
	latestKey := timestampKey(latest)
	for _, path := range matches[1:] {
		if key := timestampKey(path); key > latestKey {
			latest, latestKey = path, key
		}
	}
	return latest, nil
}

func timestampKey(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(strings.TrimPrefix(base, runsPrefix), ".csv")
}

// WriteSummary writes the performance records to a freshly timestamped
// summary CSV file in dir and returns the file's path.
func WriteSummary(dir string, records []domain.PerformanceRecord, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}
	path := filepath.Join(dir, summaryPrefix+now.Format(fileTimestampLayout)+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"author", "date_range", "build_ratio"}); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, rec := range records {
		if err := w.Write([]string{rec.Author, rec.DateRange, rec.BuildRatio}); err != nil {
			return "", fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV: %w", err)
	}
	return path, nil
}
