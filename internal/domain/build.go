// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// Conclusion is the terminal status of a workflow run. It is empty while a
// run is still in progress.
type Conclusion string

const (
	ConclusionSuccess   Conclusion = "success"
	ConclusionFailure   Conclusion = "failure"
	ConclusionCancelled Conclusion = "cancelled"
	ConclusionSkipped   Conclusion = "skipped"
)

// BuildRun is one GitHub Actions workflow run, flattened to the fields the
// performance calculation needs. Author and BaseBranch are empty when the run
// has no actor or no linked pull request.
type BuildRun struct {
	Author       string     `json:"author"`
	WorkflowName string     `json:"workflow_name"`
	PRName       string     `json:"pr_name"`
	Conclusion   Conclusion `json:"conclusion"`
	HeadBranch   string     `json:"head_branch"`
	BaseBranch   string     `json:"base_branch"`
	RunAttempt   int        `json:"run_attempt"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Repository holds the metadata of the repository being analyzed.
type Repository struct {
	FullName    string `json:"repository"`
	URL         string `json:"url"`
	LastUpdated string `json:"last_updated"`
}

// Report is the result of one fetch run: the repository metadata, the
// provider's total run count, and the normalized builds.
// TotalCount is the provider-reported total, which may exceed len(Builds)
// when a limit was applied.
type Report struct {
	Repository string     `json:"repository"`
	URL        string     `json:"url"`
	TotalCount int        `json:"total_count"`
	Builds     []BuildRun `json:"builds"`
}

// WeekRange is a Monday-through-Sunday aggregation bucket.
type WeekRange struct {
	Start time.Time
	End   time.Time
}

// WeekOf returns the week containing t: Start is the Monday on or before t's
// date, End is six days later.
func WeekOf(t time.Time) WeekRange {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	// time.Weekday counts Sunday as 0; shift so Monday is 0.
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return WeekRange{Start: start, End: start.AddDate(0, 0, 6)}
}

// String renders the range as "YYYY-MM-DD...YYYY-MM-DD".
func (w WeekRange) String() string {
	const layout = "2006-01-02"
	return w.Start.Format(layout) + "..." + w.End.Format(layout)
}

// PerformanceRecord is one row of the aggregation output: an author's build
// success/failure ratio for one week. BuildRatio is a decimal string, or
// "inf" when the author had successes and no failures, or "0" when the
// bucket had neither.
type PerformanceRecord struct {
	Author     string `json:"author"`
	DateRange  string `json:"date_range"`
	BuildRatio string `json:"build_ratio"`
}
