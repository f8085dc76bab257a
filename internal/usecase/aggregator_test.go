package usecase

import (
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/naka-gawa/workflow-perf/internal/domain"
)

func run(author string, conclusion domain.Conclusion, attempt int, created string) domain.BuildRun {
	t, err := time.Parse("2006-01-02 15:04:05", created)
	if err != nil {
		panic(err)
	}
	return domain.BuildRun{
		Author:     author,
		Conclusion: conclusion,
		RunAttempt: attempt,
		CreatedAt:  t,
	}
}

// TestAggregator_Aggregate uses a table-driven approach to test the aggregator.
func TestAggregator_Aggregate(t *testing.T) {
	testCases := []struct {
		name     string
		runs     []domain.BuildRun
		expected []domain.PerformanceRecord
	}{
		{
			name:     "no runs produce no records",
			runs:     nil,
			expected: []domain.PerformanceRecord{},
		},
		{
			name: "successes with no failures produce inf",
			runs: []domain.BuildRun{
				run("alice", domain.ConclusionSuccess, 1, "2024-01-02 10:00:00"),
				run("alice", domain.ConclusionSuccess, 1, "2024-01-03 10:00:00"),
				run("alice", domain.ConclusionSuccess, 1, "2024-01-04 10:00:00"),
				run("alice", domain.ConclusionSuccess, 1, "2024-01-05 10:00:00"),
				run("alice", domain.ConclusionSuccess, 1, "2024-01-06 10:00:00"),
			},
			expected: []domain.PerformanceRecord{
				{Author: "alice", DateRange: "2024-01-01...2024-01-07", BuildRatio: "inf"},
			},
		},
		{
			name: "neither success nor failure produces a zero ratio",
			runs: []domain.BuildRun{
				run("alice", domain.ConclusionCancelled, 1, "2024-01-02 10:00:00"),
				run("alice", domain.ConclusionSkipped, 1, "2024-01-03 10:00:00"),
			},
			expected: []domain.PerformanceRecord{
				{Author: "alice", DateRange: "2024-01-01...2024-01-07", BuildRatio: "0"},
			},
		},
		{
			name: "ratio is rounded to two decimals",
			runs: []domain.BuildRun{
				run("alice", domain.ConclusionSuccess, 1, "2024-01-02 10:00:00"),
				run("alice", domain.ConclusionSuccess, 1, "2024-01-02 11:00:00"),
				run("alice", domain.ConclusionSuccess, 1, "2024-01-02 12:00:00"),
				run("alice", domain.ConclusionFailure, 1, "2024-01-03 10:00:00"),
				run("alice", domain.ConclusionFailure, 1, "2024-01-03 11:00:00"),
			},
			expected: []domain.PerformanceRecord{
				{Author: "alice", DateRange: "2024-01-01...2024-01-07", BuildRatio: "1.5"},
			},
		},
		{
			name: "retries count as failures even on a successful run",
			runs: []domain.BuildRun{
				// success=1, failure=0+3 retries -> 1/3 = 0.33
				run("alice", domain.ConclusionSuccess, 4, "2024-01-02 10:00:00"),
			},
			expected: []domain.PerformanceRecord{
				{Author: "alice", DateRange: "2024-01-01...2024-01-07", BuildRatio: "0.33"},
			},
		},
		{
			name: "sunday and monday runs split across bucket boundaries",
			runs: []domain.BuildRun{
				run("alice", domain.ConclusionSuccess, 1, "2024-01-07 23:00:00"), // Sunday, first week
				run("alice", domain.ConclusionSuccess, 1, "2024-01-08 00:00:00"), // Monday, second week
			},
			expected: []domain.PerformanceRecord{
				{Author: "alice", DateRange: "2024-01-01...2024-01-07", BuildRatio: "inf"},
				{Author: "alice", DateRange: "2024-01-08...2024-01-14", BuildRatio: "inf"},
			},
		},
		{
			name: "authors accumulate in separate buckets",
			runs: []domain.BuildRun{
				run("bob", domain.ConclusionFailure, 1, "2024-01-02 10:00:00"),
				run("alice", domain.ConclusionSuccess, 1, "2024-01-02 10:00:00"),
				run("bob", domain.ConclusionSuccess, 1, "2024-01-03 10:00:00"),
			},
			expected: []domain.PerformanceRecord{
				{Author: "alice", DateRange: "2024-01-01...2024-01-07", BuildRatio: "inf"},
				{Author: "bob", DateRange: "2024-01-01...2024-01-07", BuildRatio: "1"},
			},
		},
		{
			name: "end to end - explicit failure plus a retry balance the successes",
			runs: []domain.BuildRun{
				run("alice", domain.ConclusionSuccess, 1, "2024-01-02 10:00:00"),
				run("alice", domain.ConclusionFailure, 1, "2024-01-03 10:00:00"),
				run("alice", domain.ConclusionSuccess, 2, "2024-01-04 10:00:00"),
			},
			// success=2, failure=1 explicit + 1 retry -> ratio 1
			expected: []domain.PerformanceRecord{
				{Author: "alice", DateRange: "2024-01-01...2024-01-07", BuildRatio: "1"},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			aggregator := NewAggregator(log.New(io.Discard, "", 0))
			assert.Equal(t, tc.expected, aggregator.Aggregate(tc.runs))
		})
	}
}

// TestAggregator_Aggregate_Idempotent verifies that folding the same input
// twice yields identical records.
func TestAggregator_Aggregate_Idempotent(t *testing.T) {
	runs := []domain.BuildRun{
		run("alice", domain.ConclusionSuccess, 2, "2024-01-02 10:00:00"),
		run("bob", domain.ConclusionFailure, 1, "2024-01-09 10:00:00"),
		run("alice", domain.ConclusionCancelled, 3, "2024-01-10 10:00:00"),
	}
	aggregator := NewAggregator(log.New(io.Discard, "", 0))
	assert.Equal(t, aggregator.Aggregate(runs), aggregator.Aggregate(runs))
}

func TestBuildRatio(t *testing.T) {
	testCases := []struct {
		name     string
		success  int
		failure  int
		expected string
	}{
		{name: "successes only", success: 5, failure: 0, expected: "inf"},
		{name: "empty bucket", success: 0, failure: 0, expected: "0"},
		{name: "simple ratio", success: 3, failure: 2, expected: "1.5"},
		{name: "repeating decimal rounds", success: 1, failure: 3, expected: "0.33"},
		{name: "failures only", success: 0, failure: 4, expected: "0"},
		{name: "even ratio", success: 2, failure: 2, expected: "1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, buildRatio(tc.success, tc.failure))
		})
	}
}
