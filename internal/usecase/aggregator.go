package usecase

import (
	"log"
	"sort"
	"strconv"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/workflow-perf/internal/domain"
)

// Aggregator is the use case for computing per-author weekly build ratios.
type Aggregator struct {
	logger *log.Logger
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(logger *log.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

// bucketKey identifies one (author, week) accumulation bucket.
type bucketKey struct {
	author    string
	dateRange string
}

// tally holds the counters of one bucket.
type tally struct {
	success int
	failure int
}

// Aggregate folds the runs into (author, ISO week) buckets and computes a
// success-to-failure ratio per bucket. Every run lands in exactly one bucket:
// a "success" conclusion increments success, a "failure" conclusion
// increments failure, any other conclusion increments neither, and every run
// additionally adds its retries (run_attempt - 1) to failure regardless of
// its final conclusion. A successful run that needed retries is therefore
// penalized; that is the established behavior and kept as is.
func (a *Aggregator) Aggregate(runs []domain.BuildRun) []domain.PerformanceRecord {
	a.logger.Printf("Usecase: Aggregating %d workflow runs...", len(runs))

	buckets := make(map[bucketKey]*tally)
	ensureTally := func(key bucketKey) *tally {
		t, ok := buckets[key]
		if !ok {
			t = &tally{}
			buckets[key] = t
		}
		return t
	}

	for _, run := range runs {
		week := domain.WeekOf(run.CreatedAt)
		t := ensureTally(bucketKey{author: run.Author, dateRange: week.String()})
		switch run.Conclusion {
		case domain.ConclusionSuccess:
			t.success++
		case domain.ConclusionFailure:
			t.failure++
		}
		t.failure += run.RunAttempt - 1
	}

	records := make([]domain.PerformanceRecord, 0, len(buckets))
	for key, t := range buckets {
		records = append(records, domain.PerformanceRecord{
			Author:     key.author,
			DateRange:  key.dateRange,
			BuildRatio: buildRatio(t.success, t.failure),
		})
	}
	// Sort by author then week for deterministic output.
	sort.Slice(records, func(i, j int) bool {
		if records[i].Author != records[j].Author {
			return records[i].Author < records[j].Author
		}
		return records[i].DateRange < records[j].DateRange
	})

	a.logger.Printf("Usecase: Produced %d performance records.", len(records))
	return records
}

// buildRatio renders success/failure rounded to two decimals. A bucket with
// successes and no failures is "inf"; a bucket with neither is "0".
func buildRatio(success, failure int) string {
	if failure == 0 {
		if success > 0 {
			return "inf"
		}
		return "0"
	}
	ratio, err := stats.Round(float64(success)/float64(failure), 2)
	if err != nil {
		// Round only fails on NaN, which finite counters cannot produce.
		return "0"
	}
	return strconv.FormatFloat(ratio, 'f', -1, 64)
}
