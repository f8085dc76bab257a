// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"log"

	"github.com/naka-gawa/workflow-perf/internal/domain"
	"github.com/naka-gawa/workflow-perf/internal/gateway"
)

// Fetcher is the use case for collecting workflow run history.
type Fetcher struct {
	gateway gateway.Fetcher
	logger  *log.Logger
}

// NewFetcher creates a new Fetcher instance.
func NewFetcher(gw gateway.Fetcher, logger *log.Logger) *Fetcher {
	return &Fetcher{
		gateway: gw,
		logger:  logger,
	}
}

// Fetch retrieves the repository metadata and its workflow runs, applying the
// created-date filter and run limit.
//
// A repository metadata failure aborts the whole run. A failure while listing
// runs is logged and degraded to an empty result (TotalCount 0, no builds),
// so callers see "no data" and "listing failed" identically.
func (f *Fetcher) Fetch(ctx context.Context, owner, repo, created string, limit int) (*domain.Report, error) {
	f.logger.Println("Usecase: Starting workflow run collection...")

	meta, err := f.gateway.FetchRepository(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	runs, total, err := f.gateway.FetchWorkflowRuns(ctx, owner, repo, created, limit)
	if err != nil {
		f.logger.Printf("Error getting workflow runs: %v", err)
		runs, total = []domain.BuildRun{}, 0
	}
	if runs == nil {
		runs = []domain.BuildRun{}
	}

	f.logger.Printf("Usecase: Collected %d of %d workflow runs.", len(runs), total)
	return &domain.Report{
		Repository: meta.FullName,
		URL:        meta.URL,
		TotalCount: total,
		Builds:     runs,
	}, nil
}
