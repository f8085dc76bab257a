// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST client.
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/workflow-perf/internal/domain"
)

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	// FetchWorkflowRuns lists workflow runs for owner/repo, optionally
	// filtered by a created-date expression and capped at limit runs
	// (limit <= 0 means no cap). It returns the normalized runs and the
	// provider-reported total count.
	FetchWorkflowRuns(ctx context.Context, owner, repo, created string, limit int) ([]domain.BuildRun, int, error)
	FetchRepository(ctx context.Context, owner, repo string) (*domain.Repository, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient *github.Client
	logger     *log.Logger
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, logger *log.Logger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient: github.NewClient(httpClient),
		logger:     logger,
	}, nil
}

// FetchRepository fetches the metadata of the repository under analysis.
func (g *GitHubGateway) FetchRepository(ctx context.Context, owner, repo string) (*domain.Repository, error) {
	g.logger.Printf("[1/2] Fetching repository metadata for %s/%s...", owner, repo)
	r, _, err := g.restClient.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository %s/%s: %w", owner, repo, err)
	}
	return &domain.Repository{
		FullName:    r.GetFullName(),
		URL:         r.GetHTMLURL(),
		LastUpdated: r.GetUpdatedAt().Format("2006-01-02"),
	}, nil
}

func (g *GitHubGateway) FetchWorkflowRuns(ctx context.Context, owner, repo, created string, limit int) ([]domain.BuildRun, int, error) {
	g.logger.Println("[2/2] Fetching workflow runs using REST API...")
	opts := &github.ListWorkflowRunsOptions{
		Created:     created,
		ListOptions: github.ListOptions{PerPage: 100},
	}
	var runs []domain.BuildRun
	total := 0
	for {
		result, resp, err := g.restClient.Actions.ListRepositoryWorkflowRuns(ctx, owner, repo, opts)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to list workflow runs: %w", err)
		}
		total = result.GetTotalCount()
		for _, run := range result.WorkflowRuns {
			runs = append(runs, normalizeRun(run))
			if limit > 0 && len(runs) >= limit {
				g.logger.Printf("Reached run limit of %d, stopping.", limit)
				return runs, total, nil
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Println("  Fetching next page of workflow runs...")
	}
	g.logger.Println("Completed fetching workflow runs.")
	return runs, total, nil
}

// normalizeRun flattens a provider run object into a BuildRun. The base
// branch comes from the first linked pull request, if any.
func normalizeRun(run *github.WorkflowRun) domain.BuildRun {
	baseBranch := ""
	if len(run.PullRequests) > 0 {
		baseBranch = run.PullRequests[0].GetBase().GetRef()
	}
	author := ""
	if run.Actor != nil {
		author = run.Actor.GetLogin()
	}
	return domain.BuildRun{
		Author:       author,
		WorkflowName: run.GetName(),
		PRName:       run.GetDisplayTitle(),
		Conclusion:   domain.Conclusion(run.GetConclusion()),
		HeadBranch:   run.GetHeadBranch(),
		BaseBranch:   baseBranch,
		RunAttempt:   run.GetRunAttempt(),
		CreatedAt:    run.GetCreatedAt().Time,
	}
}
