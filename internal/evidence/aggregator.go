// Package evidence attaches case-law precedents to each spotted issue.
package evidence

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"legaldraft-analyzer/internal/kanoon"
	"legaldraft-analyzer/internal/model"
	"legaldraft-analyzer/internal/pkg/logger"
)

const (
	MaxCites        = 5
	MatchesPerIssue = 3
	DefaultWorkers  = 4
)

// DocTypes restricts searches to appellate courts.
var DocTypes = []string{"supremecourt", "highcourts"}

// Searcher runs one case-law query.
type Searcher interface {
	Search(ctx context.Context, q kanoon.Query) (*kanoon.Response, error)
}

type Aggregator struct {
	Searcher Searcher
	// Workers bounds concurrent searches; values below 1 use DefaultWorkers.
	Workers int
	// QueryTimeout, when set, bounds each individual search.
	QueryTimeout time.Duration
	Logger       *logger.Logger
}

// QueryFor builds the search issued for a single issue.
func QueryFor(issue model.Issue) kanoon.Query {
	return kanoon.Query{Text: issue, MaxCites: MaxCites, DocTypes: DocTypes}
}

// Aggregate returns exactly one result per issue, in input order. A failed
// search yields an empty case list with the error text and never affects
// the other issues.
func (a *Aggregator) Aggregate(ctx context.Context, issues []model.Issue) []model.IssueResult {
	results := make([]model.IssueResult, len(issues))
	workers := a.Workers
	if workers < 1 {
		workers = DefaultWorkers
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, issue := range issues {
		g.Go(func() error {
			results[i] = a.lookup(ctx, issue)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (a *Aggregator) lookup(ctx context.Context, issue model.Issue) (res model.IssueResult) {
	res = model.IssueResult{Issue: issue, Cases: []model.PrecedentMatch{}}
	defer func() {
		if r := recover(); r != nil {
			res.Cases = []model.PrecedentMatch{}
			res.Error = fmt.Sprintf("search panicked: %v", r)
			a.log().Error("precedent search panicked", "issue", issue, "panic", r)
		}
	}()

	if a.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.QueryTimeout)
		defer cancel()
	}

	resp, err := a.Searcher.Search(ctx, QueryFor(issue))
	if err != nil {
		res.Error = err.Error()
		a.log().Warn("precedent search failed", "issue", issue, "error", err)
		return res
	}
	res.Cases = resp.Matches(MatchesPerIssue)
	return res
}

func (a *Aggregator) log() *logger.Logger {
	if a.Logger == nil {
		return logger.Nop()
	}
	return a.Logger
}
