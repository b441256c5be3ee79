package cache

import (
	"context"

	"legaldraft-analyzer/internal/kanoon"
	"legaldraft-analyzer/internal/pkg/logger"
)

// SearchStore is the storage side of a search cache.
type SearchStore interface {
	Get(ctx context.Context, q kanoon.Query) (*kanoon.Response, bool, error)
	Set(ctx context.Context, q kanoon.Query, resp *kanoon.Response) error
}

type Searcher interface {
	Search(ctx context.Context, q kanoon.Query) (*kanoon.Response, error)
}

// CachedSearcher serves repeated queries from the store. Cache faults are
// logged and fall through to the upstream; errors are never cached.
type CachedSearcher struct {
	next  Searcher
	store SearchStore
	log   *logger.Logger
}

func NewCachedSearcher(next Searcher, store SearchStore, log *logger.Logger) *CachedSearcher {
	if log == nil {
		log = logger.Nop()
	}
	return &CachedSearcher{next: next, store: store, log: log}
}

func (s *CachedSearcher) Search(ctx context.Context, q kanoon.Query) (*kanoon.Response, error) {
	cached, ok, err := s.store.Get(ctx, q)
	if err != nil {
		s.log.Warn("search cache read failed", "query", q.Text, "error", err)
	} else if ok {
		return cached, nil
	}

	resp, err := s.next.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	if err := s.store.Set(ctx, q, resp); err != nil {
		s.log.Warn("search cache write failed", "query", q.Text, "error", err)
	}
	return resp, nil
}
