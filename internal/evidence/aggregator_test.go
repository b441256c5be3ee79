package evidence

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legaldraft-analyzer/internal/kanoon"
	"legaldraft-analyzer/internal/model"
)

type stubSearcher struct {
	mu      sync.Mutex
	queries []kanoon.Query
	fn      func(q kanoon.Query) (*kanoon.Response, error)
}

func (s *stubSearcher) Search(_ context.Context, q kanoon.Query) (*kanoon.Response, error) {
	s.mu.Lock()
	s.queries = append(s.queries, q)
	s.mu.Unlock()
	return s.fn(q)
}

func strPtr(s string) *string { return &s }

func responseOf(n int, prefix string) *kanoon.Response {
	docs := make([]kanoon.Document, 0, n)
	for i := 0; i < n; i++ {
		docs = append(docs, kanoon.Document{CaseName: strPtr(fmt.Sprintf("%s-%d", prefix, i))})
	}
	return kanoon.NewResponse(docs...)
}

func TestAggregate_OrderAndTruncation(t *testing.T) {
	issues := []model.Issue{"first", "second", "third", "fourth", "fifth"}
	s := &stubSearcher{fn: func(q kanoon.Query) (*kanoon.Response, error) {
		// Staggered so completions arrive out of input order.
		time.Sleep(time.Duration(len(q.Text)) * time.Millisecond)
		return responseOf(5, q.Text), nil
	}}
	a := &Aggregator{Searcher: s, Workers: 3}

	results := a.Aggregate(context.Background(), issues)
	require.Len(t, results, len(issues))
	for i, r := range results {
		assert.Equal(t, issues[i], r.Issue)
		assert.Empty(t, r.Error)
		require.Len(t, r.Cases, MatchesPerIssue)
		assert.Equal(t, issues[i]+"-0", *r.Cases[0].Name)
	}
}

func TestAggregate_QueryShape(t *testing.T) {
	s := &stubSearcher{fn: func(kanoon.Query) (*kanoon.Response, error) { return &kanoon.Response{}, nil }}
	(&Aggregator{Searcher: s, Workers: 1}).Aggregate(context.Background(), []model.Issue{"only"})

	require.Len(t, s.queries, 1)
	assert.Equal(t, "only", s.queries[0].Text)
	assert.Equal(t, 5, s.queries[0].MaxCites)
	assert.Equal(t, []string{"supremecourt", "highcourts"}, s.queries[0].DocTypes)
}

func TestAggregate_FailureIsolation(t *testing.T) {
	s := &stubSearcher{fn: func(q kanoon.Query) (*kanoon.Response, error) {
		if q.Text == "bad" {
			return nil, errors.New("boom")
		}
		return responseOf(1, q.Text), nil
	}}
	results := (&Aggregator{Searcher: s}).Aggregate(context.Background(), []model.Issue{"good", "bad", "also good"})

	require.Len(t, results, 3)
	assert.Len(t, results[0].Cases, 1)
	assert.Equal(t, "boom", results[1].Error)
	assert.NotNil(t, results[1].Cases)
	assert.Empty(t, results[1].Cases)
	assert.Len(t, results[2].Cases, 1)
	assert.Empty(t, results[2].Error)
}

func TestAggregate_AllFail(t *testing.T) {
	s := &stubSearcher{fn: func(kanoon.Query) (*kanoon.Response, error) {
		return nil, &kanoon.ServiceError{StatusCode: 503, Body: "down"}
	}}
	issues := []model.Issue{"a", "b", "c"}
	results := (&Aggregator{Searcher: s}).Aggregate(context.Background(), issues)

	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, issues[i], r.Issue)
		assert.Empty(t, r.Cases)
		assert.Contains(t, r.Error, "503")
	}
}

func TestAggregate_PanicRecovered(t *testing.T) {
	s := &stubSearcher{fn: func(q kanoon.Query) (*kanoon.Response, error) {
		if q.Text == "explode" {
			panic("nil map")
		}
		return responseOf(2, q.Text), nil
	}}
	results := (&Aggregator{Searcher: s}).Aggregate(context.Background(), []model.Issue{"explode", "fine"})

	require.Len(t, results, 2)
	assert.Contains(t, results[0].Error, "nil map")
	assert.Empty(t, results[0].Cases)
	assert.Len(t, results[1].Cases, 2)
}

func TestAggregate_NoRetries(t *testing.T) {
	var calls atomic.Int32
	s := &stubSearcher{fn: func(kanoon.Query) (*kanoon.Response, error) {
		calls.Add(1)
		return nil, errors.New("fail")
	}}
	(&Aggregator{Searcher: s}).Aggregate(context.Background(), []model.Issue{"a", "b"})
	assert.Equal(t, int32(2), calls.Load())
}

func TestAggregate_BoundedConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	s := &stubSearcher{fn: func(kanoon.Query) (*kanoon.Response, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		inFlight.Add(-1)
		return &kanoon.Response{}, nil
	}}
	issues := make([]model.Issue, 10)
	for i := range issues {
		issues[i] = fmt.Sprintf("issue-%d", i)
	}
	(&Aggregator{Searcher: s, Workers: 2}).Aggregate(context.Background(), issues)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

type blockingSearcher struct{}

func (blockingSearcher) Search(ctx context.Context, _ kanoon.Query) (*kanoon.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestAggregate_QueryTimeoutBoundsEachSearch(t *testing.T) {
	start := time.Now()
	results := (&Aggregator{Searcher: blockingSearcher{}, QueryTimeout: 20 * time.Millisecond}).
		Aggregate(context.Background(), []model.Issue{"a", "b"})

	assert.Less(t, time.Since(start), 2*time.Second)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Empty(t, r.Cases)
		assert.Contains(t, r.Error, "deadline exceeded")
	}
}

func TestAggregate_Empty(t *testing.T) {
	s := &stubSearcher{fn: func(kanoon.Query) (*kanoon.Response, error) { return &kanoon.Response{}, nil }}
	results := (&Aggregator{Searcher: s}).Aggregate(context.Background(), nil)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestAggregate_WithKanoonClient(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("formInput") == "second" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"results":[{"caseName":"X v. Y","citation":"AIR 1978 SC 597","fragmentText":"audi alteram partem"}]}`)
	}))
	defer ts.Close()

	client := kanoon.NewClient(kanoon.Config{BaseURL: ts.URL, PublicKey: "pk", PrivateKey: "sk"}, ts.Client())
	results := (&Aggregator{Searcher: client}).Aggregate(context.Background(), []model.Issue{"first", "second", "third"})

	require.Len(t, results, 3)
	assert.Len(t, results[0].Cases, 1)
	assert.Equal(t, "AIR 1978 SC 597", *results[0].Cases[0].Citation)
	assert.Empty(t, results[1].Cases)
	assert.Contains(t, results[1].Error, "500")
	assert.Len(t, results[2].Cases, 1)
}
