// Package evidence resolves company websites and triangulates machine and
// brand evidence from external search snippets.
package evidence

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sparetex/leadgen-cli/internal/resilience"
	"github.com/sparetex/leadgen-cli/pkg/brave"
)

// Searcher wraps the search client with caching, rate limiting, and a
// circuit breaker. Every external query in this package goes through it.
type Searcher struct {
	client  brave.Client
	cache   Cache
	limiter *rate.Limiter
	breaker *resilience.CircuitBreaker
	retry   resilience.RetryConfig
}

// NewSearcher creates a Searcher. limiter enforces the minimum inter-call
// delay; cache deduplicates queries by text.
func NewSearcher(client brave.Client, cache Cache, limiter *rate.Limiter) *Searcher {
	return &Searcher{
		client:  client,
		cache:   cache,
		limiter: limiter,
		breaker: resilience.NewCircuitBreaker(5, 30*time.Second),
		retry: resilience.RetryConfig{
			MaxAttempts:    3,
			InitialBackoff: time.Second,
			ShouldRetry: func(err error) bool {
				return brave.IsRetryable(err) || resilience.IsTransient(err)
			},
		},
	}
}

// Search returns cached results when available, otherwise rate-limits and
// calls the API. A cache hit consumes no rate-limit budget.
func (s *Searcher) Search(ctx context.Context, query string, count int) ([]brave.Result, error) {
	if results, ok, err := s.cache.Get(ctx, query); err != nil {
		zap.L().Warn("search cache read failed", zap.String("query", query), zap.Error(err))
	} else if ok {
		zap.L().Debug("search cache hit", zap.String("query", query))
		return results, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "evidence: rate limit wait")
	}

	results, err := resilience.ExecuteVal(ctx, s.breaker, func(ctx context.Context) ([]brave.Result, error) {
		return resilience.DoVal(ctx, s.retry, func(ctx context.Context) ([]brave.Result, error) {
			return s.client.Search(ctx, query, count)
		})
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, query, results); err != nil {
		zap.L().Warn("search cache write failed", zap.String("query", query), zap.Error(err))
	}
	return results, nil
}
