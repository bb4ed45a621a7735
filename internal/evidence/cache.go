package evidence

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sparetex/leadgen-cli/internal/store"
	"github.com/sparetex/leadgen-cli/pkg/brave"
)

// Cache stores search results keyed by query text. Entries are write-once
// per key within their TTL; repeat queries must never hit the paid API twice.
type Cache interface {
	Get(ctx context.Context, query string) ([]brave.Result, bool, error)
	Set(ctx context.Context, query string, results []brave.Result) error
}

type memoryEntry struct {
	results   []brave.Result
	expiresAt time.Time
}

// MemoryCache is an in-process Cache with TTL expiry, for runs without a
// configured store.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

// NewMemoryCache creates a MemoryCache with the given TTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
	}
}

func (c *MemoryCache) Get(_ context.Context, query string) ([]brave.Result, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[query]
	if !ok || time.Now().After(e.expiresAt) {
		delete(c.entries, query)
		return nil, false, nil
	}
	return e.results, true, nil
}

func (c *MemoryCache) Set(_ context.Context, query string, results []brave.Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[query] = memoryEntry{results: results, expiresAt: time.Now().Add(c.ttl)}
	return nil
}

// StoreCache persists search results through a store.Store so the cache
// survives across runs.
type StoreCache struct {
	store store.Store
	ttl   time.Duration
}

// NewStoreCache wraps a Store as a search cache with the given TTL.
func NewStoreCache(s store.Store, ttl time.Duration) *StoreCache {
	return &StoreCache{store: s, ttl: ttl}
}

func (c *StoreCache) Get(ctx context.Context, query string) ([]brave.Result, bool, error) {
	raw, ok, err := c.store.GetSearch(ctx, query)
	if err != nil || !ok {
		return nil, false, err
	}

	var results []brave.Result
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, false, eris.Wrap(err, "evidence: unmarshal cached results")
	}
	return results, true, nil
}

func (c *StoreCache) Set(ctx context.Context, query string, results []brave.Result) error {
	raw, err := json.Marshal(results)
	if err != nil {
		return eris.Wrap(err, "evidence: marshal results")
	}
	return c.store.SetSearch(ctx, query, raw, c.ttl)
}
