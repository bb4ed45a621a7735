// Package store persists the search-result cache, batch runs, and
// checkpoints. Two drivers exist: sqlite for single-operator runs and
// postgres for shared installations.
package store

import (
	"context"
	"time"

	"github.com/sparetex/leadgen-cli/internal/model"
)

// Store is the persistence interface consumed by the pipeline.
type Store interface {
	// Search cache. Entries are write-once per query and expire on a
	// multi-day TTL since web content changes infrequently.
	GetSearch(ctx context.Context, query string) ([]byte, bool, error)
	SetSearch(ctx context.Context, query string, results []byte, ttl time.Duration) error
	DeleteExpiredSearches(ctx context.Context) (int, error)

	// Runs.
	CreateRun(ctx context.Context) (*model.Run, error)
	UpdateRun(ctx context.Context, runID string, status model.RunStatus, leads int) error

	// Checkpoints: periodic partial-results flush so a failed crawl can
	// resume instead of restarting.
	SaveCheckpoint(ctx context.Context, runID string, data []byte) error
	LoadCheckpoint(ctx context.Context, runID string) ([]byte, error)

	// Lifecycle.
	Migrate(ctx context.Context) error
	Close() error
}
