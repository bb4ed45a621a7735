package validate

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sparetex/leadgen-cli/internal/model"
	"github.com/sparetex/leadgen-cli/internal/store"
)

// BatchOptions tunes batch validation.
type BatchOptions struct {
	// CheckpointEvery flushes partial results after this many leads. Zero
	// means 25. Ignored when Store is nil.
	CheckpointEvery int
	// Workers sets the number of concurrent validations. Zero or one means
	// sequential.
	Workers int
}

// BatchResult aggregates a validation pass for operational reporting.
type BatchResult struct {
	Leads       []model.Lead   `json:"leads"`
	FailReasons map[string]int `json:"fail_reasons"`
	TierCounts  map[int]int    `json:"tier_counts"`
}

// Checkpoint is the partial-results payload flushed to the store.
type Checkpoint struct {
	Processed int          `json:"processed"`
	Leads     []model.Lead `json:"leads"`
}

// BatchValidator validates leads in bulk with periodic checkpointing; the
// crawl is slow and failure-prone at scale, so a crashed run must be able to
// resume from its last flush.
type BatchValidator struct {
	validator *Validator
	store     store.Store
	opts      BatchOptions
}

// NewBatchValidator creates a BatchValidator. store may be nil to disable
// checkpointing.
func NewBatchValidator(validator *Validator, s store.Store, opts BatchOptions) *BatchValidator {
	if opts.CheckpointEvery <= 0 {
		opts.CheckpointEvery = 25
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &BatchValidator{validator: validator, store: s, opts: opts}
}

// Run validates every lead. Cancellation stops the batch between leads;
// already-processed leads stay in the result and the last checkpoint remains
// intact.
func (b *BatchValidator) Run(ctx context.Context, runID string, leads []model.Lead) (*BatchResult, error) {
	result := &BatchResult{
		Leads:       make([]model.Lead, len(leads)),
		FailReasons: make(map[string]int),
		TierCounts:  make(map[int]int),
	}
	copy(result.Leads, leads)

	// completed holds finished leads in completion order. Checkpoints
	// serialize this slice rather than result.Leads, which workers may still
	// be writing to.
	var mu sync.Mutex
	var completed []model.Lead

	observe := func(lead *model.Lead) {
		mu.Lock()
		defer mu.Unlock()

		if lead.FailReason != "" {
			result.FailReasons[lead.FailReason]++
		}
		result.TierCounts[lead.Tier]++
		completed = append(completed, *lead)

		if b.store != nil && len(completed)%b.opts.CheckpointEvery == 0 {
			b.checkpoint(ctx, runID, completed)
		}
	}

	if b.opts.Workers <= 1 {
		for i := range result.Leads {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			b.validator.Validate(ctx, &result.Leads[i])
			observe(&result.Leads[i])
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(b.opts.Workers)
		for i := range result.Leads {
			g.Go(func() error {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				b.validator.Validate(gctx, &result.Leads[i])
				observe(&result.Leads[i])
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return result, err
		}
	}

	if b.store != nil {
		mu.Lock()
		b.checkpoint(ctx, runID, completed)
		mu.Unlock()
	}
	return result, nil
}

// Resume loads the last checkpoint for a run, or nil when none exists.
func (b *BatchValidator) Resume(ctx context.Context, runID string) (*Checkpoint, error) {
	if b.store == nil {
		return nil, nil
	}
	raw, err := b.store.LoadCheckpoint(ctx, runID)
	if err != nil || raw == nil {
		return nil, err
	}
	var cp Checkpoint
	if err := json.Unmarshal(raw, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (b *BatchValidator) checkpoint(ctx context.Context, runID string, leads []model.Lead) {
	raw, err := json.Marshal(Checkpoint{Processed: len(leads), Leads: leads})
	if err != nil {
		zap.L().Warn("checkpoint marshal failed", zap.String("run_id", runID), zap.Error(err))
		return
	}
	if err := b.store.SaveCheckpoint(ctx, runID, raw); err != nil {
		zap.L().Warn("checkpoint save failed", zap.String("run_id", runID), zap.Error(err))
	}
}
