// Package pipeline orchestrates the lead-enrichment stages: noise filtering,
// role and entity classification, keyword extraction, website resolution,
// evidence triangulation, SCE scoring, deep validation, and dual-evidence
// tagging.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sparetex/leadgen-cli/internal/classify"
	"github.com/sparetex/leadgen-cli/internal/config"
	"github.com/sparetex/leadgen-cli/internal/evidence"
	"github.com/sparetex/leadgen-cli/internal/filter"
	"github.com/sparetex/leadgen-cli/internal/keywords"
	"github.com/sparetex/leadgen-cli/internal/model"
	"github.com/sparetex/leadgen-cli/internal/scorer"
	"github.com/sparetex/leadgen-cli/internal/store"
	"github.com/sparetex/leadgen-cli/internal/validate"
	"github.com/sparetex/leadgen-cli/pkg/brave"
)

// Rejection reasons assigned by the cheap gates. Rejected records are kept
// and exported with their reason, never discarded.
const (
	RejectInvalidRecord = "invalid_record"
	RejectNoise         = "noise"
	RejectNonCustomer   = "non_customer"
	RejectIntermediary  = "intermediary"
	RejectEntitySkipped = "entity_skipped"
)

// Pipeline wires every stage together. Construct once per run.
type Pipeline struct {
	cfg       *config.Config
	store     store.Store
	matcher   *keywords.Matcher
	role      *classify.RoleClassifier
	scorer    *scorer.Scorer
	resolver  *evidence.Resolver
	finder    *evidence.Finder
	validator *validate.BatchValidator
}

// New creates a Pipeline. st may be nil, disabling run records, checkpoints,
// and cache persistence. searchClient may be nil, disabling website
// resolution and evidence triangulation (static scoring still runs).
func New(cfg *config.Config, st store.Store, searchClient brave.Client) *Pipeline {
	matcher := keywords.NewMatcher(keywords.Load(cfg.Keywords.TablePath))

	p := &Pipeline{
		cfg:     cfg,
		store:   st,
		matcher: matcher,
		role: classify.NewRoleClassifier(classify.RoleWeights{
			StrongCustomer:        cfg.Role.StrongPositive,
			StrongIntermediary:    cfg.Role.StrongNegative,
			GenericCustomer:       cfg.Role.GenericPositive,
			GenericIntermediary:   cfg.Role.GenericNegative,
			CustomerThreshold:     cfg.Role.CustomerThreshold,
			IntermediaryThreshold: cfg.Role.IntermediaryThreshold,
		}),
		scorer: scorer.New(scorer.Weights{
			E1PerHit:        cfg.Scorer.E1PerHit,
			E2PerHit:        cfg.Scorer.E2PerHit,
			E3PerHit:        cfg.Scorer.E3PerHit,
			NegativePenalty: cfg.Scorer.NegativePenalty,
		}),
	}

	if searchClient != nil {
		var cache evidence.Cache
		if st != nil {
			cache = evidence.NewStoreCache(st, cfg.Search.CacheTTL())
		} else {
			cache = evidence.NewMemoryCache(cfg.Search.CacheTTL())
		}
		searcher := evidence.NewSearcher(searchClient, cache, rate.NewLimiter(rate.Limit(cfg.Search.RatePerSec), 1))
		p.resolver = evidence.NewResolver(searcher)
		p.finder = evidence.NewFinder(searcher, matcher)
	}

	p.validator = validate.NewBatchValidator(
		validate.NewValidator(matcher, validate.Options{
			HardTimeout: time.Duration(cfg.Validate.HardTimeoutSecs) * time.Second,
			PageTimeout: time.Duration(cfg.Validate.PageTimeoutSecs) * time.Second,
		}),
		st,
		validate.BatchOptions{
			CheckpointEvery: cfg.Batch.CheckpointEvery,
			Workers:         cfg.Batch.Workers,
		},
	)

	return p
}

// Process runs the pre-validation stages on one lead in place. It stops at
// the first rejecting gate; rejected leads carry their reason and skip all
// network work.
func (p *Pipeline) Process(ctx context.Context, lead *model.Lead) {
	if errs := model.Normalize(lead); len(errs) > 0 {
		lead.RejectionReason = RejectInvalidRecord
		return
	}
	if filter.IsNoise(lead.Company) {
		lead.RejectionReason = RejectNoise
		return
	}
	if filter.IsNonCustomer(lead.Company, lead.Context) {
		lead.RejectionReason = RejectNonCustomer
		return
	}

	roleResult := p.role.Classify(lead)
	lead.Role = roleResult.Role
	lead.RoleConfidence = roleResult.Confidence
	lead.PositiveSignals = roleResult.PositiveSignals
	lead.NegativeSignals = roleResult.NegativeSignals

	lead.EntityType = classify.ClassifyEntity(lead.Company, lead.Context, "")
	lead.PriorityScore = classify.PriorityScore(lead.EntityType)

	if lead.Role == model.RoleIntermediary {
		lead.RejectionReason = RejectIntermediary
		return
	}
	if !classify.ShouldProcess(lead.EntityType) {
		lead.RejectionReason = RejectEntitySkipped
		return
	}

	// Static keyword extraction over the text we already have.
	staticText := lead.Company + " " + lead.Context
	lead.FinishingSignals = mergeDistinct(lead.FinishingSignals, p.matcher.ExtractFinishing(staticText))
	tier1, tier2 := p.matcher.ExtractOEMBrands(staticText)
	lead.OEMSignals = mergeDistinct(lead.OEMSignals, append(tier1, tier2...))

	// Website resolution. A directory URL is evidence of a listing, not a
	// website; it is preserved for audit and never exported as the website.
	if lead.Website != "" && filter.IsDirectoryURL(lead.Website) {
		lead.DirectoryURLDetected = true
		lead.OriginalDirectoryURL = lead.Website
		lead.Website = ""
	}

	boost := scorer.BoostNone
	if p.resolver != nil {
		if res, err := p.resolver.Resolve(ctx, lead.Company, lead.Country, lead.Website); err != nil {
			zap.L().Warn("website resolution failed",
				zap.String("company", lead.Company), zap.Error(err))
		} else if res != nil {
			lead.Website = res.Website
			lead.WebsiteSource = res.Source
			lead.WebsiteConfidence = res.Confidence
		} else {
			lead.Website = ""
		}
	}

	if p.finder != nil {
		ev, err := p.finder.FindEvidence(ctx, lead.Company, lead.Website, lead.Country)
		if err != nil {
			zap.L().Warn("evidence triangulation failed",
				zap.String("company", lead.Company), zap.Error(err))
		} else {
			lead.OEMSignals = mergeDistinct(lead.OEMSignals, ev.OEMBrands)
			lead.FinishingSignals = mergeDistinct(lead.FinishingSignals, ev.StenterSignals)
			lead.EvidenceDetails = append(lead.EvidenceDetails, ev.Details...)
			boost = externalBoost(ev)
		}
	}

	lead.SCE = p.scorer.ScoreLead(lead, boost)
}

// externalBoost maps triangulation output to the scorer's boost levels:
// sales-ready live evidence is strong, any live evidence at all is medium.
func externalBoost(ev *evidence.Evidence) scorer.ExternalBoost {
	switch {
	case ev.SalesReady:
		return scorer.BoostStrong
	case len(ev.OEMBrands)+len(ev.StenterSignals) > 0:
		return scorer.BoostMedium
	default:
		return scorer.BoostNone
	}
}

// Run executes the full pipeline over a batch: pre-validation stages lead by
// lead, deep validation in bulk, then dual-evidence tagging and partitioning.
// Cancellation stops between leads; already-processed work is kept.
func (p *Pipeline) Run(ctx context.Context, leads []model.Lead) (*Result, error) {
	start := time.Now()
	log := zap.L().With(zap.Int("leads", len(leads)))
	log.Info("pipeline: starting batch")

	runID := ""
	if p.store != nil {
		run, err := p.store.CreateRun(ctx)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: create run")
		}
		runID = run.ID
		log = log.With(zap.String("run_id", runID))
	}

	work := make([]model.Lead, len(leads))
	copy(work, leads)

	for i := range work {
		if ctx.Err() != nil {
			p.finishRun(runID, model.RunStatusFailed, 0)
			return nil, ctx.Err()
		}
		p.Process(ctx, &work[i])
	}

	// Deep validation runs only for survivors; rejected leads keep their
	// pending state untouched.
	var pending []model.Lead
	var rejected []model.Lead
	for _, lead := range work {
		if lead.RejectionReason != "" {
			rejected = append(rejected, lead)
		} else {
			pending = append(pending, lead)
		}
	}

	batch, err := p.validator.Run(ctx, runID, pending)
	if err != nil {
		p.finishRun(runID, model.RunStatusFailed, len(batch.Leads))
		return nil, eris.Wrap(err, "pipeline: deep validation")
	}

	stats := scorer.NewStats()
	for i := range batch.Leads {
		classify.ApplyDualEvidence(&batch.Leads[i])
		stats.Observe(batch.Leads[i].SCE, batch.Leads[i].Tier)
	}

	result := buildResult(runID, batch, rejected, stats, time.Since(start))
	p.finishRun(runID, model.RunStatusComplete, len(work))

	log.Info("pipeline: batch complete",
		zap.Int("accepted", len(result.Accepted)),
		zap.Int("rejected", len(result.Rejected)),
		zap.Int("golden", len(result.Golden)),
		zap.Duration("elapsed", result.Summary.Elapsed))
	return result, nil
}

func (p *Pipeline) finishRun(runID string, status model.RunStatus, leads int) {
	if p.store == nil || runID == "" {
		return
	}
	// Run bookkeeping must survive caller cancellation.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.store.UpdateRun(ctx, runID, status, leads); err != nil {
		zap.L().Warn("pipeline: update run failed", zap.String("run_id", runID), zap.Error(err))
	}
}

func mergeDistinct(dst, src []string) []string {
	seen := make(map[string]bool, len(dst))
	for _, s := range dst {
		seen[s] = true
	}
	for _, s := range src {
		if !seen[s] {
			seen[s] = true
			dst = append(dst, s)
		}
	}
	return dst
}
