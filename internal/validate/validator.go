package validate

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/sparetex/leadgen-cli/internal/evidence"
	"github.com/sparetex/leadgen-cli/internal/keywords"
	"github.com/sparetex/leadgen-cli/internal/model"
	"github.com/sparetex/leadgen-cli/internal/resilience"
)

// Options tunes the validator's timeouts.
type Options struct {
	// HardTimeout is the wall-clock ceiling for one lead, covering every
	// fetch and parse. Zero means 45s.
	HardTimeout time.Duration
	// PageTimeout bounds each individual page fetch. Zero means 15s.
	PageTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.HardTimeout <= 0 {
		o.HardTimeout = 45 * time.Second
	}
	if o.PageTimeout <= 0 {
		o.PageTimeout = 15 * time.Second
	}
	return o
}

// Validator crawls a lead's live website and assigns the final tier.
type Validator struct {
	fetcher *Fetcher
	matcher *keywords.Matcher
	opts    Options
}

// NewValidator creates a Validator using the given vocabulary matcher.
func NewValidator(matcher *keywords.Matcher, opts Options) *Validator {
	opts = opts.withDefaults()
	return &Validator{
		fetcher: NewFetcher(opts.PageTimeout),
		matcher: matcher,
		opts:    opts,
	}
}

// crawlOutcome carries the crawl results back across the hard-timeout
// boundary. The crawl goroutine may outlive an abandoned lead, so it works on
// this struct instead of mutating the lead directly; results merge into the
// lead only when the crawl finished inside the ceiling.
type crawlOutcome struct {
	accessible bool
	failReason string
	finishing  []string
	oem        []string
	emails     []string
	phones     []string
	details    []model.EvidenceDetail
	tier       int
	status     string
}

// Validate runs the per-lead state machine and mutates lead in place:
//
//	pending -> no_website                         (no resolved URL)
//	pending -> website_inaccessible:<reason>      (homepage fetch failed)
//	pending -> validated                          (crawl completed)
//	any     -> hard_timeout                       (wall-clock ceiling hit)
//
// Every terminal state assigns a tier; a lead is never left untiered.
func (v *Validator) Validate(ctx context.Context, lead *model.Lead) {
	lead.ValidationStatus = model.StatusPending

	if lead.Website == "" {
		lead.ValidationStatus = model.StatusNoWebsite
		lead.Tier = 3
		return
	}

	var out *crawlOutcome
	err := resilience.RunBounded(ctx, v.opts.HardTimeout, func(ctx context.Context) error {
		out = v.crawl(ctx, lead.Website, lead.Country)
		// A crawl the ceiling cut short is a hard timeout, not a website
		// failure, even when it technically returned in time.
		return ctx.Err()
	})
	if err != nil {
		// Ceiling elapsed or caller cancelled mid-lead. Either way the lead
		// is finalized in its fallback state, never retried in this run.
		lead.ValidationStatus = model.StatusHardTimeout
		lead.FailReason = resilience.ReasonTimeout
		lead.Tier = 3
		if errors.Is(err, resilience.ErrDeadlineExceeded) {
			zap.L().Warn("hard timeout during validation",
				zap.String("company", lead.Company), zap.String("website", lead.Website))
		}
		return
	}

	v.merge(lead, out)
}

// merge folds a completed crawl outcome into the lead, deduplicating against
// evidence collected upstream.
func (v *Validator) merge(lead *model.Lead, out *crawlOutcome) {
	lead.WebsiteAccessible = out.accessible
	lead.FailReason = out.failReason
	lead.ValidationStatus = out.status
	lead.Tier = out.tier

	for _, kw := range out.finishing {
		if !contains(lead.FinishingSignals, kw) {
			lead.FinishingSignals = append(lead.FinishingSignals, kw)
		}
	}
	for _, brand := range out.oem {
		if !contains(lead.OEMSignals, brand) {
			lead.OEMSignals = append(lead.OEMSignals, brand)
		}
	}
	for _, email := range out.emails {
		if !contains(lead.Emails, email) && len(lead.Emails) < maxContacts {
			lead.Emails = append(lead.Emails, email)
		}
	}
	for _, phone := range out.phones {
		if !contains(lead.Phones, phone) && len(lead.Phones) < maxContacts {
			lead.Phones = append(lead.Phones, phone)
		}
	}
	lead.EvidenceDetails = append(lead.EvidenceDetails, out.details...)
}

// crawl is the happy-path portion of the state machine, run under the hard
// timeout.
func (v *Validator) crawl(ctx context.Context, website, country string) *crawlOutcome {
	out := &crawlOutcome{}

	home, reason, err := v.fetcher.Fetch(ctx, website)
	if err != nil {
		out.status = model.StatusWebsiteInaccessible + ":" + reason
		out.failReason = reason
		out.tier = 3
		zap.L().Debug("website inaccessible",
			zap.String("website", website), zap.String("reason", reason), zap.Error(err))
		return out
	}
	out.accessible = true

	// scanning_pages: homepage plus up to 4 discovered key pages. Key-page
	// failures are skipped, not fatal.
	type pageText struct {
		url  string
		text string
	}
	var pages []pageText

	doc, err := ParsePage(home)
	if err != nil {
		zap.L().Debug("homepage parse failed", zap.String("website", website), zap.Error(err))
	} else {
		pages = append(pages, pageText{url: home.URL, text: VisibleText(doc)})
		for _, pageURL := range DiscoverKeyPages(doc, home.URL) {
			pctx, cancel := context.WithTimeout(ctx, v.opts.PageTimeout)
			res, _, err := v.fetcher.Fetch(pctx, pageURL)
			cancel()
			if err != nil {
				continue
			}
			if pdoc, err := ParsePage(res); err == nil {
				pages = append(pages, pageText{url: res.URL, text: VisibleText(pdoc)})
			}
		}
	}

	// extracting_contacts and on-site evidence scanning.
	seenTerm := make(map[string]bool)
	for _, p := range pages {
		for _, kw := range v.matcher.ExtractFinishing(p.text) {
			if !contains(out.finishing, kw) {
				out.finishing = append(out.finishing, kw)
			}
			if !seenTerm["kw:"+kw] {
				seenTerm["kw:"+kw] = true
				out.details = append(out.details, model.EvidenceDetail{
					Type:    "finishing_keyword",
					Term:    kw,
					Context: evidence.ContextWindow(p.text, kw),
					URL:     p.url,
				})
			}
		}

		tier1, tier2 := v.matcher.ExtractOEMBrands(p.text)
		for _, brand := range append(tier1, tier2...) {
			if !contains(out.oem, brand) {
				out.oem = append(out.oem, brand)
			}
			if !seenTerm["oem:"+brand] {
				seenTerm["oem:"+brand] = true
				out.details = append(out.details, model.EvidenceDetail{
					Type:    "oem_brand",
					Term:    brand,
					Context: evidence.ContextWindow(p.text, brand),
					URL:     p.url,
				})
			}
		}

		for _, email := range ExtractEmails(p.text) {
			if !contains(out.emails, email) && len(out.emails) < maxContacts {
				out.emails = append(out.emails, email)
			}
		}
		for _, phone := range ExtractPhones(p.text, country) {
			if !contains(out.phones, phone) && len(out.phones) < maxContacts {
				out.phones = append(out.phones, phone)
			}
		}
	}

	// tiering: live evidence only. Stricter than the static score because it
	// requires a currently-reachable site.
	hasKeywords := len(out.finishing) > 0
	hasEmail := len(out.emails) > 0
	hasOEM := len(out.oem) > 0
	switch {
	case (hasKeywords && hasEmail) || hasOEM:
		out.tier = 1
	case hasKeywords || hasEmail:
		out.tier = 2
	default:
		out.tier = 3
	}
	out.status = model.StatusValidated
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
