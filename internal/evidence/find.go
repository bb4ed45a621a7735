package evidence

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/sparetex/leadgen-cli/internal/filter"
	"github.com/sparetex/leadgen-cli/internal/keywords"
	"github.com/sparetex/leadgen-cli/internal/model"
)

// contextRadius is how many characters to capture on each side of a matched
// term when building the audit context window.
const contextRadius = 150

// Evidence is the triangulation result for one company.
type Evidence struct {
	OEMBrands      []string
	StenterSignals []string
	Snippets       []string
	Details        []model.EvidenceDetail
	Score          float64
	SalesReady     bool
}

// Finder searches external snippets for OEM-brand and finishing-keyword
// mentions.
type Finder struct {
	searcher *Searcher
	matcher  *keywords.Matcher
}

// NewFinder creates a Finder using the given vocabulary matcher.
func NewFinder(searcher *Searcher, matcher *keywords.Matcher) *Finder {
	return &Finder{searcher: searcher, matcher: matcher}
}

// queries builds up to three query variants: site-restricted when the
// website is known, an OEM-brand probe, and a generic finishing probe.
func (f *Finder) queries(company, website string) []string {
	var qs []string
	if domain := filter.Domain(website); domain != "" {
		qs = append(qs, fmt.Sprintf("site:%s stenter OR \"heat setting\" OR finishing", domain))
	}
	qs = append(qs,
		fmt.Sprintf("%q monforts OR brückner OR babcock OR krantz stenter", company),
		fmt.Sprintf("%q textile finishing stenter machine", company),
	)
	return qs
}

// FindEvidence runs the query variants and scans every result snippet for
// vocabulary matches. Each first-time match gets a context window and source
// URL recorded for audit. Search failures degrade to whatever evidence was
// already collected; they are not fatal.
func (f *Finder) FindEvidence(ctx context.Context, company, website, country string) (*Evidence, error) {
	ev := &Evidence{}
	seenOEM := make(map[string]bool)
	seenKW := make(map[string]bool)
	var oemContexts []string

	for _, query := range f.queries(company, website) {
		results, err := f.searcher.Search(ctx, query, 5)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			zap.L().Warn("evidence query failed",
				zap.String("company", company), zap.String("query", query), zap.Error(err))
			continue
		}

		for _, res := range results {
			snippet := strings.TrimSpace(res.Title + " " + res.Description)
			if snippet == "" {
				continue
			}
			ev.Snippets = append(ev.Snippets, snippet)

			tier1, tier2 := f.matcher.ExtractOEMBrands(snippet)
			for _, brand := range append(tier1, tier2...) {
				if seenOEM[brand] {
					continue
				}
				seenOEM[brand] = true
				window := ContextWindow(snippet, brand)
				oemContexts = append(oemContexts, window)
				ev.OEMBrands = append(ev.OEMBrands, brand)
				ev.Details = append(ev.Details, model.EvidenceDetail{
					Type:    "oem_brand",
					Term:    brand,
					Context: window,
					URL:     res.URL,
				})
			}

			for _, kw := range f.matcher.ExtractFinishing(snippet) {
				if seenKW[kw] {
					continue
				}
				seenKW[kw] = true
				ev.StenterSignals = append(ev.StenterSignals, kw)
				ev.Details = append(ev.Details, model.EvidenceDetail{
					Type:    "finishing_keyword",
					Term:    kw,
					Context: ContextWindow(snippet, kw),
					URL:     res.URL,
				})
			}
		}
	}

	ev.Score = evidenceScore(len(ev.OEMBrands), len(ev.StenterSignals), oemContexts, ev.StenterSignals)
	ev.SalesReady = ev.Score >= 0.5
	return ev, nil
}

// evidenceScore implements the snippet-evidence formula. The proximity bonus
// checks whether any OEM context window contains a matched keyword; context
// windows come from single snippets, so containment approximates same-snippet
// co-occurrence.
func evidenceScore(oemCount, kwCount int, oemContexts, matchedKeywords []string) float64 {
	score := 0.0
	if oemCount > 0 {
		score += 0.3 + 0.1*float64(min(oemCount, 3))
	}
	if kwCount > 0 {
		score += 0.2 + 0.05*float64(min(kwCount, 4))
	}
	if oemCount > 0 && kwCount > 0 {
		score += 0.2
	}

	if proximityHit(oemContexts, matchedKeywords) {
		score += 0.1
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

func proximityHit(oemContexts, matchedKeywords []string) bool {
	for _, window := range oemContexts {
		folded := keywords.Fold(window)
		for _, kw := range matchedKeywords {
			if strings.Contains(folded, keywords.Fold(kw)) {
				return true
			}
		}
	}
	return false
}

// ContextWindow captures ~300 characters centered on the first occurrence of
// term in snippet, ellipsis-marked where truncated. Matching and slicing both
// happen on the diacritic-folded snippet: folding changes byte offsets, so
// slicing the original with folded indices would corrupt the window.
// Deterministic for a given snippet and term.
func ContextWindow(snippet, term string) string {
	folded := keywords.Fold(snippet)
	idx := strings.Index(folded, keywords.Fold(term))
	if idx < 0 {
		if len(folded) <= 2*contextRadius {
			return folded
		}
		return folded[:runeBoundary(folded, 2*contextRadius)] + "..."
	}

	start := idx - contextRadius
	end := idx + len(keywords.Fold(term)) + contextRadius

	prefix, suffix := "", ""
	if start <= 0 {
		start = 0
	} else {
		prefix = "..."
	}
	if end >= len(folded) {
		end = len(folded)
	} else {
		suffix = "..."
	}

	return prefix + folded[runeBoundary(folded, start):runeBoundary(folded, end)] + suffix
}

// runeBoundary moves i forward to the next rune start so slices stay valid
// UTF-8.
func runeBoundary(s string, i int) int {
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return i
}
