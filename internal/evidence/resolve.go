package evidence

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sparetex/leadgen-cli/internal/filter"
	"github.com/sparetex/leadgen-cli/internal/keywords"
	"github.com/sparetex/leadgen-cli/internal/model"
)

// Resolution is a resolved company website with its provenance.
type Resolution struct {
	Website    string
	Source     string // "existing" or "search"
	Confidence model.Confidence
}

// countryTLDs maps lowercase country names to their ccTLD for the
// TLD-constrained fallback query.
var countryTLDs = map[string]string{
	"turkey":     ".tr",
	"türkiye":    ".tr",
	"brazil":     ".br",
	"portugal":   ".pt",
	"spain":      ".es",
	"italy":      ".it",
	"germany":    ".de",
	"india":      ".in",
	"pakistan":   ".pk",
	"bangladesh": ".bd",
	"vietnam":    ".vn",
	"indonesia":  ".id",
	"mexico":     ".mx",
	"china":      ".cn",
}

// Resolver finds a company's real website, refusing directory URLs.
type Resolver struct {
	searcher *Searcher
}

// NewResolver creates a Resolver backed by the given searcher.
func NewResolver(searcher *Searcher) *Resolver {
	return &Resolver{searcher: searcher}
}

// Resolve returns the company's website, or nil when no acceptable candidate
// exists. A nil result is not an error; the lead degrades to no_website.
//
// An existing non-directory URL is accepted as-is with high confidence and no
// search spend. Otherwise up to two queries run and the first non-directory
// result whose domain shares a distinctive company-name token wins, with
// medium confidence.
func (r *Resolver) Resolve(ctx context.Context, company, country, currentURL string) (*Resolution, error) {
	if currentURL != "" && !filter.IsDirectoryURL(currentURL) {
		return &Resolution{
			Website:    currentURL,
			Source:     "existing",
			Confidence: model.ConfidenceHigh,
		}, nil
	}

	queries := []string{fmt.Sprintf("%q official website", company)}
	if tld, ok := countryTLDs[strings.ToLower(strings.TrimSpace(country))]; ok {
		queries = append(queries, fmt.Sprintf("%q site:%s", company, tld))
	}

	tokens := nameTokens(company)
	for _, query := range queries {
		results, err := r.searcher.Search(ctx, query, 5)
		if err != nil {
			zap.L().Warn("website resolution query failed",
				zap.String("company", company), zap.String("query", query), zap.Error(err))
			continue
		}

		for _, res := range results {
			if filter.IsDirectoryURL(res.URL) {
				continue
			}
			domain := filter.Domain(res.URL)
			if domain == "" || !domainMatchesTokens(domain, tokens) {
				continue
			}
			return &Resolution{
				Website:    res.URL,
				Source:     "search",
				Confidence: model.ConfidenceMedium,
			}, nil
		}
	}

	return nil, nil
}

// nameTokens extracts folded company-name tokens of at least 4 characters.
// Short tokens ("ltd", "co") match too many unrelated domains.
func nameTokens(company string) []string {
	folded := keywords.Fold(company)
	fields := strings.FieldsFunc(folded, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})

	var tokens []string
	for _, f := range fields {
		if len(f) >= 4 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func domainMatchesTokens(domain string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(domain, tok) {
			return true
		}
	}
	return false
}
