// Package filter rejects noise names, non-customer entities, and directory
// URLs before any expensive classification or network work runs.
package filter

import (
	"regexp"
	"strings"
)

// genericTerms are single words that are never a company name on their own.
var genericTerms = map[string]bool{
	"textile": true, "textiles": true, "tekstil": true, "yarn": true,
	"fabric": true, "fabrics": true, "garment": true, "garments": true,
	"apparel": true, "clothing": true, "dyeing": true, "finishing": true,
	"knitting": true, "weaving": true, "mill": true, "mills": true,
	"industry": true, "industries": true, "company": true, "group": true,
	"manufacturer": true, "manufacturers": true, "supplier": true,
	"exporter": true, "cotton": true, "polyester": true, "denim": true,
}

// countryWords recognizes "<country> <generic term>" artifacts like
// "Pakistan Textile" that search snippets produce.
var countryWords = map[string]bool{
	"turkey": true, "türkiye": true, "turkiye": true, "india": true,
	"pakistan": true, "bangladesh": true, "china": true, "brazil": true,
	"brasil": true, "vietnam": true, "indonesia": true, "egypt": true,
	"mexico": true, "portugal": true, "spain": true, "italy": true,
	"germany": true, "usa": true, "uzbekistan": true, "morocco": true,
}

// noisePatterns match navigation artifacts, event listings, and news
// fragments that leak into harvested name columns.
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^view\s+(basket|cart|all|more|details)`),
	regexp.MustCompile(`(?i)^(add|back)\s+to\s+`),
	regexp.MustCompile(`(?i)\b(event|events|exhibition|conference|webinar|fair)\s*\d*$`),
	regexp.MustCompile(`(?i)^(home|about|contact|news|search|login|register|sitemap)$`),
	regexp.MustCompile(`(?i)^(istanbul|shanghai|mumbai|dhaka)\s+(event|fair|expo|show)`),
	regexp.MustCompile(`(?i)^(read|learn|see|show)\s+more`),
	regexp.MustCompile(`(?i)^(privacy|cookie|terms)\b`),
	regexp.MustCompile(`(?i)^page\s+\d+`),
	regexp.MustCompile(`^\d+$`),
}

// legalSuffixPattern matches legal-entity suffixes across the markets we
// harvest from. Short names without one of these are treated as noise.
var legalSuffixPattern = regexp.MustCompile(
	`(?i)\b(ltd|limited|inc|llc|gmbh|a\.?ş\.?|a\.?s\.?|s\.?a\.?|s\.?l\.?|srl|bv|nv|co|corp|corporation|company|pvt|plc|lda|spa|kg|oy|ab|sanayi|tekstil|textil|group|holding|mills?|industries)\b\.?`)

// IsNoise reports whether a harvested name is an obviously-invalid company
// name. Pure predicate: it must run before any scorer or network call.
func IsNoise(name string) bool {
	name = strings.TrimSpace(name)
	if len(name) < 3 {
		return true
	}

	lower := strings.ToLower(name)

	if genericTerms[lower] {
		return true
	}

	// "<country> <generic term>", e.g. "Pakistan Textile".
	fields := strings.Fields(lower)
	if len(fields) == 2 && countryWords[fields[0]] && genericTerms[fields[1]] {
		return true
	}

	for _, p := range noisePatterns {
		if p.MatchString(lower) {
			return true
		}
	}

	// A short name with no legal-entity suffix is usually a fragment, not a
	// company. Longer names get the benefit of the doubt.
	if len(fields) <= 2 && len(name) < 12 && !legalSuffixPattern.MatchString(lower) {
		return true
	}

	return false
}
