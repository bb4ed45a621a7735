package keywords

import (
	"sort"
	"strings"
	"unicode"

	"github.com/cloudflare/ahocorasick"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	kindFinishing = "finishing"
	kindOEMTier1  = "oem_tier1"
	kindOEMTier2  = "oem_tier2"
)

// entry maps an automaton dictionary index back to its vocabulary slot.
type entry struct {
	term string // original (unfolded) form for reporting
	lang string // set for finishing terms
	kind string
}

// Matcher runs every vocabulary pattern against a text in one pass.
type Matcher struct {
	entries []entry
	ac      *ahocorasick.Matcher
}

// foldTransformer strips combining diacritics after NFD decomposition, so
// "brückner" and "bruckner", or "termofixação" and "termofixacao", match the
// same pattern. Turkish dotless ı is its own letter and is left alone.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases and strips diacritics for matching.
func Fold(s string) string {
	s = strings.ToLower(s)
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return s
	}
	return out
}

// NewMatcher compiles a keyword table into a Matcher.
func NewMatcher(table *Table) *Matcher {
	if table == nil {
		table = DefaultTable()
	}

	var entries []entry
	var dict []string
	folded := make(map[string]bool)

	add := func(e entry) {
		f := Fold(e.term)
		if f == "" || folded[f] {
			return
		}
		folded[f] = true
		entries = append(entries, e)
		dict = append(dict, f)
	}

	// Deterministic automaton layout: languages in sorted order.
	langs := make([]string, 0, len(table.Languages))
	for lang := range table.Languages {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	for _, lang := range langs {
		for _, term := range table.Languages[lang] {
			add(entry{term: term, lang: lang, kind: kindFinishing})
		}
	}
	for _, term := range table.OEMTier1 {
		add(entry{term: term, kind: kindOEMTier1})
	}
	for _, term := range table.OEMTier2 {
		add(entry{term: term, kind: kindOEMTier2})
	}

	return &Matcher{
		entries: entries,
		ac:      ahocorasick.NewStringMatcher(dict),
	}
}

// match returns the entries whose patterns occur in text.
func (m *Matcher) match(text string) []entry {
	if text == "" {
		return nil
	}
	hits := m.ac.Match([]byte(Fold(text)))
	out := make([]entry, 0, len(hits))
	for _, idx := range hits {
		out = append(out, m.entries[idx])
	}
	return out
}

// ExtractFinishing returns the distinct finishing-process terms found in text.
func (m *Matcher) ExtractFinishing(text string) []string {
	var terms []string
	seen := make(map[string]bool)
	for _, e := range m.match(text) {
		if e.kind != kindFinishing || seen[e.term] {
			continue
		}
		seen[e.term] = true
		terms = append(terms, e.term)
	}
	return terms
}

// ExtractOEMBrands returns the distinct tier-1 and tier-2 OEM brands found
// in text.
func (m *Matcher) ExtractOEMBrands(text string) (tier1, tier2 []string) {
	seen := make(map[string]bool)
	for _, e := range m.match(text) {
		if seen[e.term] {
			continue
		}
		switch e.kind {
		case kindOEMTier1:
			seen[e.term] = true
			tier1 = append(tier1, e.term)
		case kindOEMTier2:
			seen[e.term] = true
			tier2 = append(tier2, e.term)
		}
	}
	return tier1, tier2
}

// DetectLanguage picks the language with the most finishing-term hits.
// Returns "unknown" when no language scores a hit. Ties break alphabetically
// for determinism.
func (m *Matcher) DetectLanguage(text string) string {
	counts := make(map[string]int)
	for _, e := range m.match(text) {
		if e.kind == kindFinishing {
			counts[e.lang]++
		}
	}
	if len(counts) == 0 {
		return "unknown"
	}

	best, bestCount := "", -1
	langs := make([]string, 0, len(counts))
	for lang := range counts {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	for _, lang := range langs {
		if counts[lang] > bestCount {
			best, bestCount = lang, counts[lang]
		}
	}
	return best
}

// RelevanceDetails itemizes what contributed to a relevance score.
type RelevanceDetails struct {
	FinishingTerms []string `json:"finishing_terms"`
	OEMTier1       []string `json:"oem_tier1"`
	OEMTier2       []string `json:"oem_tier2"`
	Language       string   `json:"language"`
}

// ScoreRelevance scores text 0-100 for stenter-market relevance:
// min(finishing×10, 50) + tier1×15 + tier2×10 capped at 90, plus 10 when a
// language was confidently detected, final cap 100.
func (m *Matcher) ScoreRelevance(text string) (int, RelevanceDetails) {
	details := RelevanceDetails{
		FinishingTerms: m.ExtractFinishing(text),
		Language:       m.DetectLanguage(text),
	}
	details.OEMTier1, details.OEMTier2 = m.ExtractOEMBrands(text)

	score := len(details.FinishingTerms) * 10
	if score > 50 {
		score = 50
	}
	score += len(details.OEMTier1)*15 + len(details.OEMTier2)*10
	if score > 90 {
		score = 90
	}
	if details.Language != "unknown" {
		score += 10
	}
	if score > 100 {
		score = 100
	}
	return score, details
}
