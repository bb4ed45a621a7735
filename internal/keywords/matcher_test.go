package keywords

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "bruckner", Fold("Brückner"))
	assert.Equal(t, "termofixacao", Fold("Termofixação"))
	assert.Equal(t, "sardon", Fold("Şardon"))
	assert.Equal(t, "stenter", Fold("STENTER"))
}

func TestExtractFinishing(t *testing.T) {
	m := NewMatcher(nil)

	terms := m.ExtractFinishing("Dyeing and finishing facility with stenter machines")
	assert.Contains(t, terms, "stenter")
	assert.Contains(t, terms, "dyeing")

	// Diacritic-insensitive Turkish match.
	terms = m.ExtractFinishing("Ramöz ve boyahane yatırımı tamamlandı")
	assert.Contains(t, terms, "ramöz")
	assert.Contains(t, terms, "boyahane")

	assert.Empty(t, m.ExtractFinishing("Commercial real estate brokerage"))
	assert.Empty(t, m.ExtractFinishing(""))
}

func TestDefaultTable_Complete(t *testing.T) {
	table := DefaultTable()
	require.NoError(t, table.Validate())

	assert.Contains(t, table.OEMTier1, "monforts")
	assert.Contains(t, table.OEMTier2, "santex")
	assert.NotEmpty(t, table.Languages["en"])
	assert.NotEmpty(t, table.Languages["tr"])
}

func TestExtractOEMBrands(t *testing.T) {
	m := NewMatcher(nil)

	tier1, tier2 := m.ExtractOEMBrands("New Monforts Montex line and a Santex dryer installed")
	assert.Contains(t, tier1, "monforts")
	assert.Contains(t, tier1, "montex")
	assert.Contains(t, tier2, "santex")

	// Folded umlaut form.
	tier1, _ = m.ExtractOEMBrands("BRUCKNER stenter commissioned in 2023")
	assert.NotEmpty(t, tier1)
}

func TestDetectLanguage(t *testing.T) {
	m := NewMatcher(nil)

	assert.Equal(t, "en", m.DetectLanguage("stenter heat setting and dyeing operations"))
	assert.Equal(t, "tr", m.DetectLanguage("ramöz fikse ve terbiye hattı"))
	assert.Equal(t, "pt", m.DetectLanguage("tinturaria e estamparia com beneficiamento"))
	assert.Equal(t, "unknown", m.DetectLanguage("plain unrelated text"))
	assert.Equal(t, "unknown", m.DetectLanguage(""))
}

func TestScoreRelevance(t *testing.T) {
	m := NewMatcher(nil)

	score, details := m.ScoreRelevance("Monforts stenter for dyeing and heat setting")
	assert.Greater(t, score, 40)
	assert.LessOrEqual(t, score, 100)
	assert.Equal(t, "en", details.Language)
	assert.Contains(t, details.OEMTier1, "monforts")

	score, details = m.ScoreRelevance("nothing relevant here")
	assert.Equal(t, 0, score)
	assert.Equal(t, "unknown", details.Language)
}

func TestScoreRelevance_Caps(t *testing.T) {
	m := NewMatcher(nil)

	// Pile on enough terms to hit both the pre-language cap of 90 and the
	// final cap of 100.
	text := "stenter tenter frame heat setting dyeing mercerizing sanforizing " +
		"singeing calendering monforts brückner babcock krantz artos santex ilsung"
	score, _ := m.ScoreRelevance(text)
	assert.Equal(t, 100, score)
}

func TestLoadFallback(t *testing.T) {
	// Missing file degrades to the built-in table, never zero capability.
	table := Load("/nonexistent/keywords.yaml")
	require.NotNil(t, table)
	assert.NotEmpty(t, table.Languages["en"])

	table = Load("")
	require.NotNil(t, table)
	require.NoError(t, table.Validate())
}
