package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sparetex/leadgen-cli/internal/model"
)

func TestClassifyEntity_PriorityOrder(t *testing.T) {
	// ASSOCIATION wins over END_USER even when both vocabularies match.
	et := ClassifyEntity("Textile Dyers Association", "represents dyeing and finishing mills", "")
	assert.Equal(t, model.EntityAssociation, et)

	// INTERMEDIARY wins over END_USER.
	et = ClassifyEntity("Tex Trading", "dealer for dyeing machinery and mill equipment", "")
	assert.Equal(t, model.EntityIntermediary, et)
}

func TestClassifyEntity(t *testing.T) {
	tests := []struct {
		name        string
		description string
		expect      model.EntityType
	}{
		{"ABC Tekstil", "dyeing and finishing mill with stenter lines", model.EntityEndUser},
		{"Moda Marka", "fashion house with retail chain", model.EntityBrand},
		{"Unrelated Corp", "commercial real estate", model.EntityUnknown},
		{"TTMD", "textile machinery distributor", model.EntityIntermediary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, ClassifyEntity(tt.name, tt.description, ""))
		})
	}
}

func TestShouldProcess(t *testing.T) {
	assert.True(t, ShouldProcess(model.EntityEndUser))
	assert.True(t, ShouldProcess(model.EntityBrand))
	assert.True(t, ShouldProcess(model.EntityUnknown))
	assert.False(t, ShouldProcess(model.EntityIntermediary))
	assert.False(t, ShouldProcess(model.EntityAssociation))
}

func TestPriorityScore(t *testing.T) {
	assert.Equal(t, 100, PriorityScore(model.EntityEndUser))
	assert.Equal(t, 0, PriorityScore(model.EntityAssociation))
	assert.Greater(t, PriorityScore(model.EntityEndUser), PriorityScore(model.EntityBrand))
	assert.Greater(t, PriorityScore(model.EntityBrand), PriorityScore(model.EntityIntermediary))
}

func TestDualEvidence(t *testing.T) {
	lead := &model.Lead{
		Company:    "ABC Tekstil",
		Website:    "https://abc-tekstil.com",
		SourceType: model.SourceGOTS,
		EvidenceDetails: []model.EvidenceDetail{
			{Type: "oem_brand", Term: "monforts", URL: "https://textilenews.example/article"},
			{Type: "finishing_keyword", Term: "stenter", URL: "https://abc-tekstil.com/en/plant"},
		},
	}

	ApplyDualEvidence(lead)
	assert.Equal(t, 2, lead.K1Count) // trusted source + external article
	assert.Equal(t, 1, lead.K2Count) // own-site admission
	assert.True(t, lead.IsGolden)
}

func TestDualEvidence_GoldenRequiresBoth(t *testing.T) {
	// External evidence only: not golden.
	lead := &model.Lead{
		Company:    "ABC Tekstil",
		Website:    "https://abc-tekstil.com",
		SourceType: model.SourceGOTS,
	}
	ApplyDualEvidence(lead)
	assert.False(t, lead.IsGolden)
	assert.GreaterOrEqual(t, lead.K1Count, 1)

	// First-party evidence only: not golden.
	lead = &model.Lead{
		Company: "DEF Textil",
		Website: "https://def-textil.com",
		EvidenceDetails: []model.EvidenceDetail{
			{Type: "finishing_keyword", Term: "dyeing", URL: "https://def-textil.com/about"},
		},
	}
	ApplyDualEvidence(lead)
	assert.False(t, lead.IsGolden)
	assert.Equal(t, 0, lead.K1Count)
	assert.Equal(t, 1, lead.K2Count)

	// Invariant: golden implies both counts at least 1.
	if lead.IsGolden {
		assert.GreaterOrEqual(t, lead.K1Count, 1)
		assert.GreaterOrEqual(t, lead.K2Count, 1)
	}
}
