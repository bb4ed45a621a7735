package classify

import (
	"github.com/sparetex/leadgen-cli/internal/filter"
	"github.com/sparetex/leadgen-cli/internal/model"
)

// trustedK1Sources are harvest sources that count as third-party
// corroboration on their own: certification directories and pre-verified
// manufacturer lists.
var trustedK1Sources = map[model.SourceType]bool{
	model.SourceKnownManufacturer: true,
	model.SourceGOTS:              true,
	model.SourceOekoTex:           true,
	model.SourceFairExhibitor:     true,
}

// DualEvidence partitions a lead's accumulated evidence into K1
// (externally-sourced) and K2 (first-party site content) and flags records
// holding both as golden: one third-party corroboration plus one first-party
// admission beats either alone.
func DualEvidence(lead *model.Lead) (k1, k2 int) {
	if trustedK1Sources[lead.SourceType] {
		k1++
	}

	ownDomain := filter.Domain(lead.Website)

	for _, d := range lead.EvidenceDetails {
		if d.URL == "" {
			continue
		}
		domain := filter.Domain(d.URL)
		if ownDomain != "" && domain == ownDomain {
			k2++
		} else {
			k1++
		}
	}

	return k1, k2
}

// ApplyDualEvidence runs DualEvidence and records the counts and golden flag
// on the lead.
func ApplyDualEvidence(lead *model.Lead) {
	k1, k2 := DualEvidence(lead)
	lead.K1Count = k1
	lead.K2Count = k2
	lead.IsGolden = k1 >= 1 && k2 >= 1
}
