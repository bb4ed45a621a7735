package classify

import (
	"strings"

	"github.com/sparetex/leadgen-cli/internal/model"
)

// Entity keyword vocabularies. Checked in a fixed priority order so that
// overlapping vocabulary is not double-counted: a description containing both
// "association" and "dyeing" classifies as ASSOCIATION.
var (
	associationKeywords = []string{
		"association", "federation", "chamber of", "union of", "council",
		"institute", "birliği", "dernek", "odası", "sindicato", "asociación",
		"non-profit", "ngo",
	}
	intermediaryKeywords = []string{
		"dealer", "trader", "trading", "distributor", "agent", "reseller",
		"wholesaler", "broker", "machinery sales", "spare parts",
		"import export", "ticaret",
	}
	endUserKeywords = []string{
		"dyeing", "finishing", "stenter", "mill", "fabric production",
		"knitting", "weaving", "terbiye", "boyahane", "tinturaria",
		"manufacturer", "factory", "üretim", "integrated",
	}
	brandKeywords = []string{
		"brand", "fashion house", "retailer", "retail chain", "label house",
		"collection", "ready-to-wear", "marka", "moda",
	}
)

// entityPriority orders export sorting only; the accept/reject decision is
// ShouldProcess.
var entityPriority = map[model.EntityType]int{
	model.EntityEndUser:      100,
	model.EntityUnknown:      50,
	model.EntityBrand:        30,
	model.EntityIntermediary: 10,
	model.EntityAssociation:  0,
}

// ClassifyEntity distinguishes END_USER / INTERMEDIARY / BRAND / ASSOCIATION
// from name, description, and any fetched website content. First match in
// priority order wins.
func ClassifyEntity(name, description, websiteContent string) model.EntityType {
	text := strings.ToLower(name + " " + description + " " + websiteContent)

	for _, kw := range associationKeywords {
		if strings.Contains(text, kw) {
			return model.EntityAssociation
		}
	}
	for _, kw := range intermediaryKeywords {
		if strings.Contains(text, kw) {
			return model.EntityIntermediary
		}
	}
	for _, kw := range endUserKeywords {
		if strings.Contains(text, kw) {
			return model.EntityEndUser
		}
	}
	for _, kw := range brandKeywords {
		if strings.Contains(text, kw) {
			return model.EntityBrand
		}
	}

	return model.EntityUnknown
}

// ShouldProcess reports whether the pipeline should keep working a lead of
// this entity type. Only intermediaries and associations are skipped.
func ShouldProcess(et model.EntityType) bool {
	return et != model.EntityIntermediary && et != model.EntityAssociation
}

// PriorityScore returns the static sort-order score for an entity type.
func PriorityScore(et model.EntityType) int {
	if p, ok := entityPriority[et]; ok {
		return p
	}
	return entityPriority[model.EntityUnknown]
}
