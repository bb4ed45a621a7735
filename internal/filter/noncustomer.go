package filter

import "strings"

// nonCustomerIndicators disqualify entities that cannot be finishing-machine
// customers: label/packaging makers, plastics, software shops, machinery
// dealers, associations, media, and carpet/rug producers.
var nonCustomerIndicators = []string{
	// Labels and packaging.
	"label", "labels", "etiket", "packaging", "ambalaj", "hang tag",
	// Plastics.
	"plastic", "plastik", "pvc profile", "polymer film",
	// Software / consulting.
	"software", "yazılım", "consulting", "danışmanlık", "erp", "saas",
	"digital agency", "web design",
	// Machinery suppliers and dealers.
	"machinery manufacturer", "machine manufacturer", "makine imalat",
	"machinery dealer", "machine dealer", "used machinery", "second hand machinery",
	"spare parts supplier", "spare parts shop", "yedek parça satış",
	"machinery trading", "machine trading", "equipment supplier",
	// Organizations.
	"association", "federation", "chamber", "ministry", "institute",
	"university", "birliği", "dernek", "odası",
	// Media.
	"magazine", "journal", "news portal", "publishing", "dergi",
	// Carpet and rugs (different machine category).
	"carpet", "rug", "halı", "kilim",
}

// dyeingFinishingTerms exempt garment makers that also run wet processing.
var dyeingFinishingTerms = []string{
	"dyeing", "dye house", "dyehouse", "finishing", "boya", "boyahane",
	"terbiye", "apre", "printing", "baskı", "wash", "yıkama",
}

// IsNonCustomer reports whether the name+context identifies an entity that
// cannot be a finishing-machine customer. Pure predicate.
//
// Exceptions: "garment" only disqualifies when no dyeing/finishing term
// co-occurs; "institute of technology" and "reaction chamber" are machine or
// education vocabulary, not organization markers.
func IsNonCustomer(name, context string) bool {
	text := strings.ToLower(name + " " + context)

	for _, ind := range nonCustomerIndicators {
		idx := strings.Index(text, ind)
		if idx < 0 {
			continue
		}

		switch ind {
		case "institute":
			if strings.HasPrefix(text[idx:], "institute of technology") {
				continue
			}
		case "chamber":
			if strings.HasSuffix(strings.TrimSpace(text[:idx]), "reaction") {
				continue
			}
		}

		return true
	}

	// Garment-only producers buy from converters; garment plus wet processing
	// is a customer profile.
	if strings.Contains(text, "garment") || strings.Contains(text, "konfeksiyon") {
		for _, t := range dyeingFinishingTerms {
			if strings.Contains(text, t) {
				return false
			}
		}
		return true
	}

	return false
}
