// Package classify holds the heuristic classifiers that decide what business
// role a lead plays. The role classifier and the entity validator keep
// deliberately separate vocabularies; they are two independent signals, not
// one merged model.
package classify

import (
	"sort"
	"strings"

	"github.com/sparetex/leadgen-cli/internal/model"
)

// RoleWeights centralizes the role classifier's tunable constants.
type RoleWeights struct {
	StrongCustomer        float64 `yaml:"strong_customer" mapstructure:"strong_customer"`
	StrongIntermediary    float64 `yaml:"strong_intermediary" mapstructure:"strong_intermediary"`
	GenericCustomer       float64 `yaml:"generic_customer" mapstructure:"generic_customer"`
	GenericIntermediary   float64 `yaml:"generic_intermediary" mapstructure:"generic_intermediary"`
	CustomerThreshold     float64 `yaml:"customer_threshold" mapstructure:"customer_threshold"`
	IntermediaryThreshold float64 `yaml:"intermediary_threshold" mapstructure:"intermediary_threshold"`
}

// DefaultRoleWeights returns the documented scoring constants.
func DefaultRoleWeights() RoleWeights {
	return RoleWeights{
		StrongCustomer:        0.3,
		StrongIntermediary:    -0.4,
		GenericCustomer:       0.1,
		GenericIntermediary:   -0.15,
		CustomerThreshold:     0.3,
		IntermediaryThreshold: -0.2,
	}
}

// sourceTrust weights how much we trust each harvest source. The adjustment
// applied to the score is (weight-0.5)*0.5, so a neutral source contributes
// nothing.
var sourceTrust = map[model.SourceType]float64{
	model.SourceKnownManufacturer: 1.0,
	model.SourceGOTS:              0.9,
	model.SourceOekoTex:           0.85,
	model.SourceFairExhibitor:     0.7,
	model.SourceBraveSearch:       0.4,
	model.SourceWebScrape:         0.2,
}

var strongCustomerPhrases = []string{
	"integrated textile", "entegre tekstil", "dyeing and finishing",
	"dye house", "dyehouse", "boya ve terbiye", "fabric finishing",
	"finishing plant", "finishing mill", "tinturaria e acabamento",
	"vertically integrated", "own dyeing",
}

var strongIntermediaryPhrases = []string{
	"spare parts shop", "spare parts supplier", "spare part supplier",
	"machinery dealer", "machine dealer", "used machinery",
	"second hand machinery", "machinery trading", "machine trading",
	"yedek parça satış", "makine ticaret", "textile machinery agent",
}

var genericCustomerKeywords = []string{
	"mill", "dyeing", "finishing", "fabric", "knitting", "weaving",
	"manufacturer", "production facility", "factory", "tekstil", "textil",
	"boyahane", "üretim",
}

var genericIntermediaryKeywords = []string{
	"trading", "dealer", "wholesale", "import export", "agency",
	"distributor", "reseller", "broker", "supplier of machinery", "ticaret",
}

// RoleResult is the role classifier's audit-friendly output.
type RoleResult struct {
	Role            model.Role `json:"role"`
	Confidence      float64    `json:"confidence"`
	Score           float64    `json:"score"`
	PositiveSignals []string   `json:"positive_signals"`
	NegativeSignals []string   `json:"negative_signals"`
}

// RoleClassifier scores a lead as CUSTOMER / INTERMEDIARY / UNKNOWN from
// weighted keyword and source-type signals. Pure function over text; calling
// it twice with unchanged input yields identical output.
type RoleClassifier struct {
	weights RoleWeights
}

// NewRoleClassifier creates a classifier with the given weights.
func NewRoleClassifier(weights RoleWeights) *RoleClassifier {
	return &RoleClassifier{weights: weights}
}

// Classify scores the lead's combined company+context+website text.
func (rc *RoleClassifier) Classify(lead *model.Lead) RoleResult {
	text := strings.ToLower(lead.Company + " " + lead.Context + " " + lead.Website)

	var score float64
	var positive, negative []signal

	for _, p := range strongCustomerPhrases {
		if strings.Contains(text, p) {
			score += rc.weights.StrongCustomer
			positive = append(positive, signal{"strong:" + p, rc.weights.StrongCustomer})
		}
	}
	for _, p := range strongIntermediaryPhrases {
		if strings.Contains(text, p) {
			score += rc.weights.StrongIntermediary
			negative = append(negative, signal{"strong:" + p, -rc.weights.StrongIntermediary})
		}
	}
	for _, k := range genericCustomerKeywords {
		if strings.Contains(text, k) {
			score += rc.weights.GenericCustomer
			positive = append(positive, signal{"keyword:" + k, rc.weights.GenericCustomer})
		}
	}
	for _, k := range genericIntermediaryKeywords {
		if strings.Contains(text, k) {
			score += rc.weights.GenericIntermediary
			negative = append(negative, signal{"keyword:" + k, -rc.weights.GenericIntermediary})
		}
	}

	if weight, ok := sourceTrust[lead.SourceType]; ok {
		score += (weight - 0.5) * 0.5
	}

	result := RoleResult{
		Score:           score,
		PositiveSignals: topSignals(positive, 5),
		NegativeSignals: topSignals(negative, 5),
	}

	switch {
	case score >= rc.weights.CustomerThreshold:
		result.Role = model.RoleCustomer
		result.Confidence = min(0.9, 0.5+score)
	case score <= rc.weights.IntermediaryThreshold:
		result.Role = model.RoleIntermediary
		result.Confidence = min(0.9, 0.5-score)
	default:
		result.Role = model.RoleUnknown
		result.Confidence = 0.3
	}

	return result
}

type signal struct {
	name   string
	weight float64
}

// topSignals keeps the n heaviest signals of one polarity for the audit trail.
func topSignals(signals []signal, n int) []string {
	sort.SliceStable(signals, func(i, j int) bool {
		return signals[i].weight > signals[j].weight
	})
	if len(signals) > n {
		signals = signals[:n]
	}
	names := make([]string, 0, len(signals))
	for _, s := range signals {
		names = append(names, s.name)
	}
	return names
}
