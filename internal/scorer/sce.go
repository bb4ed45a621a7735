// Package scorer implements the Stenter Customer Evidence (SCE) scorer: the
// authoritative confidence score that a company owns or operates
// stenter-class equipment, computed once per lead over its cumulative text.
package scorer

import (
	"github.com/cloudflare/ahocorasick"

	"github.com/sparetex/leadgen-cli/internal/keywords"
	"github.com/sparetex/leadgen-cli/internal/model"
)

// ExternalBoost carries upstream triangulation confidence into the scorer so
// live web evidence can outrank static text evidence.
type ExternalBoost string

const (
	BoostNone   ExternalBoost = ""
	BoostMedium ExternalBoost = "medium"
	BoostStrong ExternalBoost = "strong"
)

// Weights holds the scorer's tunable constants. Defaults match the documented
// formulas; they live in configuration so scoring stays auditable without
// code changes.
type Weights struct {
	E1PerHit        float64 `yaml:"e1_per_hit" mapstructure:"e1_per_hit"`
	E2PerHit        float64 `yaml:"e2_per_hit" mapstructure:"e2_per_hit"`
	E3PerHit        float64 `yaml:"e3_per_hit" mapstructure:"e3_per_hit"`
	NegativePenalty float64 `yaml:"negative_penalty" mapstructure:"negative_penalty"`
}

// DefaultWeights returns the documented scoring constants.
func DefaultWeights() Weights {
	return Weights{
		E1PerHit:        0.4,
		E2PerHit:        0.25,
		E3PerHit:        0.2,
		NegativePenalty: 0.3,
	}
}

// Scorer evaluates lead text against the three evidence tiers. Pure function
// of its input; scoring the same text twice yields identical output.
type Scorer struct {
	weights Weights
	e1      *ahocorasick.Matcher
	e2      *ahocorasick.Matcher
	e3      *ahocorasick.Matcher
	neg     *ahocorasick.Matcher
}

// New creates a Scorer with the given weights and the built-in term tiers.
func New(weights Weights) *Scorer {
	return &Scorer{
		weights: weights,
		e1:      buildMatcher(e1Terms),
		e2:      buildMatcher(e2Terms),
		e3:      buildMatcher(e3Terms),
		neg:     buildMatcher(negativeTerms),
	}
}

func buildMatcher(terms []string) *ahocorasick.Matcher {
	folded := make([]string, len(terms))
	for i, t := range terms {
		folded[i] = keywords.Fold(t)
	}
	return ahocorasick.NewStringMatcher(folded)
}

// Score evaluates text and returns the SCE score. The boost adds phantom
// hits before scoring: strong external evidence adds 2 to the E1 count,
// medium adds 1 to E2.
func (s *Scorer) Score(text string, boost ExternalBoost) model.SCEScore {
	folded := []byte(keywords.Fold(text))

	e1Hits := len(s.e1.Match(folded))
	e2Hits := len(s.e2.Match(folded))
	e3Hits := len(s.e3.Match(folded))
	negative := len(s.neg.Match(folded)) > 0

	switch boost {
	case BoostStrong:
		e1Hits += 2
	case BoostMedium:
		e2Hits++
	}

	e1 := capped(float64(e1Hits) * s.weights.E1PerHit)
	e2 := capped(float64(e2Hits) * s.weights.E2PerHit)
	e3 := capped(float64(e3Hits) * s.weights.E3PerHit)

	// Penalize, do not zero: residual weak signal stays visible for audit.
	if negative {
		e1 *= s.weights.NegativePenalty
		e2 *= s.weights.NegativePenalty
		e3 *= s.weights.NegativePenalty
	}

	// Either definitive evidence alone, or a combination of process and
	// context evidence, independently justifies a high total.
	total := e1
	if combo := 0.6*e2 + 0.4*e3; combo > total {
		total = combo
	}
	if blend := 0.5*e1 + 0.3*e2 + 0.2*e3; blend > total {
		total = blend
	}

	salesReady := (e1 >= 0.4 || (e2 >= 0.4 && e3 >= 0.3) || total >= 0.5) && !negative

	var confidence model.Confidence
	switch {
	case e1 >= 0.6 || total >= 0.7:
		confidence = model.ConfidenceHigh
	case e1 >= 0.3 || total >= 0.4:
		confidence = model.ConfidenceMedium
	default:
		confidence = model.ConfidenceLow
	}

	return model.SCEScore{
		E1:         e1,
		E2:         e2,
		E3:         e3,
		Total:      total,
		SalesReady: salesReady,
		Confidence: confidence,
		Negative:   negative,
	}
}

// ScoreLead builds the cumulative evidence text for a lead and scores it.
func (s *Scorer) ScoreLead(lead *model.Lead, boost ExternalBoost) model.SCEScore {
	text := lead.Company + " " + lead.Context + " " + string(lead.SourceType)
	for _, sig := range lead.FinishingSignals {
		text += " " + sig
	}
	for _, sig := range lead.OEMSignals {
		text += " " + sig
	}
	for _, d := range lead.EvidenceDetails {
		text += " " + d.Term + " " + d.Context
	}
	return s.Score(text, boost)
}

func capped(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	return v
}
