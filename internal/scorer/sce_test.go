package scorer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sparetex/leadgen-cli/internal/model"
)

func TestScore_DefinitiveEvidence(t *testing.T) {
	s := New(DefaultWeights())

	score := s.Score("Dyeing and finishing facility with stenter machines", BoostNone)
	assert.Greater(t, score.E1, 0.0, "stenter is an E1 term")
	assert.Greater(t, score.E2, 0.0, "dyeing/finishing are E2 terms")
	assert.True(t, score.SalesReady)
	assert.False(t, score.Negative)
}

func TestScore_NegativeSignal(t *testing.T) {
	s := New(DefaultWeights())

	score := s.Score("Textile machinery dealer and spare parts supplier with stenter expertise", BoostNone)
	assert.True(t, score.Negative)
	assert.False(t, score.SalesReady, "negative signal forces sales_ready false")
	// Penalized, not zeroed: residual E1 from "stenter" survives.
	assert.Greater(t, score.E1, 0.0)
	assert.Less(t, score.E1, 0.4)
}

func TestScore_Idempotent(t *testing.T) {
	s := New(DefaultWeights())
	text := "Monforts stenter line, boyahane ve terbiye, integrated production"

	first := s.Score(text, BoostNone)
	second := s.Score(text, BoostNone)
	assert.Equal(t, first, second)
}

func TestScore_E1Monotonicity(t *testing.T) {
	s := New(DefaultWeights())

	// Each added distinct E1 term never decreases e1 until the 1.0 cap.
	terms := []string{"stenter", "tenter frame", "chain rail", "pin chain", "slide block", "monforts"}
	prev := 0.0
	for i := 1; i <= len(terms); i++ {
		score := s.Score(strings.Join(terms[:i], " "), BoostNone)
		assert.GreaterOrEqual(t, score.E1, prev, "adding %q decreased e1", terms[i-1])
		prev = score.E1
	}
	assert.Equal(t, 1.0, prev, "six distinct E1 hits saturate the cap")
}

func TestScore_ExternalBoost(t *testing.T) {
	s := New(DefaultWeights())
	text := "fabric producer"

	base := s.Score(text, BoostNone)
	strong := s.Score(text, BoostStrong)
	medium := s.Score(text, BoostMedium)

	assert.InDelta(t, base.E1+0.8, strong.E1, 0.001, "strong boost adds 2 E1 hits")
	assert.InDelta(t, base.E2+0.25, medium.E2, 0.001, "medium boost adds 1 E2 hit")
}

func TestScore_TotalIsThreeWayMax(t *testing.T) {
	s := New(DefaultWeights())

	// Process+context evidence alone (no E1) still justifies a high total.
	score := s.Score("dyeing bleaching mercerizing at our weaving mill, capacity expansion investment in new production line", BoostNone)
	assert.Equal(t, 0.0, score.E1)
	assert.InDelta(t, 0.6*score.E2+0.4*score.E3, score.Total, 0.001)
	assert.True(t, score.SalesReady)
}

func TestScore_ConfidenceBuckets(t *testing.T) {
	s := New(DefaultWeights())

	tests := []struct {
		text   string
		expect model.Confidence
	}{
		{"stenter line and tenter frame from monforts", model.ConfidenceHigh},
		{"stenter installed", model.ConfidenceMedium},
		{"general fabric supplier", model.ConfidenceLow},
	}

	for _, tt := range tests {
		t.Run(string(tt.expect), func(t *testing.T) {
			assert.Equal(t, tt.expect, s.Score(tt.text, BoostNone).Confidence)
		})
	}
}

func TestScoreBatch(t *testing.T) {
	s := New(DefaultWeights())

	leads := []*model.Lead{
		{Company: "ABC Tekstil", Context: "stenter dyeing finishing"},
		{Company: "Noise Co", RejectionReason: "noise_name"},
		{Company: "Plain Co", Context: "unrelated services"},
	}

	stats := s.ScoreBatch(leads)
	total, salesReady, perConfidence, _ := stats.Snapshot()
	assert.Equal(t, 2, total, "rejected leads are not scored")
	assert.Equal(t, 1, salesReady)
	assert.Equal(t, 1, perConfidence[model.ConfidenceLow])
	assert.True(t, leads[0].SCE.SalesReady)
	assert.Equal(t, model.SCEScore{Confidence: model.ConfidenceLow}, leads[2].SCE)
}

func TestScore_CapAt100Hits(t *testing.T) {
	s := New(DefaultWeights())

	var b strings.Builder
	for i, term := range e1Terms {
		fmt.Fprintf(&b, "%s (%d) ", term, i)
	}
	score := s.Score(b.String(), BoostNone)
	assert.Equal(t, 1.0, score.E1)
	assert.LessOrEqual(t, score.Total, 1.0)
}
