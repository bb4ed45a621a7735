package scorer

import (
	"sync"

	"github.com/sparetex/leadgen-cli/internal/model"
)

// Stats aggregates batch scoring outcomes for operational reporting.
// Safe for concurrent use so parallel deep validation can share one instance.
type Stats struct {
	mu            sync.Mutex
	total         int
	salesReady    int
	perConfidence map[model.Confidence]int
	perTier       map[int]int
}

// NewStats creates an empty aggregate.
func NewStats() *Stats {
	return &Stats{
		perConfidence: make(map[model.Confidence]int),
		perTier:       make(map[int]int),
	}
}

// Observe records one scored lead.
func (st *Stats) Observe(score model.SCEScore, tier int) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.total++
	if score.SalesReady {
		st.salesReady++
	}
	st.perConfidence[score.Confidence]++
	if tier > 0 {
		st.perTier[tier]++
	}
}

// Snapshot returns a copy of the current aggregates.
func (st *Stats) Snapshot() (total, salesReady int, perConfidence map[model.Confidence]int, perTier map[int]int) {
	st.mu.Lock()
	defer st.mu.Unlock()

	pc := make(map[model.Confidence]int, len(st.perConfidence))
	for k, v := range st.perConfidence {
		pc[k] = v
	}
	pt := make(map[int]int, len(st.perTier))
	for k, v := range st.perTier {
		pt[k] = v
	}
	return st.total, st.salesReady, pc, pt
}

// ScoreBatch scores every lead in place and returns aggregate statistics.
// Records already carrying a rejection reason are skipped but still counted.
func (s *Scorer) ScoreBatch(leads []*model.Lead) *Stats {
	stats := NewStats()
	for _, lead := range leads {
		if lead.RejectionReason != "" {
			continue
		}
		lead.SCE = s.ScoreLead(lead, BoostNone)
		stats.Observe(lead.SCE, lead.Tier)
	}
	return stats
}
