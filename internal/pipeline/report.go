package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sparetex/leadgen-cli/internal/model"
	"github.com/sparetex/leadgen-cli/internal/scorer"
	"github.com/sparetex/leadgen-cli/internal/validate"
)

// Result is the partitioned output of a batch run.
type Result struct {
	RunID    string       `json:"run_id,omitempty"`
	Accepted []model.Lead `json:"accepted"`
	Rejected []model.Lead `json:"rejected"`
	Golden   []model.Lead `json:"golden"`
	Summary  Summary      `json:"summary"`
}

// Summary is the end-of-run operational report.
type Summary struct {
	Total           int                        `json:"total"`
	Accepted        int                        `json:"accepted"`
	Rejected        int                        `json:"rejected"`
	Golden          int                        `json:"golden"`
	SalesReady      int                        `json:"sales_ready"`
	RejectionCounts map[string]int             `json:"rejection_counts"`
	TierCounts      map[int]int                `json:"tier_counts"`
	FailReasons     map[string]int             `json:"fail_reasons"`
	Confidence      map[model.Confidence]int   `json:"confidence"`
	Elapsed         time.Duration              `json:"elapsed"`
}

func buildResult(runID string, batch *validate.BatchResult, rejected []model.Lead, stats *scorer.Stats, elapsed time.Duration) *Result {
	result := &Result{
		RunID:    runID,
		Rejected: rejected,
	}

	for _, lead := range batch.Leads {
		result.Accepted = append(result.Accepted, lead)
		if lead.IsGolden {
			result.Golden = append(result.Golden, lead)
		}
	}

	rejectionCounts := make(map[string]int)
	for _, lead := range rejected {
		rejectionCounts[lead.RejectionReason]++
	}

	total, salesReady, perConfidence, _ := stats.Snapshot()
	result.Summary = Summary{
		Total:           total + len(rejected),
		Accepted:        len(result.Accepted),
		Rejected:        len(rejected),
		Golden:          len(result.Golden),
		SalesReady:      salesReady,
		RejectionCounts: rejectionCounts,
		TierCounts:      batch.TierCounts,
		FailReasons:     batch.FailReasons,
		Confidence:      perConfidence,
		Elapsed:         elapsed,
	}
	return result
}

// Render formats the summary for terminal output.
func (s Summary) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Processed %d leads in %s\n", s.Total, s.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(&b, "  accepted: %d   rejected: %d   golden: %d   sales-ready: %d\n",
		s.Accepted, s.Rejected, s.Golden, s.SalesReady)

	if len(s.TierCounts) > 0 {
		b.WriteString("  tiers:")
		for _, tier := range sortedIntKeys(s.TierCounts) {
			fmt.Fprintf(&b, " T%d=%d", tier, s.TierCounts[tier])
		}
		b.WriteString("\n")
	}
	if len(s.Confidence) > 0 {
		fmt.Fprintf(&b, "  confidence: high=%d medium=%d low=%d\n",
			s.Confidence[model.ConfidenceHigh], s.Confidence[model.ConfidenceMedium], s.Confidence[model.ConfidenceLow])
	}
	if len(s.RejectionCounts) > 0 {
		b.WriteString("  rejections:")
		for _, reason := range sortedStringKeys(s.RejectionCounts) {
			fmt.Fprintf(&b, " %s=%d", reason, s.RejectionCounts[reason])
		}
		b.WriteString("\n")
	}
	if len(s.FailReasons) > 0 {
		b.WriteString("  fetch failures:")
		for _, reason := range sortedStringKeys(s.FailReasons) {
			fmt.Fprintf(&b, " %s=%d", reason, s.FailReasons[reason])
		}
		b.WriteString("\n")
	}
	return b.String()
}

func sortedIntKeys(m map[int]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func sortedStringKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
