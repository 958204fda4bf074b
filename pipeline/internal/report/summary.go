// Package report prints the diagnostic summary emitted after a scoring
// run. The output is informational only; it is not part of the persisted
// artifact.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/riskwatch-systems/riskwatch-stack/pipeline/internal/scoring"
)

const topRecords = 5

// Summary writes anomaly counts, the risk-level distribution with a
// textual bar per level, and the highest-risk records.
func Summary(w io.Writer, events []scoring.ScoredEvent) {
	anomalies := 0
	levelCounts := map[scoring.Level]int{}
	for _, e := range events {
		if e.Anomaly {
			anomalies++
		}
		levelCounts[e.RiskLevel]++
	}

	fmt.Fprintf(w, "Scored %d user-days\n", len(events))
	fmt.Fprintf(w, "Anomaly counts: %d anomalous, %d normal\n", anomalies, len(events)-anomalies)

	fmt.Fprintln(w, "\nRisk level distribution:")
	maxCount := 0
	for _, level := range scoring.Levels() {
		if c := levelCounts[level]; c > maxCount {
			maxCount = c
		}
	}
	for _, level := range scoring.Levels() {
		count := levelCounts[level]
		fmt.Fprintf(w, "  %-6s %7d %s\n", level, count, bar(count, maxCount))
	}

	top := make([]scoring.ScoredEvent, 0, len(events))
	for _, e := range events {
		if e.RiskLevel == scoring.LevelHigh {
			top = append(top, e)
		}
	}
	sort.Slice(top, func(i, j int) bool { return top[i].RiskScore > top[j].RiskScore })
	if len(top) > topRecords {
		top = top[:topRecords]
	}

	fmt.Fprintf(w, "\nTop %d high risk records:\n", len(top))
	for _, e := range top {
		fmt.Fprintf(w, "  %s  %s  risk_score=%.4f  %s\n",
			e.User, e.Date.Format("2006-01-02"), e.RiskScore, e.RiskLevel)
	}
}

// bar renders a proportional text bar, 40 columns at the maximum count.
func bar(count, max int) string {
	if max == 0 {
		return ""
	}
	width := count * 40 / max
	return strings.Repeat("#", width)
}
