package scoring

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Level is a categorical risk bucket.
type Level string

const (
	LevelLow    Level = "Low"
	LevelMedium Level = "Medium"
	LevelHigh   Level = "High"
)

// Levels returns the risk levels in ascending order.
func Levels() []Level {
	return []Level{LevelLow, LevelMedium, LevelHigh}
}

// Thresholds holds the global risk-score cut points. Rows below Medium
// are Low, rows below High are Medium, the rest are High. The cuts are
// computed once over the full scored population and never recomputed per
// filtered subset: filtering must not change what counts as high risk.
type Thresholds struct {
	Medium float64 // 75th percentile of risk score
	High   float64 // 95th percentile of risk score
}

// ComputeThresholds derives the 75th/95th percentile cut points from the
// full population of risk scores.
func ComputeThresholds(riskScores []float64) (Thresholds, error) {
	if len(riskScores) == 0 {
		return Thresholds{}, fmt.Errorf("no risk scores to derive thresholds from")
	}

	sorted := make([]float64, len(riskScores))
	copy(sorted, riskScores)
	sort.Float64s(sorted)

	return Thresholds{
		Medium: stat.Quantile(0.75, stat.LinInterp, sorted, nil),
		High:   stat.Quantile(0.95, stat.LinInterp, sorted, nil),
	}, nil
}

// Classify maps a risk score onto a level. Classification is strictly
// monotonic in the score under fixed thresholds.
func (t Thresholds) Classify(riskScore float64) Level {
	switch {
	case riskScore < t.Medium:
		return LevelLow
	case riskScore < t.High:
		return LevelMedium
	default:
		return LevelHigh
	}
}
