package scoring

import (
	"github.com/riskwatch-systems/riskwatch-stack/pipeline/internal/features"
)

// ScoredEvent is the terminal artifact of the pipeline: one daily
// aggregate plus its model outputs and the boolean spike flags the
// dashboard filters on.
type ScoredEvent struct {
	features.Aggregate

	Anomaly      bool
	AnomalyScore float64
	RiskScore    float64
	RiskLevel    Level

	// Boolean spike flags: the z-score spike features cut at a fixed
	// threshold so the dashboard can filter without knowing the scale.
	LogonSpike  bool
	HTTPSpike   bool
	DeviceSpike bool
}

// ScoreAggregates runs the full scoring stage over the enriched daily
// table: standardize, fit and score the isolation forest, derive global
// risk-level thresholds, classify every row and cut the boolean spike
// flags at zThreshold.
func ScoreAggregates(aggs []features.Aggregate, cfg DetectorConfig, zThreshold float64) ([]ScoredEvent, Thresholds, error) {
	X := BuildMatrix(aggs)

	scaler, err := FitStandardizer(X)
	if err != nil {
		return nil, Thresholds{}, err
	}

	results, err := Score(scaler.Transform(X), cfg)
	if err != nil {
		return nil, Thresholds{}, err
	}

	riskScores := make([]float64, len(results))
	for i, r := range results {
		riskScores[i] = r.RiskScore
	}
	thresholds, err := ComputeThresholds(riskScores)
	if err != nil {
		return nil, Thresholds{}, err
	}

	scored := make([]ScoredEvent, len(aggs))
	for i, a := range aggs {
		scored[i] = ScoredEvent{
			Aggregate:    a,
			Anomaly:      results[i].Anomaly,
			AnomalyScore: results[i].AnomalyScore,
			RiskScore:    results[i].RiskScore,
			RiskLevel:    thresholds.Classify(results[i].RiskScore),
			LogonSpike:   a.LogonSpikeScore > zThreshold,
			HTTPSpike:    a.HTTPSpikeScore > zThreshold,
			DeviceSpike:  a.DeviceSpikeScore > zThreshold,
		}
	}
	return scored, thresholds, nil
}
