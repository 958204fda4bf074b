package scoring

import (
	"fmt"

	"github.com/hed1ad/goguardml/pkg/detectors/iforest"
)

// DetectorConfig holds isolation forest parameters. The defaults mirror
// the production configuration: 200 trees, 2% expected anomaly fraction,
// automatic subsampling, full feature set per tree, fixed seed.
type DetectorConfig struct {
	Trees         int
	SampleSize    int
	Contamination float64
	Seed          int64
}

// DefaultDetectorConfig returns the standard model parameters.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		Trees:         200,
		SampleSize:    256,
		Contamination: 0.02,
		Seed:          42,
	}
}

// Result carries the detector outputs for one row.
type Result struct {
	// Anomaly is true when the row's score clears the detector's
	// contamination threshold.
	Anomaly bool
	// AnomalyScore follows the classic decision-function convention:
	// higher means more normal.
	AnomalyScore float64
	// RiskScore is the sign-flipped anomaly score, so higher always
	// means riskier.
	RiskScore float64
}

// Score fits the isolation forest on the standardized matrix and scores
// every row. Fitting and scoring use the same data; the model is a
// single-pass batch detector, not an online one.
func Score(X [][]float64, cfg DetectorConfig) ([]Result, error) {
	if len(X) == 0 {
		return nil, fmt.Errorf("empty feature matrix")
	}

	sampleSize := cfg.SampleSize
	if sampleSize > len(X) {
		sampleSize = len(X)
	}

	detector := iforest.New(
		iforest.WithTrees(cfg.Trees),
		iforest.WithSampleSize(sampleSize),
		iforest.WithContamination(cfg.Contamination),
		iforest.WithSeed(cfg.Seed),
	)

	if err := detector.Fit(X); err != nil {
		return nil, fmt.Errorf("fit isolation forest: %w", err)
	}

	scores, err := detector.Predict(X)
	if err != nil {
		return nil, fmt.Errorf("score feature matrix: %w", err)
	}
	if len(scores) != len(X) {
		return nil, fmt.Errorf("detector returned %d scores for %d rows", len(scores), len(X))
	}

	threshold := detector.Threshold()
	results := make([]Result, len(scores))
	for i, score := range scores {
		results[i] = Result{
			Anomaly:      score >= threshold,
			AnomalyScore: -score,
			RiskScore:    score,
		}
	}
	return results, nil
}
