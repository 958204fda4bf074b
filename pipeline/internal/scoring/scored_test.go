package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskwatch-systems/riskwatch-stack/pipeline/internal/features"
)

// makeAggregates builds a population of quiet user-days plus a handful
// of loud outliers the detector should rank above the rest.
func makeAggregates(quiet, loud int) []features.Aggregate {
	aggs := make([]features.Aggregate, 0, quiet+loud)
	for i := 0; i < quiet; i++ {
		aggs = append(aggs, features.Aggregate{
			User:                "quiet",
			Date:                time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			LogonCount:          3 + i%2,
			HTTPRequests:        20 + i%5,
			HTTPBytesSent:       1000,
			HTTPBytesReceived:   5000,
			DeviceActivityCount: 1,
			Hour:                9,
			IsWorkingDay:        true,
		})
	}
	for i := 0; i < loud; i++ {
		aggs = append(aggs, features.Aggregate{
			User:                "loud",
			Date:                time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			LogonCount:          40,
			HTTPRequests:        500,
			HTTPBytesSent:       900000,
			HTTPBytesReceived:   4000000,
			DeviceActivityCount: 30,
			LogonSpikeScore:     5,
			HTTPSpikeScore:      6,
			DeviceSpikeScore:    7,
			Hour:                3,
			IsOffHours:          true,
		})
	}
	return aggs
}

func TestBuildMatrixShape(t *testing.T) {
	aggs := makeAggregates(3, 1)
	X := BuildMatrix(aggs)

	require.Len(t, X, 4)
	for _, row := range X {
		assert.Len(t, row, len(FeatureNames))
	}

	// Spot-check a few column positions against FeatureNames order.
	assert.Equal(t, float64(aggs[0].LogonCount), X[0][0])
	assert.Equal(t, float64(aggs[0].HTTPRequests), X[0][1])
	assert.Equal(t, 1.0, X[0][12], "is_working_day encodes as 1")
	assert.Equal(t, 1.0, X[3][13], "is_off_hours encodes as 1")
}

func TestScoreAggregatesRanksOutliers(t *testing.T) {
	aggs := makeAggregates(60, 3)
	cfg := DefaultDetectorConfig()

	scored, thresholds, err := ScoreAggregates(aggs, cfg, 2.0)
	require.NoError(t, err)
	require.Len(t, scored, len(aggs))
	assert.Less(t, thresholds.Medium, thresholds.High)

	quietMax, loudMin := -1e9, 1e9
	for _, s := range scored {
		if s.User == "quiet" && s.RiskScore > quietMax {
			quietMax = s.RiskScore
		}
		if s.User == "loud" && s.RiskScore < loudMin {
			loudMin = s.RiskScore
		}
	}
	assert.Greater(t, loudMin, quietMax, "every outlier day should outscore every quiet day")
}

func TestScoreAggregatesDeterministic(t *testing.T) {
	aggs := makeAggregates(40, 2)
	cfg := DefaultDetectorConfig()

	a, _, err := ScoreAggregates(aggs, cfg, 2.0)
	require.NoError(t, err)
	b, _, err := ScoreAggregates(aggs, cfg, 2.0)
	require.NoError(t, err)

	for i := range a {
		assert.Equal(t, a[i].RiskScore, b[i].RiskScore, "fixed seed must reproduce scores")
		assert.Equal(t, a[i].RiskLevel, b[i].RiskLevel)
	}
}

func TestScoreAggregatesSpikeFlags(t *testing.T) {
	aggs := makeAggregates(30, 2)
	scored, _, err := ScoreAggregates(aggs, DefaultDetectorConfig(), 2.0)
	require.NoError(t, err)

	for _, s := range scored {
		wantLogon := s.LogonSpikeScore > 2.0
		assert.Equal(t, wantLogon, s.LogonSpike)
		assert.Equal(t, s.HTTPSpikeScore > 2.0, s.HTTPSpike)
		assert.Equal(t, s.DeviceSpikeScore > 2.0, s.DeviceSpike)
	}
}

func TestScoreAggregatesSignConvention(t *testing.T) {
	aggs := makeAggregates(30, 2)
	scored, _, err := ScoreAggregates(aggs, DefaultDetectorConfig(), 2.0)
	require.NoError(t, err)

	for _, s := range scored {
		assert.InDelta(t, -s.AnomalyScore, s.RiskScore, 1e-12,
			"risk score is the sign-flipped anomaly score")
	}
}

func TestScoreEmptyMatrix(t *testing.T) {
	_, err := Score(nil, DefaultDetectorConfig())
	assert.Error(t, err)
}
