package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func rows(user string, logonCounts ...int) []Aggregate {
	out := make([]Aggregate, len(logonCounts))
	for i, n := range logonCounts {
		out[i] = Aggregate{User: user, Date: day(i + 1), LogonCount: n}
	}
	return out
}

func TestEnrichSpikeScores(t *testing.T) {
	// Counts 5, 7, 9 with an outlier 100: the outlier's z-score must be
	// large and positive, the baseline days mildly negative.
	aggs := rows("alice", 5, 7, 9, 100)
	Enrich(aggs)

	for _, a := range aggs[:3] {
		assert.Less(t, a.LogonSpikeScore, 0.0, "baseline day should score below the mean")
	}
	assert.Greater(t, aggs[3].LogonSpikeScore, 1.4, "outlier day should score far above the mean")

	// All rows of one user share the same baseline.
	for _, a := range aggs {
		assert.Equal(t, aggs[0].LogonMean, a.LogonMean)
		assert.Equal(t, aggs[0].LogonStd, a.LogonStd)
	}
}

func TestEnrichZeroVarianceScoresZero(t *testing.T) {
	aggs := rows("bob", 3, 3, 3, 3)
	Enrich(aggs)

	for _, a := range aggs {
		assert.Zero(t, a.LogonSpikeScore)
		assert.Zero(t, a.LogonStd)
		assert.Equal(t, 3.0, a.LogonMean)
	}
}

func TestEnrichSingleObservation(t *testing.T) {
	aggs := rows("carol", 5)
	Enrich(aggs)

	require.Len(t, aggs, 1)
	assert.Zero(t, aggs[0].LogonStd, "one sample has no deviation")
	assert.Zero(t, aggs[0].LogonSpikeScore)
	assert.Equal(t, 5.0, aggs[0].LogonRolling3)
	assert.Zero(t, aggs[0].LogonDelta)
}

func TestEnrichBaselinesArePerUser(t *testing.T) {
	aggs := append(rows("alice", 1, 1, 1), rows("zoe", 100, 100, 100)...)
	Enrich(aggs)

	assert.Equal(t, 1.0, aggs[0].LogonMean)
	assert.Equal(t, 100.0, aggs[3].LogonMean)
}

func TestEnrichRollingWindow(t *testing.T) {
	aggs := rows("alice", 2, 4, 6, 8)
	Enrich(aggs)

	// Trailing window of up to 3 samples, shrinking at the start.
	assert.InDelta(t, 2.0, aggs[0].LogonRolling3, 1e-9) // mean(2)
	assert.InDelta(t, 3.0, aggs[1].LogonRolling3, 1e-9) // mean(2,4)
	assert.InDelta(t, 4.0, aggs[2].LogonRolling3, 1e-9) // mean(2,4,6)
	assert.InDelta(t, 6.0, aggs[3].LogonRolling3, 1e-9) // mean(4,6,8)

	assert.InDelta(t, 0.0, aggs[0].LogonDelta, 1e-9)
	assert.InDelta(t, 2.0, aggs[3].LogonDelta, 1e-9)
}

func TestEnrichRollingResetsPerUser(t *testing.T) {
	aggs := append(rows("alice", 10, 10), rows("bob", 2)...)
	Enrich(aggs)

	// Bob's first row must not see Alice's history.
	assert.InDelta(t, 2.0, aggs[2].LogonRolling3, 1e-9)
}

func TestEnrichRatiosAndMissingFlags(t *testing.T) {
	aggs := []Aggregate{
		{User: "u", Date: day(1), LogonCount: 4, HTTPRequests: 0, DeviceActivityCount: 3},
		{User: "u", Date: day(2), LogonCount: 0, HTTPRequests: 9, DeviceActivityCount: 0},
	}
	Enrich(aggs)

	// +1 denominator smoothing keeps the ratios finite at zero requests.
	assert.InDelta(t, 3.0, aggs[0].DeviceHTTPRatio, 1e-9)
	assert.InDelta(t, 4.0, aggs[0].LogonHTTPRatio, 1e-9)
	assert.InDelta(t, 0.0, aggs[1].DeviceHTTPRatio, 1e-9)

	assert.False(t, aggs[0].LogonMissing)
	assert.True(t, aggs[0].HTTPMissing)
	assert.False(t, aggs[0].DeviceMissing)
	assert.True(t, aggs[1].LogonMissing)
	assert.False(t, aggs[1].HTTPMissing)
	assert.True(t, aggs[1].DeviceMissing)
}

func TestZScore(t *testing.T) {
	assert.Zero(t, zscore(10, 5, 0))
	assert.InDelta(t, 2.5, zscore(10, 5, 2), 1e-9)
	assert.InDelta(t, -1.0, zscore(3, 5, 2), 1e-9)
}
