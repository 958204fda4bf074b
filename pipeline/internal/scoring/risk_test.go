package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeThresholds(t *testing.T) {
	// 0..100: the 75th and 95th percentiles of a uniform grid.
	scores := make([]float64, 101)
	for i := range scores {
		scores[i] = float64(i)
	}

	th, err := ComputeThresholds(scores)
	require.NoError(t, err)
	assert.InDelta(t, 75.0, th.Medium, 0.5)
	assert.InDelta(t, 95.0, th.High, 0.5)
	assert.Less(t, th.Medium, th.High)
}

func TestComputeThresholdsUnsortedInput(t *testing.T) {
	th1, err := ComputeThresholds([]float64{3, 1, 4, 1, 5, 9, 2, 6})
	require.NoError(t, err)
	th2, err := ComputeThresholds([]float64{9, 6, 5, 4, 3, 2, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, th1, th2, "input order must not matter")
}

func TestComputeThresholdsEmpty(t *testing.T) {
	_, err := ComputeThresholds(nil)
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	th := Thresholds{Medium: 0.5, High: 0.9}

	tests := []struct {
		score float64
		want  Level
	}{
		{-1.0, LevelLow},
		{0.49, LevelLow},
		{0.5, LevelMedium}, // boundary lands in the upper bucket
		{0.89, LevelMedium},
		{0.9, LevelHigh},
		{2.0, LevelHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, th.Classify(tt.score), "score %v", tt.score)
	}
}

func TestClassifyMonotonic(t *testing.T) {
	th := Thresholds{Medium: 0.2, High: 0.7}
	rank := map[Level]int{LevelLow: 0, LevelMedium: 1, LevelHigh: 2}

	prev := -1
	for score := -1.0; score <= 1.5; score += 0.01 {
		r := rank[th.Classify(score)]
		assert.GreaterOrEqual(t, r, prev, "level must never drop as the score rises")
		prev = r
	}
}

func TestLevelsOrder(t *testing.T) {
	assert.Equal(t, []Level{LevelLow, LevelMedium, LevelHigh}, Levels())
}
