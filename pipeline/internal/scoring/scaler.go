package scoring

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Standardizer rescales each feature column to zero mean and unit
// variance. Parameters are fit once over the full dataset and reused for
// scoring; there is no separate train/inference split.
type Standardizer struct {
	means []float64
	stds  []float64
}

// FitStandardizer computes per-column mean and population standard
// deviation. Zero-variance columns pass through unscaled so constant
// features cannot poison the matrix with NaN.
func FitStandardizer(X [][]float64) (*Standardizer, error) {
	if len(X) == 0 {
		return nil, fmt.Errorf("empty feature matrix")
	}
	cols := len(X[0])

	s := &Standardizer{
		means: make([]float64, cols),
		stds:  make([]float64, cols),
	}

	column := make([]float64, len(X))
	for c := 0; c < cols; c++ {
		for r := range X {
			column[r] = X[r][c]
		}
		mean := stat.Mean(column, nil)
		variance := stat.PopVariance(column, nil)
		std := math.Sqrt(variance)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		s.means[c] = mean
		s.stds[c] = std
	}
	return s, nil
}

// Transform returns a standardized copy of X.
func (s *Standardizer) Transform(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for r, row := range X {
		scaled := make([]float64, len(row))
		for c, v := range row {
			scaled[c] = (v - s.means[c]) / s.stds[c]
		}
		out[r] = scaled
	}
	return out
}
