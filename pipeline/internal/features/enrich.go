package features

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Enrich computes the derived features that need the full joined table:
// per-user baselines, spike z-scores, usage ratios, rolling logon trend
// and missingness flags. The input must be sorted by user then date, as
// produced by Build. Mutates the slice in place.
func Enrich(aggs []Aggregate) {
	computeBaselines(aggs)

	for i := range aggs {
		a := &aggs[i]

		a.LogonSpikeScore = zscore(float64(a.LogonCount), a.LogonMean, a.LogonStd)
		a.HTTPSpikeScore = zscore(float64(a.HTTPRequests), a.HTTPMean, a.HTTPStd)
		a.DeviceSpikeScore = zscore(float64(a.DeviceActivityCount), a.DeviceMean, a.DeviceStd)

		a.DeviceHTTPRatio = float64(a.DeviceActivityCount) / float64(a.HTTPRequests+1)
		a.LogonHTTPRatio = float64(a.LogonCount) / float64(a.HTTPRequests+1)

		a.LogonMissing = a.LogonCount == 0
		a.HTTPMissing = a.HTTPRequests == 0
		a.DeviceMissing = a.DeviceActivityCount == 0
	}

	computeRolling(aggs)
}

// computeBaselines fills per-user mean/std of each count measure across
// the user's own history.
func computeBaselines(aggs []Aggregate) {
	forEachUser(aggs, func(run []Aggregate) {
		logons := make([]float64, len(run))
		https := make([]float64, len(run))
		devices := make([]float64, len(run))
		for i, a := range run {
			logons[i] = float64(a.LogonCount)
			https[i] = float64(a.HTTPRequests)
			devices[i] = float64(a.DeviceActivityCount)
		}

		logonMean, logonStd := meanStd(logons)
		httpMean, httpStd := meanStd(https)
		deviceMean, deviceStd := meanStd(devices)

		for i := range run {
			run[i].LogonMean, run[i].LogonStd = logonMean, logonStd
			run[i].HTTPMean, run[i].HTTPStd = httpMean, httpStd
			run[i].DeviceMean, run[i].DeviceStd = deviceMean, deviceStd
		}
	})
}

// computeRolling fills the trailing 3-sample rolling mean of logon count
// and the delta against it. The window shrinks at the start of each
// user's series: the first row averages 1 sample, the second 2.
func computeRolling(aggs []Aggregate) {
	forEachUser(aggs, func(run []Aggregate) {
		for i := range run {
			lo := i - 2
			if lo < 0 {
				lo = 0
			}
			sum := 0.0
			for j := lo; j <= i; j++ {
				sum += float64(run[j].LogonCount)
			}
			run[i].LogonRolling3 = sum / float64(i-lo+1)
			run[i].LogonDelta = float64(run[i].LogonCount) - run[i].LogonRolling3
		}
	})
}

// forEachUser calls fn with each contiguous run of rows belonging to one
// user. Requires the slice to be sorted by user.
func forEachUser(aggs []Aggregate, fn func(run []Aggregate)) {
	start := 0
	for i := 1; i <= len(aggs); i++ {
		if i == len(aggs) || aggs[i].User != aggs[start].User {
			fn(aggs[start:i])
			start = i
		}
	}
}

// meanStd returns the sample mean and standard deviation. A single
// observation has no defined sample deviation; it is reported as zero so
// downstream z-scores stay finite.
func meanStd(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	mean, std := stat.MeanStdDev(xs, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return mean, std
}

// zscore computes (v-mean)/std with the zero-variance policy: a user whose
// history has no variance gets a spike score of exactly zero rather than
// NaN or Inf.
func zscore(v, mean, std float64) float64 {
	if std == 0 {
		return 0
	}
	return (v - mean) / std
}
