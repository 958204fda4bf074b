// Package scoring fits an isolation forest over the daily feature table
// and derives risk scores and risk levels.
package scoring

import (
	"github.com/riskwatch-systems/riskwatch-stack/pipeline/internal/features"
)

// FeatureNames lists the model features in matrix column order.
var FeatureNames = []string{
	"logon_count",
	"http_requests",
	"http_bytes_sent",
	"http_bytes_received",
	"device_activity_count",
	"logon_spike_score",
	"http_spike_score",
	"device_spike_score",
	"device_http_ratio",
	"logon_http_ratio",
	"hour",
	"weekday",
	"is_working_day",
	"is_off_hours",
	"logon_rolling_3",
	"logon_delta",
}

// BuildMatrix extracts the model feature matrix from the enriched daily
// aggregates, one row per (user, date) in input order.
func BuildMatrix(aggs []features.Aggregate) [][]float64 {
	X := make([][]float64, len(aggs))
	for i, a := range aggs {
		X[i] = []float64{
			float64(a.LogonCount),
			float64(a.HTTPRequests),
			float64(a.HTTPBytesSent),
			float64(a.HTTPBytesReceived),
			float64(a.DeviceActivityCount),
			a.LogonSpikeScore,
			a.HTTPSpikeScore,
			a.DeviceSpikeScore,
			a.DeviceHTTPRatio,
			a.LogonHTTPRatio,
			float64(a.Hour),
			float64(a.Weekday),
			boolFeature(a.IsWorkingDay),
			boolFeature(a.IsOffHours),
			a.LogonRolling3,
			a.LogonDelta,
		}
	}
	return X
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
