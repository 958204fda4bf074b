// Package export serializes the scored daily table to the flat file the
// dashboard consumes.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/riskwatch-systems/riskwatch-stack/pipeline/internal/scoring"
)

// Header is the column order of the scored output file. The dashboard
// depends on these names; do not rename without migrating it.
var Header = []string{
	"date", "user",
	"logon_count", "http_requests", "http_bytes_sent", "http_bytes_received", "device_activity_count",
	"year", "month", "day", "weekday", "hour", "minute",
	"is_working_day", "is_off_hours", "week_of_month",
	"logon_count_mean", "logon_count_std",
	"http_requests_mean", "http_requests_std",
	"device_activity_count_mean", "device_activity_count_std",
	"logon_spike_score", "http_spike_score", "device_spike_score",
	"device_http_ratio", "logon_http_ratio",
	"logon_rolling_3", "logon_delta",
	"logon_missing", "http_missing", "device_missing",
	"anomaly", "anomaly_score", "risk_score", "risk_level",
	"logon_spike", "http_spike", "device_spike",
}

// WriteCSV writes the scored events to path, overwriting any existing
// file. Dates are written as ISO dates, booleans as true/false.
func WriteCSV(path string, events []scoring.ScoredEvent) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, e := range events {
		record := []string{
			e.Date.Format("2006-01-02"),
			e.User,
			strconv.Itoa(e.LogonCount),
			strconv.Itoa(e.HTTPRequests),
			strconv.FormatInt(e.HTTPBytesSent, 10),
			strconv.FormatInt(e.HTTPBytesReceived, 10),
			strconv.Itoa(e.DeviceActivityCount),
			strconv.Itoa(e.Year),
			strconv.Itoa(e.Month),
			strconv.Itoa(e.Day),
			strconv.Itoa(e.Weekday),
			strconv.Itoa(e.Hour),
			strconv.Itoa(e.Minute),
			strconv.FormatBool(e.IsWorkingDay),
			strconv.FormatBool(e.IsOffHours),
			strconv.Itoa(e.WeekOfMonth),
			formatFloat(e.LogonMean),
			formatFloat(e.LogonStd),
			formatFloat(e.HTTPMean),
			formatFloat(e.HTTPStd),
			formatFloat(e.DeviceMean),
			formatFloat(e.DeviceStd),
			formatFloat(e.LogonSpikeScore),
			formatFloat(e.HTTPSpikeScore),
			formatFloat(e.DeviceSpikeScore),
			formatFloat(e.DeviceHTTPRatio),
			formatFloat(e.LogonHTTPRatio),
			formatFloat(e.LogonRolling3),
			formatFloat(e.LogonDelta),
			strconv.FormatBool(e.LogonMissing),
			strconv.FormatBool(e.HTTPMissing),
			strconv.FormatBool(e.DeviceMissing),
			strconv.FormatBool(e.Anomaly),
			formatFloat(e.AnomalyScore),
			formatFloat(e.RiskScore),
			string(e.RiskLevel),
			strconv.FormatBool(e.LogonSpike),
			strconv.FormatBool(e.HTTPSpike),
			strconv.FormatBool(e.DeviceSpike),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
