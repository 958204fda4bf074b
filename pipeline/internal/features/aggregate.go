// Package features turns raw activity events into per-user-per-day
// behavioral feature vectors.
package features

import (
	"sort"
	"time"

	"github.com/riskwatch-systems/riskwatch-stack/pipeline/internal/ingest"
)

// Aggregate is one (user, date) row of the daily feature table.
type Aggregate struct {
	User string
	Date time.Time // midnight, date component only

	LogonCount          int
	HTTPRequests        int
	HTTPBytesSent       int64
	HTTPBytesReceived   int64
	DeviceActivityCount int

	// Calendar fields. Hour and Minute come from the earliest event
	// observed for the user on that day.
	Year         int
	Month        int
	Day          int
	Weekday      int // Monday=0, Sunday=6
	Hour         int
	Minute       int
	IsWorkingDay bool
	IsOffHours   bool // first activity before 07:00 or after 19:00
	WeekOfMonth  int

	// Per-user baselines over the user's full history.
	LogonMean  float64
	LogonStd   float64
	HTTPMean   float64
	HTTPStd    float64
	DeviceMean float64
	DeviceStd  float64

	// Z-score spike features. Zero when the user's std is zero.
	LogonSpikeScore  float64
	HTTPSpikeScore   float64
	DeviceSpikeScore float64

	// Usage-emphasis ratios with +1 denominator smoothing.
	DeviceHTTPRatio float64
	LogonHTTPRatio  float64

	// Trailing 3-sample rolling mean of logon count (window shrinks at
	// the start of the series, minimum 1 sample) and its delta.
	LogonRolling3 float64
	LogonDelta    float64

	// Absence of a source on a day a user was otherwise active.
	LogonMissing  bool
	HTTPMissing   bool
	DeviceMissing bool
}

type dayKey struct {
	user string
	date time.Time
}

// partial accumulates per-source measures before the outer join.
type partial struct {
	logonCount    int
	httpRequests  int
	bytesSent     int64
	bytesReceived int64
	deviceCount   int
	firstSeen     time.Time
}

// Build groups the three raw logs by (user, date), outer-joins them and
// derives the calendar fields. Absent sources fill with zero: no activity
// is a meaningful zero, not missing data. The result is sorted by user
// then date, one row per (user, date).
func Build(logons []ingest.LogonEvent, https []ingest.HTTPEvent, devices []ingest.DeviceEvent) []Aggregate {
	partials := make(map[dayKey]*partial)

	get := func(user string, ts time.Time) *partial {
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
		key := dayKey{user: user, date: day}
		p, ok := partials[key]
		if !ok {
			p = &partial{firstSeen: ts}
			partials[key] = p
		} else if ts.Before(p.firstSeen) {
			p.firstSeen = ts
		}
		return p
	}

	for _, e := range logons {
		get(e.User, e.Time).logonCount++
	}
	for _, e := range https {
		p := get(e.User, e.Time)
		p.httpRequests++
		p.bytesSent += e.BytesSent
		p.bytesReceived += e.BytesReceived
	}
	for _, e := range devices {
		get(e.User, e.Time).deviceCount++
	}

	aggs := make([]Aggregate, 0, len(partials))
	for key, p := range partials {
		a := Aggregate{
			User:                key.user,
			Date:                key.date,
			LogonCount:          p.logonCount,
			HTTPRequests:        p.httpRequests,
			HTTPBytesSent:       p.bytesSent,
			HTTPBytesReceived:   p.bytesReceived,
			DeviceActivityCount: p.deviceCount,
		}
		fillCalendar(&a, p.firstSeen)
		aggs = append(aggs, a)
	}

	sort.Slice(aggs, func(i, j int) bool {
		if aggs[i].User != aggs[j].User {
			return aggs[i].User < aggs[j].User
		}
		return aggs[i].Date.Before(aggs[j].Date)
	})

	return aggs
}

// fillCalendar derives the calendar fields from the day's first event.
func fillCalendar(a *Aggregate, first time.Time) {
	a.Year = a.Date.Year()
	a.Month = int(a.Date.Month())
	a.Day = a.Date.Day()
	a.Weekday = mondayWeekday(a.Date)
	a.Hour = first.Hour()
	a.Minute = first.Minute()
	a.IsWorkingDay = a.Weekday < 5
	a.IsOffHours = a.Hour < 7 || a.Hour > 19
	a.WeekOfMonth = (a.Day-1)/7 + 1
}

// mondayWeekday maps time.Weekday (Sunday=0) to Monday=0 .. Sunday=6.
func mondayWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
