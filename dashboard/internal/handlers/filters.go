package handlers

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/riskwatch-systems/riskwatch-stack/dashboard/internal/store"
)

// parseFilter builds the conjunctive filter from query parameters:
//
//	start, end      ISO dates, inclusive on both ends
//	users           comma-separated user identifiers
//	levels          comma-separated risk levels
//	logon_spike, http_spike, device_spike   boolean flags
func parseFilter(q url.Values) (store.Filter, error) {
	var f store.Filter

	var err error
	if f.Start, err = parseDate(q.Get("start")); err != nil {
		return f, fmt.Errorf("invalid start date: %w", err)
	}
	if f.End, err = parseDate(q.Get("end")); err != nil {
		return f, fmt.Errorf("invalid end date: %w", err)
	}

	f.Users = splitParam(q.Get("users"))
	f.Levels = splitParam(q.Get("levels"))
	for _, level := range f.Levels {
		if !validLevel(level) {
			return f, fmt.Errorf("unknown risk level %q", level)
		}
	}

	f.LogonSpike = parseFlag(q.Get("logon_spike"))
	f.HTTPSpike = parseFlag(q.Get("http_spike"))
	f.DeviceSpike = parseFlag(q.Get("device_spike"))

	if err := f.Validate(); err != nil {
		return f, err
	}
	return f, nil
}

// filterKey renders the filter as a stable cache key.
func filterKey(f store.Filter) string {
	return strings.Join([]string{
		f.Start.Format("2006-01-02"),
		f.End.Format("2006-01-02"),
		strings.Join(f.Users, ","),
		strings.Join(f.Levels, ","),
		fmt.Sprintf("%t|%t|%t", f.LogonSpike, f.HTTPSpike, f.DeviceSpike),
	}, ";")
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}

func splitParam(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseFlag(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

func validLevel(level string) bool {
	for _, l := range store.RiskLevelOrder {
		if l == level {
			return true
		}
	}
	return false
}
