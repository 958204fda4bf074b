package handlers

import (
	"net/url"
	"testing"
	"time"
)

func TestParseFilter(t *testing.T) {
	q := url.Values{}
	q.Set("start", "2024-01-15")
	q.Set("end", "2024-01-20")
	q.Set("users", "alice, bob,carol")
	q.Set("levels", "Medium,High")
	q.Set("logon_spike", "true")
	q.Set("device_spike", "1")

	f, err := parseFilter(q)
	if err != nil {
		t.Fatalf("Valid filter should parse: %v", err)
	}

	if f.Start != time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC) {
		t.Errorf("Expected start 2024-01-15, got %v", f.Start)
	}
	if len(f.Users) != 3 || f.Users[1] != "bob" {
		t.Errorf("Expected trimmed user list, got %v", f.Users)
	}
	if len(f.Levels) != 2 {
		t.Errorf("Expected 2 levels, got %v", f.Levels)
	}
	if !f.LogonSpike || f.HTTPSpike || !f.DeviceSpike {
		t.Errorf("Expected logon and device spike flags set, got %+v", f)
	}
}

func TestParseFilterEmpty(t *testing.T) {
	f, err := parseFilter(url.Values{})
	if err != nil {
		t.Fatalf("Empty filter should parse: %v", err)
	}
	if !f.Start.IsZero() || !f.End.IsZero() || f.Users != nil || f.Levels != nil {
		t.Errorf("Empty query should produce the zero filter, got %+v", f)
	}
}

func TestParseFilterErrors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"Bad start date", "start", "01/15/2024"},
		{"Bad end date", "end", "soon"},
		{"Unknown level", "levels", "Severe"},
		{"Lowercase level", "levels", "high"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := url.Values{}
			q.Set(tt.key, tt.value)
			if _, err := parseFilter(q); err == nil {
				t.Errorf("Expected %s=%s to fail", tt.key, tt.value)
			}
		})
	}
}

func TestParseFilterInvertedRange(t *testing.T) {
	q := url.Values{}
	q.Set("start", "2024-01-20")
	q.Set("end", "2024-01-15")

	if _, err := parseFilter(q); err == nil {
		t.Error("Expected inverted date range to fail")
	}
}

func TestFilterKeyStable(t *testing.T) {
	q := url.Values{}
	q.Set("users", "alice,bob")
	q.Set("levels", "High")

	f1, err := parseFilter(q)
	if err != nil {
		t.Fatal(err)
	}
	f2, err := parseFilter(q)
	if err != nil {
		t.Fatal(err)
	}

	if filterKey(f1) != filterKey(f2) {
		t.Error("Same filter must produce the same cache key")
	}

	q.Set("levels", "Medium")
	f3, _ := parseFilter(q)
	if filterKey(f1) == filterKey(f3) {
		t.Error("Different filters must produce different cache keys")
	}
}

func TestParseFlag(t *testing.T) {
	truthy := []string{"true", "TRUE", "1", "yes", "on"}
	for _, v := range truthy {
		if !parseFlag(v) {
			t.Errorf("Expected %q to parse as true", v)
		}
	}
	falsy := []string{"", "false", "0", "no", "off", "maybe"}
	for _, v := range falsy {
		if parseFlag(v) {
			t.Errorf("Expected %q to parse as false", v)
		}
	}
}
