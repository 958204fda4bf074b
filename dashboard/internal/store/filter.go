package store

import (
	"fmt"
	"strings"
	"time"
)

// Filter is the conjunctive predicate built from the dashboard sidebar:
// date range (inclusive on both ends), user set, risk-level set and the
// three boolean spike flags. Zero values mean "no constraint".
type Filter struct {
	Start time.Time
	End   time.Time

	Users  []string
	Levels []string

	LogonSpike  bool
	HTTPSpike   bool
	DeviceSpike bool
}

// Validate rejects inverted date ranges.
func (f Filter) Validate() error {
	if !f.Start.IsZero() && !f.End.IsZero() && f.End.Before(f.Start) {
		return fmt.Errorf("invalid date range: end %s is before start %s",
			f.End.Format("2006-01-02"), f.Start.Format("2006-01-02"))
	}
	return nil
}

// whereClause renders the filter as a SQL WHERE clause with placeholder
// args. Returns an empty string when the filter is unconstrained.
func (f Filter) whereClause() (string, []any) {
	var conds []string
	var args []any

	if !f.Start.IsZero() {
		conds = append(conds, "date >= ?")
		args = append(args, f.Start.Format("2006-01-02"))
	}
	if !f.End.IsZero() {
		conds = append(conds, "date <= ?")
		args = append(args, f.End.Format("2006-01-02"))
	}
	if len(f.Users) > 0 {
		conds = append(conds, fmt.Sprintf(`"user" IN (%s)`, placeholders(len(f.Users))))
		for _, u := range f.Users {
			args = append(args, u)
		}
	}
	if len(f.Levels) > 0 {
		conds = append(conds, fmt.Sprintf("risk_level IN (%s)", placeholders(len(f.Levels))))
		for _, l := range f.Levels {
			args = append(args, l)
		}
	}
	if f.LogonSpike {
		conds = append(conds, "logon_spike = 1")
	}
	if f.HTTPSpike {
		conds = append(conds, "http_spike = 1")
	}
	if f.DeviceSpike {
		conds = append(conds, "device_spike = 1")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// and appends an extra condition to an already-rendered where clause.
func and(where, cond string) string {
	if where == "" {
		return "WHERE " + cond
	}
	return where + " AND " + cond
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
