package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RiskLevelOrder is the display order of risk levels. Histograms are
// zero-filled against it so absent levels still render a bucket.
var RiskLevelOrder = []string{"Low", "Medium", "High"}

// weekdayNames maps the weekday column (Monday=0) to display names.
var weekdayNames = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// KPIs are the headline aggregates of the filtered view, computed in a
// single server-side aggregate query.
type KPIs struct {
	UniqueUsers    int     `json:"unique_users"`
	HighRiskEvents int     `json:"high_risk_events"`
	AvgRiskScore   float64 `json:"avg_risk_score"`
}

// LevelCount is one bucket of the risk-level histogram.
type LevelCount struct {
	Level string `json:"level"`
	Count int    `json:"count"`
}

// DateCount is one point of a daily time series.
type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// UserCount is one row of the top-users ranking.
type UserCount struct {
	User  string `json:"user"`
	Count int    `json:"count"`
}

// ScoreBin is one bucket of the risk-score histogram.
type ScoreBin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// DetailRow is one row of the flagged-events table.
type DetailRow struct {
	Date                string  `json:"date"`
	User                string  `json:"user"`
	RiskLevel           string  `json:"risk_level"`
	RiskScore           float64 `json:"risk_score"`
	LogonCount          int     `json:"logon_count"`
	HTTPRequests        int     `json:"http_requests"`
	DeviceActivityCount int     `json:"device_activity_count"`
	LogonSpike          bool    `json:"logon_spike"`
	HTTPSpike           bool    `json:"http_spike"`
	DeviceSpike         bool    `json:"device_spike"`
	Hour                int     `json:"hour"`
	Weekday             int     `json:"weekday"`
}

// ActivityPoint is one day of summed activity counts.
type ActivityPoint struct {
	Date                string `json:"date"`
	LogonCount          int64  `json:"logon_count"`
	HTTPRequests        int64  `json:"http_requests"`
	DeviceActivityCount int64  `json:"device_activity_count"`
}

// Share is one slice of a proportion breakdown.
type Share struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
}

// Count returns the number of rows matching the filter.
func (s *Store) Count(ctx context.Context, f Filter) (int, error) {
	where, args := f.whereClause()
	var n int
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s %s", TableName, where), args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return n, nil
}

// GetKPIs computes the filtered view's headline numbers in one query.
func (s *Store) GetKPIs(ctx context.Context, f Filter) (KPIs, error) {
	where, args := f.whereClause()
	query := fmt.Sprintf(`
		SELECT
			COUNT(DISTINCT "user"),
			COALESCE(SUM(CASE WHEN risk_level = 'High' THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(risk_score), 0)
		FROM %s %s`, TableName, where)

	var k KPIs
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&k.UniqueUsers, &k.HighRiskEvents, &k.AvgRiskScore); err != nil {
		return KPIs{}, fmt.Errorf("kpi query: %w", err)
	}
	return k, nil
}

// DateRange returns the min and max date in the loaded table.
func (s *Store) DateRange(ctx context.Context) (time.Time, time.Time, error) {
	var minStr, maxStr sql.NullString
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT MIN(date), MAX(date) FROM %s", TableName)).Scan(&minStr, &maxStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("date range query: %w", err)
	}
	if !minStr.Valid || !maxStr.Valid {
		return time.Time{}, time.Time{}, fmt.Errorf("no rows loaded")
	}

	minDate, err := time.Parse("2006-01-02", minStr.String)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	maxDate, err := time.Parse("2006-01-02", maxStr.String)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return minDate, maxDate, nil
}

// Users returns the distinct users in the loaded table, sorted.
func (s *Store) Users(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT DISTINCT "user" FROM %s ORDER BY "user"`, TableName))
	if err != nil {
		return nil, fmt.Errorf("users query: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// RiskLevelCounts returns the risk-level histogram in display order,
// zero-filled for levels absent from the filtered data.
func (s *Store) RiskLevelCounts(ctx context.Context, f Filter) ([]LevelCount, error) {
	where, args := f.whereClause()
	query := fmt.Sprintf(
		"SELECT risk_level, COUNT(*) FROM %s %s GROUP BY risk_level", TableName, where)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("risk level histogram: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int, len(RiskLevelOrder))
	for rows.Next() {
		var level string
		var n int
		if err := rows.Scan(&level, &n); err != nil {
			return nil, err
		}
		counts[level] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]LevelCount, len(RiskLevelOrder))
	for i, level := range RiskLevelOrder {
		out[i] = LevelCount{Level: level, Count: counts[level]}
	}
	return out, nil
}

// DailyHighRisk returns the daily count of High-risk rows.
func (s *Store) DailyHighRisk(ctx context.Context, f Filter) ([]DateCount, error) {
	where, args := f.whereClause()
	query := fmt.Sprintf(
		"SELECT date, COUNT(*) FROM %s %s GROUP BY date ORDER BY date",
		TableName, and(where, "risk_level = 'High'"))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("daily high risk query: %w", err)
	}
	defer rows.Close()

	var series []DateCount
	for rows.Next() {
		var p DateCount
		if err := rows.Scan(&p.Date, &p.Count); err != nil {
			return nil, err
		}
		series = append(series, p)
	}
	return series, rows.Err()
}

// TopUsersByHighRisk ranks users by High-risk event count, descending.
func (s *Store) TopUsersByHighRisk(ctx context.Context, f Filter, limit int) ([]UserCount, error) {
	where, args := f.whereClause()
	query := fmt.Sprintf(
		`SELECT "user", COUNT(*) AS n FROM %s %s GROUP BY "user" ORDER BY n DESC, "user" LIMIT ?`,
		TableName, and(where, "risk_level = 'High'"))
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("top users query: %w", err)
	}
	defer rows.Close()

	var top []UserCount
	for rows.Next() {
		var u UserCount
		if err := rows.Scan(&u.User, &u.Count); err != nil {
			return nil, err
		}
		top = append(top, u)
	}
	return top, rows.Err()
}

// RiskScoreHistogram buckets risk scores into bins equal-width bins over
// the filtered range. Returns nil when the filter matches no rows.
func (s *Store) RiskScoreHistogram(ctx context.Context, f Filter, bins int) ([]ScoreBin, error) {
	if bins < 1 {
		bins = 1
	}
	where, args := f.whereClause()

	var lo, hi sql.NullFloat64
	minmax := fmt.Sprintf("SELECT MIN(risk_score), MAX(risk_score) FROM %s %s", TableName, where)
	if err := s.db.QueryRowContext(ctx, minmax, args...).Scan(&lo, &hi); err != nil {
		return nil, fmt.Errorf("risk score range: %w", err)
	}
	if !lo.Valid || !hi.Valid {
		return nil, nil
	}

	width := (hi.Float64 - lo.Float64) / float64(bins)
	out := make([]ScoreBin, bins)
	for i := range out {
		out[i] = ScoreBin{
			Lo: lo.Float64 + float64(i)*width,
			Hi: lo.Float64 + float64(i+1)*width,
		}
	}

	if width == 0 {
		// Degenerate distribution: everything lands in one bucket.
		n, err := s.Count(ctx, f)
		if err != nil {
			return nil, err
		}
		out[0].Count = n
		return out, nil
	}

	query := fmt.Sprintf(`
		SELECT
			CASE WHEN risk_score >= ? THEN ? ELSE CAST((risk_score - ?) / ? AS INTEGER) END AS bucket,
			COUNT(*)
		FROM %s %s GROUP BY bucket`, TableName, where)

	bucketArgs := append([]any{hi.Float64, bins - 1, lo.Float64, width}, args...)
	rows, err := s.db.QueryContext(ctx, query, bucketArgs...)
	if err != nil {
		return nil, fmt.Errorf("risk score histogram: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bucket, n int
		if err := rows.Scan(&bucket, &n); err != nil {
			return nil, err
		}
		if bucket >= 0 && bucket < bins {
			out[bucket].Count = n
		}
	}
	return out, rows.Err()
}

// FlaggedDetails returns the row-level detail table: Medium and High
// rows only, sorted by descending risk score, capped at limit. The cap
// applies to this on-screen view only, never to exports.
func (s *Store) FlaggedDetails(ctx context.Context, f Filter, limit int) ([]DetailRow, error) {
	where, args := f.whereClause()
	query := fmt.Sprintf(`
		SELECT date, "user", risk_level, risk_score,
			logon_count, http_requests, device_activity_count,
			logon_spike, http_spike, device_spike,
			hour, weekday
		FROM %s %s
		ORDER BY risk_score DESC
		LIMIT ?`, TableName, and(where, "risk_level IN ('High', 'Medium')"))
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("flagged details query: %w", err)
	}
	defer rows.Close()

	var details []DetailRow
	for rows.Next() {
		var d DetailRow
		var logonSpike, httpSpike, deviceSpike int
		if err := rows.Scan(&d.Date, &d.User, &d.RiskLevel, &d.RiskScore,
			&d.LogonCount, &d.HTTPRequests, &d.DeviceActivityCount,
			&logonSpike, &httpSpike, &deviceSpike,
			&d.Hour, &d.Weekday); err != nil {
			return nil, err
		}
		d.LogonSpike = logonSpike != 0
		d.HTTPSpike = httpSpike != 0
		d.DeviceSpike = deviceSpike != 0
		details = append(details, d)
	}
	return details, rows.Err()
}

// DailyActivity returns per-day sums of the three activity counts.
func (s *Store) DailyActivity(ctx context.Context, f Filter) ([]ActivityPoint, error) {
	where, args := f.whereClause()
	query := fmt.Sprintf(`
		SELECT date,
			COALESCE(SUM(logon_count), 0),
			COALESCE(SUM(http_requests), 0),
			COALESCE(SUM(device_activity_count), 0)
		FROM %s %s GROUP BY date ORDER BY date`, TableName, where)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("daily activity query: %w", err)
	}
	defer rows.Close()

	var series []ActivityPoint
	for rows.Next() {
		var p ActivityPoint
		if err := rows.Scan(&p.Date, &p.LogonCount, &p.HTTPRequests, &p.DeviceActivityCount); err != nil {
			return nil, err
		}
		series = append(series, p)
	}
	return series, rows.Err()
}

// HighRiskByHour returns the share of High-risk rows per hour of day.
func (s *Store) HighRiskByHour(ctx context.Context, f Filter) ([]Share, error) {
	return s.highRiskShares(ctx, f, "hour")
}

// HighRiskByWeekday returns the share of High-risk rows per weekday,
// labeled with weekday names.
func (s *Store) HighRiskByWeekday(ctx context.Context, f Filter) ([]Share, error) {
	return s.highRiskShares(ctx, f, "weekday")
}

func (s *Store) highRiskShares(ctx context.Context, f Filter, col string) ([]Share, error) {
	where, args := f.whereClause()
	query := fmt.Sprintf(
		"SELECT %s, COUNT(*) FROM %s %s GROUP BY %s ORDER BY %s",
		col, TableName, and(where, "risk_level = 'High'"), col, col)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("high risk by %s query: %w", col, err)
	}
	defer rows.Close()

	type slice struct {
		key int
		n   int
	}
	var slices []slice
	total := 0
	for rows.Next() {
		var sl slice
		if err := rows.Scan(&sl.key, &sl.n); err != nil {
			return nil, err
		}
		slices = append(slices, sl)
		total += sl.n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]Share, len(slices))
	for i, sl := range slices {
		label := fmt.Sprintf("%02d:00", sl.key)
		if col == "weekday" {
			if sl.key >= 0 && sl.key < len(weekdayNames) {
				label = weekdayNames[sl.key]
			} else {
				label = fmt.Sprintf("weekday %d", sl.key)
			}
		}
		out[i] = Share{
			Label: label,
			Count: sl.n,
			Share: float64(sl.n) / float64(total),
		}
	}
	return out, nil
}

// ExportRows streams the full filtered result, ordered by descending
// risk score, with no row cap. Rows are returned as generic values in
// the table's column order for serialization.
func (s *Store) ExportRows(ctx context.Context, f Filter, fn func(row []any) error) (int, error) {
	where, args := f.whereClause()
	query := fmt.Sprintf("SELECT * FROM %s %s ORDER BY risk_score DESC", TableName, where)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("export query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return 0, err
	}

	count := 0
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return count, err
		}
		if err := fn(values); err != nil {
			return count, err
		}
		count++
	}
	return count, rows.Err()
}
