// Package store loads the scored risk file into an embedded in-memory
// SQLite table and answers the dashboard's filtered analytic queries.
// The table is loaded once per process and is read-only afterwards.
package store

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/riskwatch-systems/riskwatch-stack/common/logging"
)

// TableName is the analytic table the dashboard queries.
const TableName = "user_risk"

// column describes one known column of the scored file schema.
type column struct {
	name    string
	sqlType string
}

// schema lists every column the loader understands. Files may omit
// optional columns; requiredColumns must always be present.
var schema = []column{
	{"date", "TEXT"},
	{"user", "TEXT"},
	{"logon_count", "INTEGER"},
	{"http_requests", "INTEGER"},
	{"http_bytes_sent", "INTEGER"},
	{"http_bytes_received", "INTEGER"},
	{"device_activity_count", "INTEGER"},
	{"year", "INTEGER"},
	{"month", "INTEGER"},
	{"day", "INTEGER"},
	{"weekday", "INTEGER"},
	{"hour", "INTEGER"},
	{"minute", "INTEGER"},
	{"is_working_day", "INTEGER"},
	{"is_off_hours", "INTEGER"},
	{"week_of_month", "INTEGER"},
	{"logon_count_mean", "REAL"},
	{"logon_count_std", "REAL"},
	{"http_requests_mean", "REAL"},
	{"http_requests_std", "REAL"},
	{"device_activity_count_mean", "REAL"},
	{"device_activity_count_std", "REAL"},
	{"logon_spike_score", "REAL"},
	{"http_spike_score", "REAL"},
	{"device_spike_score", "REAL"},
	{"device_http_ratio", "REAL"},
	{"logon_http_ratio", "REAL"},
	{"logon_rolling_3", "REAL"},
	{"logon_delta", "REAL"},
	{"logon_missing", "INTEGER"},
	{"http_missing", "INTEGER"},
	{"device_missing", "INTEGER"},
	{"anomaly", "INTEGER"},
	{"anomaly_score", "REAL"},
	{"risk_score", "REAL"},
	{"risk_level", "TEXT"},
	{"logon_spike", "INTEGER"},
	{"http_spike", "INTEGER"},
	{"device_spike", "INTEGER"},
}

// requiredColumns are the names the dashboard depends on directly.
var requiredColumns = []string{
	"date", "user", "risk_level", "risk_score",
	"logon_count", "http_requests", "device_activity_count",
	"logon_spike", "http_spike", "device_spike",
	"hour", "weekday",
}

// Store wraps the in-memory analytic database.
type Store struct {
	db      *sql.DB
	log     *logging.Logger
	columns []string // columns actually loaded, in table order
}

// Open creates an empty in-memory database.
func Open(log *logging.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open analytic store: %w", err)
	}
	// The in-memory database must only be reached through a single
	// connection; a second connection would see a different database.
	db.SetMaxOpenConns(1)

	return &Store{db: db, log: log}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Columns returns the loaded column names in table order.
func (s *Store) Columns() []string {
	return s.columns
}

// LoadCSV loads the scored file into the analytic table, coercing the
// date column to ISO date text and booleans to 0/1. Returns the number
// of loaded rows. Any malformed row aborts the load; the dashboard must
// not start on a partially loaded table.
func (s *Store) LoadCSV(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open scored file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("read scored file header: %w", err)
	}

	cols, fileIdx, err := resolveColumns(header)
	if err != nil {
		return 0, err
	}

	if err := s.createTable(ctx, cols); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin load transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertStatement(cols))
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("scored file row %d: %w", count+2, err)
		}

		args := make([]any, len(cols))
		for i, col := range cols {
			v, err := coerce(col, record[fileIdx[col.name]])
			if err != nil {
				return 0, fmt.Errorf("scored file row %d, column %s: %w", count+2, col.name, err)
			}
			args[i] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("insert row %d: %w", count+2, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit load: %w", err)
	}

	if err := s.createIndexes(ctx); err != nil {
		return 0, err
	}

	colNames := make([]string, len(cols))
	for i, c := range cols {
		colNames[i] = c.name
	}
	s.columns = colNames

	s.log.Info("loaded scored file", logging.Path(path), logging.Rows(count))
	return count, nil
}

// resolveColumns intersects the file header with the known schema and
// verifies the required columns are present.
func resolveColumns(header []string) ([]column, map[string]int, error) {
	fileIdx := make(map[string]int, len(header))
	for i, name := range header {
		fileIdx[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, name := range requiredColumns {
		if _, ok := fileIdx[name]; !ok {
			return nil, nil, fmt.Errorf("scored file is missing required column %q", name)
		}
	}

	var cols []column
	for _, c := range schema {
		if _, ok := fileIdx[c.name]; ok {
			cols = append(cols, c)
		}
	}
	return cols, fileIdx, nil
}

func (s *Store) createTable(ctx context.Context, cols []column) error {
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = fmt.Sprintf("%q %s", c.name, c.sqlType)
	}
	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", TableName, strings.Join(defs, ", "))
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create analytic table: %w", err)
	}
	return nil
}

func (s *Store) createIndexes(ctx context.Context) error {
	indexes := []string{
		fmt.Sprintf(`CREATE INDEX idx_%s_date ON %s (date)`, TableName, TableName),
		fmt.Sprintf(`CREATE INDEX idx_%s_user ON %s ("user")`, TableName, TableName),
		fmt.Sprintf(`CREATE INDEX idx_%s_level ON %s (risk_level)`, TableName, TableName),
	}
	for _, ddl := range indexes {
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

func insertStatement(cols []column) string {
	names := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		names[i] = fmt.Sprintf("%q", c.name)
		marks[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		TableName, strings.Join(names, ", "), strings.Join(marks, ", "))
}

// coerce converts a CSV cell to the column's storage type.
func coerce(col column, raw string) (any, error) {
	raw = strings.TrimSpace(raw)

	if col.name == "date" {
		return coerceDate(raw)
	}

	switch col.sqlType {
	case "TEXT":
		return raw, nil
	case "INTEGER":
		if b, ok := parseBool(raw); ok {
			if b {
				return int64(1), nil
			}
			return int64(0), nil
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			// Some producers emit integer-valued floats.
			f, ferr := strconv.ParseFloat(raw, 64)
			if ferr != nil {
				return nil, err
			}
			return int64(f), nil
		}
		return n, nil
	case "REAL":
		if raw == "" {
			return 0.0, nil
		}
		return strconv.ParseFloat(raw, 64)
	}
	return nil, fmt.Errorf("unknown column type %q", col.sqlType)
}

// coerceDate normalizes a date cell to ISO yyyy-mm-dd text so that
// lexicographic comparison matches chronological order.
func coerceDate(raw string) (string, error) {
	if len(raw) >= 10 && raw[4] == '-' && raw[7] == '-' {
		return raw[:10], nil
	}
	// US-style dates from older exports: mm/dd/yyyy, possibly with a
	// trailing time component.
	datePart := raw
	if i := strings.IndexByte(datePart, ' '); i > 0 {
		datePart = datePart[:i]
	}
	parts := strings.SplitN(datePart, "/", 3)
	if len(parts) == 3 && len(parts[2]) == 4 {
		month, merr := strconv.Atoi(parts[0])
		day, derr := strconv.Atoi(parts[1])
		if merr == nil && derr == nil {
			return fmt.Sprintf("%s-%02d-%02d", parts[2], month, day), nil
		}
	}
	return "", fmt.Errorf("unrecognized date %q", raw)
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true", "t", "yes":
		return true, true
	case "false", "f", "no":
		return false, true
	}
	return false, false
}
