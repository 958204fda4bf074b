package logging

import "log/slog"

// Common field names for consistent logging across the pipeline and dashboard.
const (
	FieldComponent = "component"
	FieldUser      = "user"
	FieldDate      = "date"
	FieldRiskLevel = "risk_level"
	FieldRiskScore = "risk_score"
	FieldRows      = "rows"
	FieldSource    = "source"
	FieldPath      = "path"
	FieldMethod    = "method"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldError     = "error"
	FieldQuery     = "query"
)

// Component returns a slog attribute for the component name.
func Component(name string) slog.Attr {
	return slog.String(FieldComponent, name)
}

// User returns a slog attribute for a user identifier.
func User(id string) slog.Attr {
	return slog.String(FieldUser, id)
}

// Date returns a slog attribute for a calendar date in ISO form.
func Date(d string) slog.Attr {
	return slog.String(FieldDate, d)
}

// RiskLevel returns a slog attribute for a risk level bucket.
func RiskLevel(level string) slog.Attr {
	return slog.String(FieldRiskLevel, level)
}

// RiskScore returns a slog attribute for a risk score.
func RiskScore(score float64) slog.Attr {
	return slog.Float64(FieldRiskScore, score)
}

// Rows returns a slog attribute for a row count.
func Rows(n int) slog.Attr {
	return slog.Int(FieldRows, n)
}

// Source returns a slog attribute for an activity log source (logon, http, device).
func Source(name string) slog.Attr {
	return slog.String(FieldSource, name)
}

// Path returns a slog attribute for the HTTP path.
func Path(path string) slog.Attr {
	return slog.String(FieldPath, path)
}

// Method returns a slog attribute for the HTTP method.
func Method(method string) slog.Attr {
	return slog.String(FieldMethod, method)
}

// Status returns a slog attribute for the HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int(FieldStatus, code)
}

// Duration returns a slog attribute for duration in milliseconds.
func Duration(ms int64) slog.Attr {
	return slog.Int64(FieldDuration, ms)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}

// Query returns a slog attribute for a SQL query string.
func Query(query string) slog.Attr {
	return slog.String(FieldQuery, query)
}
