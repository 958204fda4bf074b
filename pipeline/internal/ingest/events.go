// Package ingest reads the three raw activity logs consumed by the
// scoring pipeline: logon events, web proxy (http) events, and removable
// device events.
package ingest

import "time"

// LogonEvent is one row of logon.csv.
type LogonEvent struct {
	ID       string
	Time     time.Time
	User     string
	PC       string
	Activity string
}

// HTTPEvent is one row of http.csv. The file carries no header row; the
// column order is fixed positionally.
type HTTPEvent struct {
	ID            string
	Time          time.Time
	User          string
	PC            string
	URL           string
	Content       string
	BytesSent     int64
	BytesReceived int64
}

// DeviceEvent is one row of device.csv.
type DeviceEvent struct {
	ID       string
	Time     time.Time
	User     string
	PC       string
	Activity string
}
