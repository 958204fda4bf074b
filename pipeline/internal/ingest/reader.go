package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// timestampLayouts are tried in order when parsing event timestamps.
// Raw exports use US-style timestamps; regenerated files use ISO.
var timestampLayouts = []string{
	"01/02/2006 15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"01/02/2006",
	"2006-01-02",
}

// parseTimestamp parses an event timestamp using the known layouts.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// ReadLogons reads logon.csv. Expected header: id,date,user,pc,activity.
func ReadLogons(path string) ([]LogonEvent, error) {
	rows, idx, err := readWithHeader(path, []string{"id", "date", "user", "pc", "activity"})
	if err != nil {
		return nil, fmt.Errorf("read logon log: %w", err)
	}

	events := make([]LogonEvent, 0, len(rows))
	for i, row := range rows {
		ts, err := parseTimestamp(row[idx["date"]])
		if err != nil {
			return nil, fmt.Errorf("logon log row %d: %w", i+2, err)
		}
		events = append(events, LogonEvent{
			ID:       row[idx["id"]],
			Time:     ts,
			User:     row[idx["user"]],
			PC:       row[idx["pc"]],
			Activity: row[idx["activity"]],
		})
	}
	return events, nil
}

// ReadDevices reads device.csv. Expected header: id,date,user,pc,activity.
func ReadDevices(path string) ([]DeviceEvent, error) {
	rows, idx, err := readWithHeader(path, []string{"id", "date", "user", "pc", "activity"})
	if err != nil {
		return nil, fmt.Errorf("read device log: %w", err)
	}

	events := make([]DeviceEvent, 0, len(rows))
	for i, row := range rows {
		ts, err := parseTimestamp(row[idx["date"]])
		if err != nil {
			return nil, fmt.Errorf("device log row %d: %w", i+2, err)
		}
		events = append(events, DeviceEvent{
			ID:       row[idx["id"]],
			Time:     ts,
			User:     row[idx["user"]],
			PC:       row[idx["pc"]],
			Activity: row[idx["activity"]],
		})
	}
	return events, nil
}

// httpColumns is the fixed positional layout of the headerless http.csv:
// id, date, time, user, pc, url, content, bytes_sent, bytes_received.
const httpColumns = 9

// ReadHTTP reads http.csv. The file has no header row; columns are fixed
// positionally. The separate date and time columns are combined into one
// timestamp (an empty time column yields midnight).
func ReadHTTP(path string) ([]HTTPEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read http log: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = httpColumns

	var events []HTTPEvent
	line := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("http log row %d: %w", line, err)
		}

		stamp := row[1]
		if t := strings.TrimSpace(row[2]); t != "" {
			stamp = strings.TrimSpace(row[1]) + " " + t
		}
		ts, err := parseTimestamp(stamp)
		if err != nil {
			return nil, fmt.Errorf("http log row %d: %w", line, err)
		}

		sent, err := parseBytes(row[7])
		if err != nil {
			return nil, fmt.Errorf("http log row %d: bytes_sent: %w", line, err)
		}
		recv, err := parseBytes(row[8])
		if err != nil {
			return nil, fmt.Errorf("http log row %d: bytes_received: %w", line, err)
		}

		events = append(events, HTTPEvent{
			ID:            row[0],
			Time:          ts,
			User:          row[3],
			PC:            row[4],
			URL:           row[5],
			Content:       row[6],
			BytesSent:     sent,
			BytesReceived: recv,
		})
	}
	return events, nil
}

// parseBytes parses a byte count column. Empty counts as zero.
func parseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

// readWithHeader reads a CSV file with a header row and returns the data
// rows plus a column-name index. All required columns must be present.
func readWithHeader(path string, required []string) ([][]string, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			return nil, nil, fmt.Errorf("missing column %q", name)
		}
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	return rows, idx, nil
}
