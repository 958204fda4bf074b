package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/riskwatch-systems/riskwatch-stack/common/logging"
	"github.com/riskwatch-systems/riskwatch-stack/dashboard/internal/metrics"
)

// Fixed download names, matching what operators expect from earlier
// versions of this dashboard.
const (
	exportCSVName  = "filtered_user_risk_analysis.csv"
	exportXLSXName = "filtered_user_risk_analysis.xlsx"
	exportSheet    = "FilteredData"
)

// ExportCSV streams the full filtered table as a CSV download. There is
// no row cap: the export row count matches the filtered-count KPI.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	ctx := r.Context()

	f, err := parseFilter(r.URL.Query())
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		observe("export_csv", http.StatusBadRequest, started)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportCSVName))

	cw := csv.NewWriter(w)
	if err := cw.Write(h.store.Columns()); err != nil {
		h.log.ErrorContext(ctx, "export csv header failed", logging.Error(err))
		observe("export_csv", http.StatusInternalServerError, started)
		return
	}

	record := make([]string, len(h.store.Columns()))
	count, err := h.store.ExportRows(ctx, f, func(row []any) error {
		for i, v := range row {
			record[i] = formatCell(v)
		}
		return cw.Write(record)
	})
	if err != nil {
		// Headers are already sent; all we can do is log and cut off.
		h.log.ErrorContext(ctx, "export csv failed", logging.Error(err))
		observe("export_csv", http.StatusInternalServerError, started)
		return
	}

	cw.Flush()
	metrics.ExportRows.WithLabelValues("csv").Add(float64(count))
	h.log.InfoContext(ctx, "served csv export", logging.Rows(count))
	observe("export_csv", http.StatusOK, started)
}

// ExportXLSX serializes the full filtered table as a spreadsheet
// workbook. Like the CSV export it carries no row cap.
func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	ctx := r.Context()

	f, err := parseFilter(r.URL.Query())
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		observe("export_xlsx", http.StatusBadRequest, started)
		return
	}

	book := excelize.NewFile()
	defer book.Close()

	if _, err := book.NewSheet(exportSheet); err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to build workbook")
		observe("export_xlsx", http.StatusInternalServerError, started)
		return
	}
	if err := book.DeleteSheet("Sheet1"); err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to build workbook")
		observe("export_xlsx", http.StatusInternalServerError, started)
		return
	}

	sw, err := book.NewStreamWriter(exportSheet)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to build workbook")
		observe("export_xlsx", http.StatusInternalServerError, started)
		return
	}

	header := make([]any, len(h.store.Columns()))
	for i, name := range h.store.Columns() {
		header[i] = name
	}
	if err := sw.SetRow("A1", header); err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to build workbook")
		observe("export_xlsx", http.StatusInternalServerError, started)
		return
	}

	rowNum := 1
	count, err := h.store.ExportRows(ctx, f, func(row []any) error {
		rowNum++
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = cellValue(v)
		}
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		return sw.SetRow(cell, cells)
	})
	if err != nil {
		h.log.ErrorContext(ctx, "export xlsx failed", logging.Error(err))
		h.writeError(w, http.StatusInternalServerError, "export failed")
		observe("export_xlsx", http.StatusInternalServerError, started)
		return
	}
	if err := sw.Flush(); err != nil {
		h.writeError(w, http.StatusInternalServerError, "export failed")
		observe("export_xlsx", http.StatusInternalServerError, started)
		return
	}

	w.Header().Set("Content-Type",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportXLSXName))

	if err := book.Write(w); err != nil {
		h.log.ErrorContext(ctx, "export xlsx write failed", logging.Error(err))
		observe("export_xlsx", http.StatusInternalServerError, started)
		return
	}

	metrics.ExportRows.WithLabelValues("xlsx").Add(float64(count))
	h.log.InfoContext(ctx, "served xlsx export", logging.Rows(count))
	observe("export_xlsx", http.StatusOK, started)
}

// formatCell renders a database value for CSV output.
func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// cellValue normalizes a database value for the spreadsheet writer.
func cellValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
