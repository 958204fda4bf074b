package handlers

import (
	"net/http"
	"time"

	"github.com/riskwatch-systems/riskwatch-stack/common/logging"
	"github.com/riskwatch-systems/riskwatch-stack/dashboard/internal/store"
)

type detailsResponse struct {
	Rows    int               `json:"rows"`
	Capped  bool              `json:"capped"`
	RowCap  int               `json:"row_cap"`
	Details []store.DetailRow `json:"details"`
}

// GetDetails renders the flagged-events table: Medium and High rows
// sorted by descending risk score, capped for display. The cap applies
// to this view only; exports always return the full filtered set.
func (h *Handler) GetDetails(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	ctx := r.Context()

	f, err := parseFilter(r.URL.Query())
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		observe("details", http.StatusBadRequest, started)
		return
	}

	rows, err := h.store.Count(ctx, f)
	if err != nil {
		h.log.ErrorContext(ctx, "details count failed", logging.Error(err))
		h.writeError(w, http.StatusInternalServerError, "query failed")
		observe("details", http.StatusInternalServerError, started)
		return
	}
	if rows == 0 {
		h.writeJSON(w, http.StatusOK, noData())
		observe("details", http.StatusOK, started)
		return
	}

	details, err := h.store.FlaggedDetails(ctx, f, detailRowCap)
	if err != nil {
		h.log.ErrorContext(ctx, "details query failed", logging.Error(err))
		h.writeError(w, http.StatusInternalServerError, "query failed")
		observe("details", http.StatusInternalServerError, started)
		return
	}

	h.writeJSON(w, http.StatusOK, detailsResponse{
		Rows:    rows,
		Capped:  len(details) == detailRowCap,
		RowCap:  detailRowCap,
		Details: details,
	})
	observe("details", http.StatusOK, started)
}
