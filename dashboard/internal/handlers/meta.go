package handlers

import (
	"net/http"
	"time"

	"github.com/riskwatch-systems/riskwatch-stack/common/logging"
	"github.com/riskwatch-systems/riskwatch-stack/dashboard/internal/store"
)

type metaResponse struct {
	MinDate    string   `json:"min_date"`
	MaxDate    string   `json:"max_date"`
	Users      []string `json:"users"`
	RiskLevels []string `json:"risk_levels"`
}

// GetMeta serves the sidebar filter options: the loaded date range, the
// distinct user list and the risk levels.
func (h *Handler) GetMeta(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	ctx := r.Context()

	minDate, maxDate, err := h.store.DateRange(ctx)
	if err != nil {
		h.log.ErrorContext(ctx, "meta date range failed", logging.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to read date range")
		observe("meta", http.StatusInternalServerError, started)
		return
	}

	users, err := h.store.Users(ctx)
	if err != nil {
		h.log.ErrorContext(ctx, "meta user list failed", logging.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to read user list")
		observe("meta", http.StatusInternalServerError, started)
		return
	}

	h.writeJSON(w, http.StatusOK, metaResponse{
		MinDate:    minDate.Format("2006-01-02"),
		MaxDate:    maxDate.Format("2006-01-02"),
		Users:      users,
		RiskLevels: store.RiskLevelOrder,
	})
	observe("meta", http.StatusOK, started)
}
