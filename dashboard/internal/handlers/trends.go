package handlers

import (
	"net/http"
	"time"

	"github.com/riskwatch-systems/riskwatch-stack/common/logging"
	"github.com/riskwatch-systems/riskwatch-stack/dashboard/internal/store"
)

type trendsResponse struct {
	Rows              int                   `json:"rows"`
	DailyActivity     []store.ActivityPoint `json:"daily_activity"`
	HighRiskByHour    []store.Share         `json:"high_risk_by_hour"`
	HighRiskByWeekday []store.Share         `json:"high_risk_by_weekday"`
}

// GetTrends renders the activity-trends tab: per-day activity sums and
// the High-risk proportion breakdowns by hour of day and weekday.
// Individual empty series are normal (the front-end shows a placeholder
// instead of an empty chart).
func (h *Handler) GetTrends(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	ctx := r.Context()

	f, err := parseFilter(r.URL.Query())
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		observe("trends", http.StatusBadRequest, started)
		return
	}

	rows, err := h.store.Count(ctx, f)
	if err != nil {
		h.log.ErrorContext(ctx, "trends count failed", logging.Error(err))
		h.writeError(w, http.StatusInternalServerError, "query failed")
		observe("trends", http.StatusInternalServerError, started)
		return
	}
	if rows == 0 {
		h.writeJSON(w, http.StatusOK, noData())
		observe("trends", http.StatusOK, started)
		return
	}

	resp := trendsResponse{Rows: rows}
	if resp.DailyActivity, err = h.store.DailyActivity(ctx, f); err == nil {
		if resp.HighRiskByHour, err = h.store.HighRiskByHour(ctx, f); err == nil {
			resp.HighRiskByWeekday, err = h.store.HighRiskByWeekday(ctx, f)
		}
	}
	if err != nil {
		h.log.ErrorContext(ctx, "trends query failed", logging.Error(err))
		h.writeError(w, http.StatusInternalServerError, "query failed")
		observe("trends", http.StatusInternalServerError, started)
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
	observe("trends", http.StatusOK, started)
}
