package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/riskwatch-systems/riskwatch-stack/common/logging"
	"github.com/riskwatch-systems/riskwatch-stack/dashboard/internal/metrics"
	"github.com/riskwatch-systems/riskwatch-stack/dashboard/internal/store"
)

const scoreHistogramBins = 50

type overviewResponse struct {
	Rows           int                `json:"rows"`
	KPIs           store.KPIs         `json:"kpis"`
	RiskLevels     []store.LevelCount `json:"risk_levels"`
	DailyHighRisk  []store.DateCount  `json:"daily_high_risk"`
	TopUsers       []store.UserCount  `json:"top_users"`
	ScoreHistogram []store.ScoreBin   `json:"score_histogram"`
}

// GetOverview renders the overview tab: headline KPIs, the risk-level
// histogram, the daily High-risk time series, the top-10 user ranking
// and the risk-score distribution. The whole response is cached per
// filter for the configured TTL.
func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	ctx := r.Context()

	f, err := parseFilter(r.URL.Query())
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		observe("overview", http.StatusBadRequest, started)
		return
	}

	key := filterKey(f)
	if body, age, ok := h.cacheGet(key); ok {
		metrics.CacheHits.Inc()
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "HIT")
		w.Header().Set("X-Cache-Age", strconv.Itoa(age))
		w.Write(body)
		observe("overview", http.StatusOK, started)
		return
	}
	metrics.CacheMisses.Inc()

	resp, err := h.renderOverview(r, f)
	if err != nil {
		h.log.ErrorContext(ctx, "overview render failed", logging.Error(err))
		h.writeError(w, http.StatusInternalServerError, "query failed")
		observe("overview", http.StatusInternalServerError, started)
		return
	}

	// Zero matching rows halts the render with a warning, no partial views.
	if resp == nil {
		h.writeJSON(w, http.StatusOK, noData())
		observe("overview", http.StatusOK, started)
		return
	}

	body, err := json.Marshal(resp)
	if err != nil {
		h.log.ErrorContext(ctx, "overview encode failed", logging.Error(err))
		h.writeError(w, http.StatusInternalServerError, "encoding failed")
		observe("overview", http.StatusInternalServerError, started)
		return
	}

	h.cachePut(key, body)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.Write(body)
	observe("overview", http.StatusOK, started)
}

// renderOverview runs the overview queries. A nil response with nil
// error means the filter matched no rows.
func (h *Handler) renderOverview(r *http.Request, f store.Filter) (*overviewResponse, error) {
	ctx := r.Context()

	rows, err := h.store.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, nil
	}

	resp := &overviewResponse{Rows: rows}

	if resp.KPIs, err = h.store.GetKPIs(ctx, f); err != nil {
		return nil, err
	}
	if resp.RiskLevels, err = h.store.RiskLevelCounts(ctx, f); err != nil {
		return nil, err
	}
	if resp.DailyHighRisk, err = h.store.DailyHighRisk(ctx, f); err != nil {
		return nil, err
	}
	if resp.TopUsers, err = h.store.TopUsersByHighRisk(ctx, f, 10); err != nil {
		return nil, err
	}
	if resp.ScoreHistogram, err = h.store.RiskScoreHistogram(ctx, f, scoreHistogramBins); err != nil {
		return nil, err
	}
	return resp, nil
}
