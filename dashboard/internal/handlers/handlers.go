// Package handlers implements the dashboard's JSON API: metadata for the
// sidebar filters, the overview, detail and trends views, and the
// filtered exports.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/riskwatch-systems/riskwatch-stack/common/logging"
	"github.com/riskwatch-systems/riskwatch-stack/dashboard/internal/metrics"
	"github.com/riskwatch-systems/riskwatch-stack/dashboard/internal/store"
)

// detailRowCap bounds the on-screen flagged-events table. Exports are
// never capped.
const detailRowCap = 1000

// Handler serves the dashboard API over the loaded analytic store.
type Handler struct {
	store *store.Store
	log   *logging.Logger

	// Overview responses are cached per filter key with a time-based
	// expiry; the underlying table never changes within a session.
	cacheTTL   time.Duration
	cacheMutex sync.RWMutex
	cache      map[string]cacheEntry
}

type cacheEntry struct {
	data    []byte
	created time.Time
}

// New creates a Handler. cacheTTL <= 0 disables the render cache.
func New(s *store.Store, log *logging.Logger, cacheTTL time.Duration) *Handler {
	return &Handler{
		store:    s,
		log:      log,
		cacheTTL: cacheTTL,
		cache:    make(map[string]cacheEntry),
	}
}

// noDataResponse is returned when a filter matches zero rows: the render
// halts with a user-visible warning instead of partial views.
type noDataResponse struct {
	Rows    int    `json:"rows"`
	Warning string `json:"warning"`
}

func noData() noDataResponse {
	return noDataResponse{
		Rows:    0,
		Warning: "No data matches the selected filters. Please adjust your selections.",
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("failed to encode response", logging.Error(err))
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, errorResponse{Error: msg})
}

// cacheGet returns a cached response body if present and fresh.
func (h *Handler) cacheGet(key string) ([]byte, int, bool) {
	if h.cacheTTL <= 0 {
		return nil, 0, false
	}
	h.cacheMutex.RLock()
	defer h.cacheMutex.RUnlock()
	entry, ok := h.cache[key]
	if !ok || time.Since(entry.created) >= h.cacheTTL {
		return nil, 0, false
	}
	return entry.data, int(time.Since(entry.created).Seconds()), true
}

func (h *Handler) cachePut(key string, data []byte) {
	if h.cacheTTL <= 0 {
		return
	}
	h.cacheMutex.Lock()
	h.cache[key] = cacheEntry{data: data, created: time.Now()}
	h.cacheMutex.Unlock()
}

// observe records per-view request metrics.
func observe(view string, status int, started time.Time) {
	metrics.ViewRequests.WithLabelValues(view, strconv.Itoa(status)).Inc()
	metrics.QueryDuration.WithLabelValues(view).Observe(time.Since(started).Seconds())
}
