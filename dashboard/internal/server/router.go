package server

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/riskwatch-systems/riskwatch-stack/common/middleware"
	"github.com/riskwatch-systems/riskwatch-stack/dashboard/internal/auth"
	"github.com/riskwatch-systems/riskwatch-stack/dashboard/internal/handlers"
)

// RouterConfig holds dependencies needed to configure routes
type RouterConfig struct {
	Handler        *handlers.Handler
	AuthMiddleware *auth.Middleware
	StaticDir      string
}

// NewRouter constructs a ServeMux with the dashboard routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	protect := func(h http.HandlerFunc) http.Handler {
		return cfg.AuthMiddleware.Protect(h)
	}

	mux.Handle("GET /api/meta", protect(cfg.Handler.GetMeta))
	mux.Handle("GET /api/overview", protect(cfg.Handler.GetOverview))
	mux.Handle("GET /api/details", protect(cfg.Handler.GetDetails))
	mux.Handle("GET /api/trends", protect(cfg.Handler.GetTrends))
	mux.Handle("GET /api/export/csv", protect(cfg.Handler.ExportCSV))
	mux.Handle("GET /api/export/xlsx", protect(cfg.Handler.ExportXLSX))

	mux.Handle("GET /metrics", promhttp.Handler())

	// Health check
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok","service":"dashboard"}`)
	})

	// Serve the static front-end (must be last)
	fs := http.FileServer(http.Dir(cfg.StaticDir))
	mux.Handle("/", handlers.NewSPAHandler(cfg.StaticDir, fs))

	return middleware.RequestID(mux)
}
