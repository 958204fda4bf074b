package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/riskwatch-systems/riskwatch-stack/common/config"
	"github.com/riskwatch-systems/riskwatch-stack/common/logging"
	"github.com/riskwatch-systems/riskwatch-stack/common/middleware"
	"github.com/riskwatch-systems/riskwatch-stack/dashboard/internal/auth"
	"github.com/riskwatch-systems/riskwatch-stack/dashboard/internal/handlers"
	"github.com/riskwatch-systems/riskwatch-stack/dashboard/internal/metrics"
	"github.com/riskwatch-systems/riskwatch-stack/dashboard/internal/server"
	"github.com/riskwatch-systems/riskwatch-stack/dashboard/internal/store"
)

func main() {
	cfg := config.MustLoad()

	log := logging.New(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)
	log = log.With(logging.Component("dashboard"))
	logging.SetDefault(log)

	s, err := store.Open(log)
	if err != nil {
		log.Error("failed to open analytic store", logging.Error(err))
		os.Exit(1)
	}
	defer s.Close()

	// The scored file is loaded exactly once per session; every render
	// re-queries this table instead of recomputing features. A load
	// failure halts startup, there is nothing to serve without it.
	loadCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	rows, err := s.LoadCSV(loadCtx, cfg.Dashboard.DataPath)
	cancel()
	if err != nil {
		log.Error("failed to load scored file",
			logging.Path(cfg.Dashboard.DataPath), logging.Error(err))
		os.Exit(1)
	}
	metrics.LoadedRows.Set(float64(rows))

	h := handlers.New(s, log, cfg.Dashboard.CacheTTL)
	authMiddleware := auth.NewMiddleware(cfg.Dashboard.Auth)

	mux := server.NewRouter(server.RouterConfig{
		Handler:        h,
		AuthMiddleware: authMiddleware,
		StaticDir:      cfg.Dashboard.StaticDir,
	})

	corsConfig := middleware.CORSConfig{
		AllowedOrigins:   cfg.Dashboard.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	handler := middleware.CORS(corsConfig)(mux)

	httpServer := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Dashboard.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Dashboard.Server.ReadTimeout,
		WriteTimeout: cfg.Dashboard.Server.WriteTimeout,
		IdleTimeout:  cfg.Dashboard.Server.IdleTimeout,
	}

	log.Info("riskwatch dashboard starting",
		"port", cfg.Dashboard.Server.Port,
		"data_path", cfg.Dashboard.DataPath,
		"static_dir", cfg.Dashboard.StaticDir,
		"cache_ttl", cfg.Dashboard.CacheTTL.String(),
		"auth_enabled", cfg.Dashboard.Auth.PasswordHash != "",
		logging.Rows(rows),
	)

	if err := httpServer.ListenAndServe(); err != nil {
		log.Error("server exited", logging.Error(err))
		os.Exit(1)
	}
}
