package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/riskwatch-systems/riskwatch-stack/common/config"
	"github.com/riskwatch-systems/riskwatch-stack/common/logging"
	"github.com/riskwatch-systems/riskwatch-stack/dashboard/internal/auth"
	"github.com/riskwatch-systems/riskwatch-stack/dashboard/internal/handlers"
	"github.com/riskwatch-systems/riskwatch-stack/dashboard/internal/store"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	log := &logging.Logger{Logger: slog.Default()}
	s, err := store.Open(log)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	csv := strings.Join([]string{
		"date,user,logon_count,http_requests,device_activity_count,risk_level,risk_score,logon_spike,http_spike,device_spike,hour,weekday",
		"2024-01-15,alice,4,25,2,High,0.95,true,false,false,8,0",
	}, "\n") + "\n"

	dataPath := filepath.Join(t.TempDir(), "scored.csv")
	if err := os.WriteFile(dataPath, []byte(csv), 0o644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	if _, err := s.LoadCSV(context.Background(), dataPath); err != nil {
		t.Fatalf("Failed to load test file: %v", err)
	}

	staticDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<html>ok</html>"), 0o644); err != nil {
		t.Fatalf("Failed to write index: %v", err)
	}

	return NewRouter(RouterConfig{
		Handler:        handlers.New(s, log, 0),
		AuthMiddleware: auth.NewMiddleware(config.AuthConfig{}),
		StaticDir:      staticDir,
	})
}

func TestRouterHealth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("GET", "/api/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("Expected status ok, got %s", resp["status"])
	}
}

func TestRouterAPIRoutes(t *testing.T) {
	router := newTestRouter(t)

	paths := []string{"/api/meta", "/api/overview", "/api/details", "/api/trends",
		"/api/export/csv", "/api/export/xlsx", "/metrics"}

	for _, path := range paths {
		req := httptest.NewRequest("GET", path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("Expected GET %s to return 200, got %d", path, rr.Code)
		}
	}
}

func TestRouterMethodNotAllowed(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("POST", "/api/overview", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for POST, got %d", rr.Code)
	}
}

func TestRouterRequestID(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("GET", "/api/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("Expected every response to carry a request ID")
	}
}

func TestRouterServesStatic(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "ok") {
		t.Errorf("Expected static index content, got %s", rr.Body.String())
	}
}
