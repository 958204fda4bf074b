package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupStaticDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>Dashboard</html>"), 0o644); err != nil {
		t.Fatalf("Failed to create index.html: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "app.js"), []byte("// app"), 0o644); err != nil {
		t.Fatalf("Failed to create app.js: %v", err)
	}
	return dir
}

func TestSPAHandler_ServeIndex(t *testing.T) {
	staticPath := setupStaticDir(t)
	handler := NewSPAHandler(staticPath, http.FileServer(http.Dir(staticPath)))

	req := httptest.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Dashboard") {
		t.Errorf("Expected index content, got %s", rr.Body.String())
	}
}

func TestSPAHandler_ServeStaticFile(t *testing.T) {
	staticPath := setupStaticDir(t)
	handler := NewSPAHandler(staticPath, http.FileServer(http.Dir(staticPath)))

	req := httptest.NewRequest("GET", "/app.js", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}
	if rr.Body.String() != "// app" {
		t.Errorf("Expected file content, got %s", rr.Body.String())
	}
}

func TestSPAHandler_FallbackToIndex(t *testing.T) {
	staticPath := setupStaticDir(t)
	handler := NewSPAHandler(staticPath, http.FileServer(http.Dir(staticPath)))

	// Unknown paths fall back to index.html for client-side routing.
	req := httptest.NewRequest("GET", "/some/client/route", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Dashboard") {
		t.Errorf("Expected index fallback, got %s", rr.Body.String())
	}
}
