package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/riskwatch-systems/riskwatch-stack/common/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestProtect_DisabledWithoutHash(t *testing.T) {
	m := NewMiddleware(config.AuthConfig{Username: "admin"})

	req := httptest.NewRequest("GET", "/api/overview", nil)
	rr := httptest.NewRecorder()
	m.Protect(okHandler()).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected open access without a configured hash, got %d", rr.Code)
	}
}

func TestProtect_ValidCredentials(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	m := NewMiddleware(config.AuthConfig{Username: "admin", PasswordHash: string(hash)})

	req := httptest.NewRequest("GET", "/api/overview", nil)
	req.SetBasicAuth("admin", "hunter2")
	rr := httptest.NewRecorder()
	m.Protect(okHandler()).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200 with valid credentials, got %d", rr.Code)
	}
}

func TestProtect_RejectsBadCredentials(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	m := NewMiddleware(config.AuthConfig{Username: "admin", PasswordHash: string(hash)})

	tests := []struct {
		name string
		user string
		pass string
	}{
		{"Wrong password", "admin", "letmein"},
		{"Wrong username", "root", "hunter2"},
		{"Empty password", "admin", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/overview", nil)
			req.SetBasicAuth(tt.user, tt.pass)
			rr := httptest.NewRecorder()
			m.Protect(okHandler()).ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Errorf("Expected 401, got %d", rr.Code)
			}
			if rr.Header().Get("WWW-Authenticate") == "" {
				t.Error("Expected a WWW-Authenticate challenge")
			}
		})
	}
}

func TestProtect_RejectsMissingCredentials(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	m := NewMiddleware(config.AuthConfig{Username: "admin", PasswordHash: string(hash)})

	req := httptest.NewRequest("GET", "/api/overview", nil)
	rr := httptest.NewRecorder()
	m.Protect(okHandler()).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without credentials, got %d", rr.Code)
	}
}
