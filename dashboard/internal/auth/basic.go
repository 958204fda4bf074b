// Package auth provides optional single-admin basic auth for the
// dashboard. When no password hash is configured the dashboard is open.
package auth

import (
	"crypto/subtle"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/riskwatch-systems/riskwatch-stack/common/config"
)

// Middleware guards requests with HTTP basic auth against a bcrypt
// password hash from configuration.
type Middleware struct {
	username string
	hash     []byte
	enabled  bool
}

// NewMiddleware builds the auth middleware. An empty password hash
// disables authentication entirely.
func NewMiddleware(cfg config.AuthConfig) *Middleware {
	return &Middleware{
		username: cfg.Username,
		hash:     []byte(cfg.PasswordHash),
		enabled:  cfg.PasswordHash != "",
	}
}

// Protect wraps a handler with the basic auth check.
func (m *Middleware) Protect(next http.Handler) http.Handler {
	if !m.enabled {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(user), []byte(m.username)) != 1 ||
			bcrypt.CompareHashAndPassword(m.hash, []byte(pass)) != nil {
			w.Header().Set("WWW-Authenticate", `Basic realm="riskwatch"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
