package middlewarex

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"consolenav/internal/config"
	"consolenav/internal/services/workspace"

	"github.com/rs/zerolog/hlog"
)

// APIKeyAuth resolves the bearer key to a workspace and stores its id in the
// request context.
func APIKeyAuth(workspaces *workspace.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, "missing bearer", http.StatusUnauthorized)
				return
			}
			key := strings.TrimPrefix(auth, "Bearer ")

			ws, err := workspaces.Authenticate(r.Context(), key)
			if err != nil {
				hlog.FromRequest(r).Debug().Err(err).Msg("api key rejected")
				http.Error(w, "invalid key", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithWorkspace(r.Context(), ws)))
		})
	}
}

// AdminAuth guards admin routes with the configured X-Admin-Token. An empty
// configured token disables the admin routes.
func AdminAuth(cfg config.Cfg) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-Admin-Token")
			if cfg.Sec.AdminToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(cfg.Sec.AdminToken)) != 1 {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
