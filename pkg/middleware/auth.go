package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vigiapix/vigia/pkg/identity"
)

// Authenticate returns middleware that verifies the request bearer token
// and stores the resolved identity in the request context. Requests
// without a valid token receive 401.
func Authenticate(ids identity.System, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				unauthorized(w, identity.ErrMissingToken.Error())
				return
			}

			id, err := ids.Verify(r.Context(), raw)
			if err != nil {
				logger.Warn("token verification failed", "error", err)
				unauthorized(w, identity.ErrInvalidToken.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(identity.WithIdentity(r.Context(), id)))
		})
	}
}

// LocalIdentity returns middleware that injects a fixed identity for
// deployments running without a token issuer.
func LocalIdentity(subject string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := &identity.Identity{Subject: subject}
			next.ServeHTTP(w, r.WithContext(identity.WithIdentity(r.Context(), id)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
