package auth

import (
	"net/http"
	"strings"

	"github.com/tstore/storefront/internal/platform/httpx"
)

const bearerPrefix = "Bearer "

// Middleware authenticates requests using the Authorization header and stores
// the resulting identity in the request context. Requests without a valid
// session token are rejected with 401.
func Middleware(verifier *Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				httpx.WriteError(r.Context(), w, httpx.NewError("unauthenticated", "missing bearer token", http.StatusUnauthorized))
				return
			}

			identity, err := verifier.Verify(raw)
			if err != nil {
				httpx.WriteError(r.Context(), w, httpx.NewError("unauthenticated", "invalid session token", http.StatusUnauthorized))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
}
