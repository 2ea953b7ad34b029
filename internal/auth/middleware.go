package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// AdminVerifier resolves a session token to an allow-listed admin identity.
type AdminVerifier interface {
	VerifyAdminAccess(tokenString string) (string, error)
}

type contextKey string

const adminEmailKey contextKey = "admin_email"

// AdminAuthMiddleware gates every privileged route. Absent, malformed or
// non-admin sessions are all denied the same way.
func AdminAuthMiddleware(verifier AdminVerifier) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			email, err := verifier.VerifyAdminAccess(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), adminEmailKey, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminEmailFromContext returns the identity the middleware resolved, for
// audit attribution.
func AdminEmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(adminEmailKey).(string)
	return email
}
