package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/priyamehta/aarohi/pkg/auth"
	"github.com/priyamehta/aarohi/pkg/response"
)

// claimsKey is the unexported context key for the authenticated claims.
type claimsKey struct{}

// Auth validates the bearer token (or the "token" cookie set at login) and
// stores the claims in the request context for CurrentClaims.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		if token == "" {
			if c, err := r.Cookie("token"); err == nil {
				token = c.Value
			}
		}

		if token == "" {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Fail(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Admin requires an authenticated admin. Must run after Auth.
func Admin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := CurrentClaims(r.Context())
		if !ok {
			response.Unauthorized(w)
			return
		}
		if claims.Role != "admin" {
			response.Forbidden(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentClaims returns the claims Auth stored in ctx.
func CurrentClaims(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims, ok
}
