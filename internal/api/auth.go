package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the token claims the dashboard auth service issues.
type Claims struct {
	UserID string `json:"userId"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type ownerKey struct{}

func withOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerKey{}, ownerID)
}

// OwnerFromContext returns the caller id injected by JWTAuth.
func OwnerFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ownerKey{}).(string)
	return id, ok && id != ""
}

// JWTAuth verifies HS256 bearer tokens signed with secret and puts the
// userId claim on the request context.
func JWTAuth(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) {
				httpError(w, http.StatusUnauthorized, "authentication_error", "invalid or missing bearer token")
				return
			}

			var claims Claims
			_, err := jwt.ParseWithClaims(auth[len(prefix):], &claims,
				func(*jwt.Token) (any, error) { return key, nil },
				jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			)
			if err != nil {
				httpError(w, http.StatusUnauthorized, "authentication_error", "authentication invalid")
				return
			}
			if claims.UserID == "" {
				httpError(w, http.StatusUnauthorized, "authentication_error", "token has no userId claim")
				return
			}

			next.ServeHTTP(w, r.WithContext(withOwner(r.Context(), claims.UserID)))
		})
	}
}
