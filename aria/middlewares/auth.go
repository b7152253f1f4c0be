package middlewares

import (
	"context"
	"net/http"
	"strings"

	"aria/aria/config"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

// OperatorKey marks an authenticated operator token in the request context.
const OperatorKey contextKey = "operator"

// AuthMiddleware guards the read APIs with an HS256 bearer token issued by
// the auth controller.
func AuthMiddleware(cfg config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
				return []byte(cfg.JWTSecret), nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				http.Error(w, "invalid claims", http.StatusUnauthorized)
				return
			}
			sub, _ := claims["sub"].(string)

			ctx := context.WithValue(r.Context(), OperatorKey, sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
