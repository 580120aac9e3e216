package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type key string

const (
	UserIDKey   key = "user_id"
	UsernameKey key = "username"
)

// UserID returns the authenticated user id stored by JWTMiddleware, or false.
func UserID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(UserIDKey).(int)
	return id, ok
}

// Username returns the authenticated username stored by JWTMiddleware, or false.
func Username(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(UsernameKey).(string)
	return name, ok
}

// JWTMiddleware verifies the bearer token and stores user id and username in
// the request context. A missing header is 401; a malformed, badly signed or
// expired token is 403.
func JWTMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				jsonMessage(w, "Access denied!", http.StatusUnauthorized)
				return
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				jsonMessage(w, "Invalid token!", http.StatusForbidden)
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

			if err != nil || !token.Valid {
				jsonMessage(w, "Invalid token!", http.StatusForbidden)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				jsonMessage(w, "Invalid token!", http.StatusForbidden)
				return
			}

			userID, okID := claims["userId"].(float64)
			username, okName := claims["username"].(string)
			if !okID || !okName {
				jsonMessage(w, "Invalid token!", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, int(userID))
			ctx = context.WithValue(ctx, UsernameKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// jsonMessage writes the API-wide {"message": ...} error body.
func jsonMessage(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
