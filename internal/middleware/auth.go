package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MdShahnawaz474/Paytm-project/configs"
	"github.com/MdShahnawaz474/Paytm-project/internal/httputil"
	"github.com/MdShahnawaz474/Paytm-project/internal/logger"
)

type contextKey string

const userIDContextKey contextKey = "userID"

// UserID extracts the authenticated caller's user id from the request
// context. Zero means unauthenticated.
func UserID(r *http.Request) uint64 {
	id, _ := r.Context().Value(userIDContextKey).(uint64)
	return id
}

func Authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			httputil.WriteError(w, http.StatusUnauthorized, "Unauthenticated", "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httputil.WriteError(w, http.StatusUnauthorized, "Unauthenticated", "invalid authorization header")
			return
		}

		tokenStr := parts[1]

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(configs.AppConfig.JWT.SECRET), nil
		})
		if err != nil || !token.Valid {
			httputil.WriteError(w, http.StatusUnauthorized, "Unauthenticated", "invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			httputil.WriteError(w, http.StatusUnauthorized, "Unauthenticated", "invalid token claims")
			return
		}

		sub, ok := claims["sub"].(float64)
		if !ok {
			logger.Log.Error("jwt subject missing or wrong type")
			httputil.WriteError(w, http.StatusUnauthorized, "Unauthenticated", "invalid token payload")
			return
		}

		ctx := context.WithValue(r.Context(), userIDContextKey, uint64(sub))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
