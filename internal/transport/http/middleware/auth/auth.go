package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/handywriterz/order-admin-svc/internal/service/models/session"
	"github.com/handywriterz/order-admin-svc/internal/transport/http/response"
)

// NewAuthMiddleware verifies the HMAC-signed bearer token and stores the admin session in the context.
// The raw token is kept in the session so it can be passed on to the submissions endpoint.
func NewAuthMiddleware(jwtSecret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Error(w, http.StatusUnauthorized, "unauthorized")

				return
			}

			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || tokenString == "" {
				response.Error(w, http.StatusUnauthorized, "invalid token format")

				return
			}

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}

				return jwtSecret, nil
			})
			if err != nil || !token.Valid {
				response.Error(w, http.StatusUnauthorized, "invalid or expired token")

				return
			}

			adminID, err := claims.GetSubject()
			if err != nil || adminID == "" {
				response.Error(w, http.StatusUnauthorized, "subject not found in token")

				return
			}
			email, _ := claims["email"].(string)

			ctx := session.WithSession(r.Context(), session.Session{
				AdminID:    adminID,
				AdminEmail: email,
				Token:      tokenString,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
