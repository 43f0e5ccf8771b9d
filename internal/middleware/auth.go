package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"pingchat/internal/apperr"
)

type contextKey string

// UserKey holds the authenticated user's ID in the request context.
const UserKey contextKey = "user_id"

// TokenValidator decouples this package from the user service.
type TokenValidator interface {
	ValidateToken(tokenString string) (uuid.UUID, error)
}

type AuthMiddleware struct {
	validator TokenValidator
}

func NewAuthMiddleware(v TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{validator: v}
}

func (am *AuthMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := ""

		// Session cookie is the primary carrier.
		if c, err := r.Cookie("jwt"); err == nil {
			tokenString = c.Value
		}

		// Fallbacks: Authorization header, then query param (websocket dial).
		if tokenString == "" {
			authHeader := r.Header.Get("Authorization")
			if parts := strings.Split(authHeader, " "); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			tokenString = r.URL.Query().Get("token")
		}

		if tokenString == "" {
			apperr.Respond(w, apperr.Unauthorized("missing authentication token"))
			return
		}

		userID, err := am.validator.ValidateToken(tokenString)
		if err != nil {
			apperr.Respond(w, apperr.Unauthorized("invalid token"))
			return
		}

		ctx := context.WithValue(r.Context(), UserKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
