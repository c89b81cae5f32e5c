// Package jwtmw issues bearer tokens and authenticates requests carrying them.
package jwtmw

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"recipe_backend/internal/shared/apperr"
)

const (
	ContextUserID    = "userID"
	ContextSessionID = "sessionID"
)

// SessionValidator confirms that the session behind a token is still usable.
type SessionValidator interface {
	ValidateSession(ctx context.Context, userID uint, sessionID string) error
}

// AuthRequired returns a Gin middleware function that validates JWT tokens
// and restricts access to authenticated users only. When sessions is non-nil
// the token's session must also be valid.
func AuthRequired(secret string, sessions SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get Authorization header
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication credentials were not provided"})
			return
		}
		tokenStr := strings.TrimPrefix(auth, "Bearer ")

		// 2. Server misconfiguration (JWT secret not set)
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server misconfigured"})
			return
		}

		// 3. Parse and verify JWT signature (only HMAC allowed)
		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		// 4. Extract claims; JWT numbers are decoded as float64
		claims, _ := token.Claims.(jwt.MapClaims)
		sub, ok := claims["sub"].(float64)
		if !ok || sub <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		userID := uint(sub)
		sessionID, _ := claims["sid"].(string)

		// 5. Check the session has not been revoked
		if sessions != nil {
			if err := sessions.ValidateSession(c.Request.Context(), userID, sessionID); err != nil {
				if errors.Is(err, apperr.ErrUnauthenticated) {
					c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
					return
				}
				slog.Error("session validation failed", "error", err, "user_id", userID)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
				return
			}
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextSessionID, sessionID)
		c.Next()
	}
}

// UserID returns the authenticated caller set by AuthRequired.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

// SessionID returns the session ID set by AuthRequired.
func SessionID(c *gin.Context) string {
	return c.GetString(ContextSessionID)
}
