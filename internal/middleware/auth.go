package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thereayou/studyflow/internal/revocation"
	"github.com/thereayou/studyflow/pkg/auth"
)

const (
	UserIDKey   = "userID"
	UsernameKey = "username"
	TokenKey    = "token"
)

// AuthMiddleware проверяет JWT токен из заголовка Authorization.
func AuthMiddleware(jwtManager *auth.JWTManager, revoked revocation.Store) gin.HandlerFunc {
	return authenticate(jwtManager, revoked, false)
}

// WSAuthMiddleware специальный middleware для WebSocket: браузер не может
// передать заголовки при upgrade, поэтому токен принимается и из ?token=.
func WSAuthMiddleware(jwtManager *auth.JWTManager, revoked revocation.Store) gin.HandlerFunc {
	return authenticate(jwtManager, revoked, true)
}

func authenticate(jwtManager *auth.JWTManager, revoked revocation.Store, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractTokenFromHeader(c.Request)
		if allowQuery && errors.Is(err, auth.ErrMissingToken) {
			if q := c.Query("token"); q != "" {
				token, err = q, nil
			}
		}
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, auth.ErrMissingToken) {
				msg = "unauthorized"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		claims, err := jwtManager.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		// Проверяем, не в черном списке ли токен
		isRevoked, err := revoked.IsRevoked(c.Request.Context(), token)
		if err != nil || isRevoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Set(UsernameKey, claims.Username)
		c.Set(TokenKey, token)
		c.Next()
	}
}

// UserID returns the authenticated user id stored by AuthMiddleware.
func UserID(c *gin.Context) uuid.UUID {
	return c.MustGet(UserIDKey).(uuid.UUID)
}
