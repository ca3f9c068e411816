package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/creator-copilot/ledger-backend/internal/auth"
	"github.com/creator-copilot/ledger-backend/internal/auth/domain"
)

// BearerAuthMiddleware validates session tokens and extracts user info
func BearerAuthMiddleware(verifier auth.Verifier, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing or malformed authorization header"})
			return
		}

		id, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			msg := "authentication failed"
			if errors.Is(err, domain.ErrInvalidToken) {
				msg = "invalid or expired token"
			} else {
				log.Warn("token verification failed", zap.Error(err))
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": msg})
			return
		}

		c.Set(auth.CtxUserID, id.UserID)
		if id.Email != "" {
			c.Set(auth.CtxEmail, id.Email)
		}

		c.Next()
	}
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return strings.TrimSpace(bearerToken[7:])
	}
	return ""
}
