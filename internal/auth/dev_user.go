package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// DevUser sets a fixed user id in context without checking any token.
// - X-User-Id overrides the fixed id when present.
// - Use this ONLY for local development against a seeded database.
func DevUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if uid == "" {
			uid = userID
		}

		c.Set(CtxUserID, uid)
		c.Next()
	}
}
