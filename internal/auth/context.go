package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
)

// UserID extracts the authenticated user id from the Gin context.
// This is set by BearerAuthMiddleware.
func UserID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserID))
}

// Email returns the caller's email when the token carried one.
func Email(c *gin.Context) string {
	return c.GetString(CtxEmail)
}
