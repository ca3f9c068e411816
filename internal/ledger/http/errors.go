package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/creator-copilot/ledger-backend/internal/ledger/domain"
)

// writeError maps ledger errors onto status codes. Store failures are logged, and only a
// generic message reaches the client.
func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	var rerr *domain.RemoteError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"ok": false, "error": "validation failed", "errors": verr.Fields})
	case errors.Is(err, domain.ErrAuthorizationRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrProjectRequired):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"ok": false, "error": err.Error(), "errors": gin.H{"projectId": "Project is required"}})
	case errors.Is(err, domain.ErrProjectNotFound):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"ok": false, "error": err.Error(), "errors": gin.H{"projectId": "Project not found"}})
	case errors.As(err, &rerr) && rerr.Code() == domain.CodeUniqueViolation:
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": "record already exists"})
	case errors.As(err, &rerr) && rerr.Code() == domain.CodeForeignKeyViolation:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"ok": false, "error": "referenced record not found"})
	case errors.As(err, &rerr) && (rerr.Code() == domain.CodeCheckViolation || rerr.Code() == domain.CodeNumericOutOfRange):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"ok": false, "error": "value rejected by the store"})
	default:
		h.log.Error("ledger request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
	}
}
