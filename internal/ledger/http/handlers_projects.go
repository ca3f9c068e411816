package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/creator-copilot/ledger-backend/internal/auth"
)

// CreateProject validates the posted form and creates a project for the caller
func (h *Handler) CreateProject(c *gin.Context) {
	raw, err := bindFields(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	p, err := h.svc.CreateProject(c.Request.Context(), auth.UserID(c), raw)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) ListProjects(c *gin.Context) {
	items, err := h.svc.ListProjects(c.Request.Context(), auth.UserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) GetProject(c *gin.Context) {
	p, err := h.svc.GetProject(c.Request.Context(), c.Param("id"), auth.UserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}
