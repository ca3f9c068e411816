package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/creator-copilot/ledger-backend/internal/auth"
	"github.com/creator-copilot/ledger-backend/internal/ledger/domain"
	"github.com/creator-copilot/ledger-backend/internal/ledger/reconcile"
)

// CreateExpense records an expense. The optional project_id and department query parameters
// describe the list the client is showing; the response's reload flag says whether the new row
// can be prepended to it or the list must be fetched again.
func (h *Handler) CreateExpense(c *gin.Context) {
	raw, err := bindFields(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	h.createExpense(c, raw)
}

// CreateProjectExpense records an expense under the project in the path.
func (h *Handler) CreateProjectExpense(c *gin.Context) {
	raw, err := bindFields(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	raw["projectId"] = c.Param("id")
	h.createExpense(c, raw)
}

func (h *Handler) createExpense(c *gin.Context, raw map[string]string) {
	e, err := h.svc.CreateExpense(c.Request.Context(), auth.UserID(c), raw)
	if err != nil {
		h.writeError(c, err)
		return
	}

	view := reconcile.Filters{
		ProjectID:  c.Query("project_id"),
		Department: c.DefaultQuery("department", domain.AllDepartments),
	}
	if view.ProjectID == "" && e != nil {
		view.ProjectID = e.ProjectID
	}

	// only the placement matters here; the client keeps its own rows
	res := reconcile.Reconcile(e, view, nil)
	if res.Reload {
		c.JSON(http.StatusCreated, gin.H{"ok": true, "expense": e, "reload": true})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "expense": res.Rows[0], "reload": false})
}

// ListExpenses returns a project's expenses filtered by department and narrowed by q.
func (h *Handler) ListExpenses(c *gin.Context) {
	h.listExpenses(c, c.Query("project_id"))
}

func (h *Handler) ListProjectExpenses(c *gin.Context) {
	h.listExpenses(c, c.Param("id"))
}

func (h *Handler) listExpenses(c *gin.Context, projectID string) {
	items, err := h.svc.ListExpenses(
		c.Request.Context(),
		auth.UserID(c),
		projectID,
		c.DefaultQuery("department", domain.AllDepartments),
		c.Query("q"),
	)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "expenses": items})
}
