package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/creator-copilot/ledger-backend/internal/ledger/service"
)

type Handler struct {
	svc *service.LedgerService
	log *zap.Logger
}

func New(svc *service.LedgerService, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, log: log}
}

// Register mounts the ledger routes. write runs in front of every route that creates data.
func (h *Handler) Register(rg *gin.RouterGroup, write ...gin.HandlerFunc) {
	rg.GET("/projects", h.ListProjects)
	rg.GET("/projects/:id", h.GetProject)
	rg.GET("/projects/:id/expenses", h.ListProjectExpenses)
	rg.GET("/expenses", h.ListExpenses)

	rg.POST("/projects", chain(write, h.CreateProject)...)
	rg.POST("/projects/:id/expenses", chain(write, h.CreateProjectExpense)...)
	rg.POST("/expenses", chain(write, h.CreateExpense)...)
}

func chain(mw []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(mw)+1)
	out = append(out, mw...)
	return append(out, h)
}
