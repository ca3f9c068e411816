package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/creator-copilot/ledger-backend/internal/api/http/middleware"
	ledgerhttp "github.com/creator-copilot/ledger-backend/internal/ledger/http"
	"github.com/creator-copilot/ledger-backend/internal/ledger/service"
)

type V1Deps struct {
	Ledger  *service.LedgerService
	AuthMW  gin.HandlerFunc
	Limiter *middleware.RateLimiter
	Log     *zap.Logger
}

func RegisterV1(r *gin.Engine, dep V1Deps) {
	api := r.Group("/api/v1")
	api.Use(dep.AuthMW)

	var write []gin.HandlerFunc
	if dep.Limiter != nil {
		write = append(write, dep.Limiter.Middleware())
	}

	ledgerhttp.New(dep.Ledger, dep.Log).Register(api, write...)
}
