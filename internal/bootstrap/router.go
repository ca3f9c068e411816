package bootstrap

import (
	"database/sql"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	httpapi "github.com/creator-copilot/ledger-backend/internal/api/http"
	"github.com/creator-copilot/ledger-backend/internal/api/http/middleware"
	"github.com/creator-copilot/ledger-backend/internal/api/http/routes"
	"github.com/creator-copilot/ledger-backend/internal/ledger/repository"
	"github.com/creator-copilot/ledger-backend/internal/ledger/service"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	DB          *sql.DB
	AuthMW      gin.HandlerFunc
	CORSOrigins []string
	// WritesPerMinute and Burst size the per-user write limiter; zero disables it.
	WritesPerMinute int
	Burst           int
	Log             *zap.Logger
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	if dep.Log == nil {
		dep.Log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware(dep.Log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, pinger(dep.DB))
	healthHandler.RegisterRoutes(r)
	healthHandler.RegisterProtected(r, dep.AuthMW)

	gateway := repository.NewGateway(dep.DB, dep.Log)
	ledger := service.NewLedgerService(gateway, dep.Log)

	var limiter *middleware.RateLimiter
	if dep.WritesPerMinute > 0 && dep.Burst > 0 {
		limiter = middleware.NewRateLimiter(dep.WritesPerMinute, dep.Burst)
	}

	routes.RegisterV1(r, routes.V1Deps{
		Ledger:  ledger,
		AuthMW:  dep.AuthMW,
		Limiter: limiter,
		Log:     dep.Log,
	})

	return r
}

// pinger keeps a nil *sql.DB from becoming a non-nil interface.
func pinger(db *sql.DB) httpapi.Pinger {
	if db == nil {
		return nil
	}
	return db
}
