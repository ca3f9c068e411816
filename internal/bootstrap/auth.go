package bootstrap

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/creator-copilot/ledger-backend/config"
	"github.com/creator-copilot/ledger-backend/internal/auth"
	authmw "github.com/creator-copilot/ledger-backend/internal/auth/middleware"
)

// BuildVerifier prefers local JWT checks, falls back to the Supabase auth endpoint, and puts
// the Redis cache in front of either when a client is given.
func BuildVerifier(cfg *config.AuthConfig, rdb *redis.Client, log *zap.Logger) auth.Verifier {
	var v auth.Verifier
	if cfg.JWTSecret != "" {
		v = auth.NewJWTVerifier(cfg.JWTSecret, cfg.Audience)
	} else {
		v = auth.NewRemoteVerifier(cfg.SupabaseURL, cfg.SupabaseKey, nil)
	}

	if rdb != nil {
		v = auth.NewCachedVerifier(v, rdb, cfg.CacheTTL, log)
	}
	return v
}

// AuthMiddleware returns the request authenticator for cfg.
func AuthMiddleware(cfg *config.AuthConfig, rdb *redis.Client, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.DevUserID != "" {
		log.Warn("token checks disabled, every request runs as the dev user", zap.String("user_id", cfg.DevUserID))
		return auth.DevUser(cfg.DevUserID)
	}
	return authmw.BearerAuthMiddleware(BuildVerifier(cfg, rdb, log), log)
}
