package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/creator-copilot/ledger-backend/internal/auth/domain"
)

const tokenKeyPrefix = "auth:token:" // auth:token:{sha256(token)} -> identity json

// CachedVerifier remembers successful verifications in Redis for ttl. Rejected tokens are never
// cached, and a Redis failure falls through to the wrapped verifier.
type CachedVerifier struct {
	next   Verifier
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewCachedVerifier wraps next with a Redis-backed identity cache.
func NewCachedVerifier(next Verifier, client *redis.Client, ttl time.Duration, log *zap.Logger) *CachedVerifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedVerifier{next: next, client: client, ttl: ttl, log: log}
}

func (v *CachedVerifier) Verify(ctx context.Context, token string) (*domain.Identity, error) {
	key := tokenKey(token)

	data, err := v.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var id domain.Identity
		if jerr := json.Unmarshal(data, &id); jerr == nil && id.UserID != "" {
			return &id, nil
		}
		v.log.Warn("dropping unreadable cached identity", zap.String("key", key))
	case err != redis.Nil:
		v.log.Warn("token cache read failed", zap.Error(err))
	}

	id, err := v.next.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(id); err == nil {
		if err := v.client.Set(ctx, key, data, v.ttl).Err(); err != nil {
			v.log.Warn("token cache write failed", zap.Error(err))
		}
	}
	return id, nil
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return tokenKeyPrefix + hex.EncodeToString(sum[:])
}
