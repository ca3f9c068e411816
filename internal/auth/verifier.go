package auth

import (
	"context"

	"github.com/creator-copilot/ledger-backend/internal/auth/domain"
)

// Verifier resolves a bearer token to the caller's identity. Implementations return an error
// wrapping domain.ErrInvalidToken when the token itself is rejected.
type Verifier interface {
	Verify(ctx context.Context, token string) (*domain.Identity, error)
}
