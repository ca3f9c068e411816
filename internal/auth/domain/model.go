package domain

import "errors"

// ErrInvalidToken is returned for missing, malformed, expired or revoked session tokens.
var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is the authenticated caller behind a session token.
// UserID is the identity provider's user uuid and scopes every ledger query.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
}
