package identity

import (
	"context"
	"errors"
)

// Identity is the authenticated principal behind a bearer token.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// Verifier validates an opaque bearer token issued by the external identity
// provider.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

var ErrInvalidToken = errors.New("invalid token")
