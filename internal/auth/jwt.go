package auth

import (
	"context"
	"fmt"

	"pawpals/internal/identity"

	"github.com/golang-jwt/jwt/v5"
)

// Claims mirror the identity provider's access token payload. The subject is
// the provider's stable user id, which is also the users table primary key.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// LocalVerifier validates provider-issued HS256 tokens with the project's
// shared signing secret, avoiding a verification round-trip per request.
type LocalVerifier struct {
	secret []byte
}

func NewLocalVerifier(secret string) *LocalVerifier {
	return &LocalVerifier{secret: []byte(secret)}
}

func (v *LocalVerifier) Verify(_ context.Context, tokenString string) (*identity.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, identity.ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return nil, identity.ErrInvalidToken
	}
	return &identity.Identity{UserID: claims.Subject, Email: claims.Email, Role: claims.Role}, nil
}
