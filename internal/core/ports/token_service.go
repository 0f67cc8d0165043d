package ports

import (
	"context"
	"time"

	"github.com/fox-techniques/janux-auth-gateway/internal/core/domain"
)

// TokenService mints and validates signed access tokens.
type TokenService interface {
	// Issue signs a token carrying the principal's email and role. Never
	// fails for a well-formed principal and healthy signing material.
	Issue(p *domain.Principal) (string, error)

	// Validate checks structure/signature, expiry, issuer/audience and
	// revocation, in that order, and returns the parsed claims. Failures
	// are domain.ErrTokenInvalid, ErrTokenExpired or ErrTokenRevoked.
	Validate(ctx context.Context, token string) (*domain.Claims, error)

	// Revoke blocks the token identified by jti for its remaining lifetime.
	// Revoking an already-revoked or already-expired jti is a no-op.
	Revoke(ctx context.Context, jti string, remaining time.Duration) error
}

// RevocationRegistry tracks revoked token identifiers in a shared cache with
// self-expiring entries.
type RevocationRegistry interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
