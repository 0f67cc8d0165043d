package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fox-techniques/janux-auth-gateway/internal/core/domain"
	"github.com/fox-techniques/janux-auth-gateway/internal/core/ports"
	"github.com/fox-techniques/janux-auth-gateway/internal/infrastructure/secrets"
)

// TokenService mints and validates signed access tokens against the
// process-wide secret material.
type TokenService struct {
	material *secrets.Material
	registry ports.RevocationRegistry
	issuer   string
	audience string
	ttl      time.Duration
	failOpen bool
	log      zerolog.Logger
}

// NewTokenService wires the token lifecycle. failOpen selects the policy for
// a revocation-cache outage during validation: false rejects the token,
// true accepts it with a logged warning.
func NewTokenService(material *secrets.Material, registry ports.RevocationRegistry, issuer, audience string, ttl time.Duration, failOpen bool, log zerolog.Logger) *TokenService {
	if ttl <= 0 {
		ttl = 20 * time.Minute
	}
	return &TokenService{
		material: material,
		registry: registry,
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		failOpen: failOpen,
		log:      log,
	}
}

// Issue signs a token for p. All seven claims are always set; jti is a fresh
// uuid per issuance.
func (s *TokenService) Issue(p *domain.Principal) (string, error) {
	now := time.Now().UTC()
	claims := &domain.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Email,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
		Role: p.Role,
	}

	signed, err := jwt.NewWithClaims(s.material.Method, claims).SignedString(s.material.SignKey)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Validate runs the four mandatory checks in order: signature/structure,
// expiry, issuer/audience, revocation. Side-effect free.
func (s *TokenService) Validate(ctx context.Context, token string) (*domain.Claims, error) {
	claims := &domain.Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) { return s.material.VerifyKey, nil },
		jwt.WithValidMethods([]string{s.material.Algorithm}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !parsed.Valid || claims.ID == "" {
		return nil, domain.ErrTokenInvalid
	}
	if _, err := domain.ParseRole(string(claims.Role)); err != nil {
		return nil, domain.ErrTokenInvalid
	}

	revoked, err := s.registry.IsRevoked(ctx, claims.ID)
	if err != nil {
		if s.failOpen {
			s.log.Warn().Err(err).Str("jti", claims.ID).
				Msg("revocation cache unreachable, accepting token (fail-open)")
			return claims, nil
		}
		return nil, err
	}
	if revoked {
		return nil, domain.ErrTokenRevoked
	}

	return claims, nil
}

// Revoke blocks jti for its remaining lifetime. The registry treats a
// non-positive remaining as a no-op, so revoking an expired token succeeds
// without writing anything.
func (s *TokenService) Revoke(ctx context.Context, jti string, remaining time.Duration) error {
	return s.registry.Revoke(ctx, jti, remaining)
}
