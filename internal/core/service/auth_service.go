package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fox-techniques/janux-auth-gateway/internal/core/domain"
	"github.com/fox-techniques/janux-auth-gateway/internal/core/ports"
	"github.com/fox-techniques/janux-auth-gateway/internal/pkg/password"
)

// AuthService implements registration, login and principal administration.
type AuthService struct {
	repo   ports.PrincipalRepository
	vault  *password.Vault
	tokens ports.TokenService
	log    zerolog.Logger
}

func NewAuthService(repo ports.PrincipalRepository, vault *password.Vault, tokens ports.TokenService, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, vault: vault, tokens: tokens, log: log}
}

// Register creates a user principal. Open registration always grants the
// user role; elevated roles exist only through seeding. Duplicate emails
// surface as domain.ErrEmailTaken straight from the store's unique index.
func (s *AuthService) Register(ctx context.Context, email, fullName, password string) (*domain.Principal, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := s.vault.Hash(password)
	if err != nil {
		return nil, err
	}

	p := &domain.Principal{
		Kind:           domain.KindUser,
		Email:          email,
		FullName:       fullName,
		HashedPassword: hash,
		Role:           domain.RoleUser,
		CreatedAt:      time.Now().UTC(),
	}

	created, err := s.repo.Insert(ctx, p)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("email", created.Email).Msg("principal registered")
	return created, nil
}

// Login authenticates either principal kind — admins are probed first, then
// users — and issues an access token. Unknown email and wrong password
// collapse into the same error so responses never reveal which was wrong.
func (s *AuthService) Login(ctx context.Context, email, pw string) (string, error) {
	email = normalizeEmail(email)
	if email == "" || pw == "" {
		return "", domain.ErrInvalidCredentials
	}

	p, err := s.findEitherKind(ctx, email)
	if err != nil {
		return "", err
	}
	if !s.vault.Verify(pw, p.HashedPassword) {
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(p)
	if err != nil {
		return "", err
	}

	s.log.Info().Str("email", p.Email).Str("role", string(p.Role)).Msg("login succeeded")
	return token, nil
}

func (s *AuthService) findEitherKind(ctx context.Context, email string) (*domain.Principal, error) {
	for _, kind := range []domain.PrincipalKind{domain.KindAdmin, domain.KindUser} {
		p, err := s.repo.FindByEmail(ctx, kind, email)
		switch {
		case err == nil:
			return p, nil
		case errors.Is(err, domain.ErrPrincipalNotFound):
			continue
		default:
			return nil, err
		}
	}
	return nil, domain.ErrInvalidCredentials
}

// ListUsers returns all user principals.
func (s *AuthService) ListUsers(ctx context.Context) ([]domain.Principal, error) {
	return s.repo.ListAll(ctx, domain.KindUser)
}

// DeleteUser removes a user principal by id.
func (s *AuthService) DeleteUser(ctx context.Context, id string) error {
	return s.repo.DeleteByID(ctx, domain.KindUser, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
