package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/fox-techniques/janux-auth-gateway/internal/core/domain"
	"github.com/fox-techniques/janux-auth-gateway/internal/core/ports"
	"github.com/fox-techniques/janux-auth-gateway/internal/pkg/password"
)

// Identity is a bootstrap account resolved from the secret store.
type Identity struct {
	Email    string
	Password string
	FullName string
}

// Seeder guarantees the bootstrap accounts exist. It runs once at startup,
// after the store is ready and before any request is served, and is
// idempotent across restarts and concurrent instances.
type Seeder struct {
	repo  ports.PrincipalRepository
	vault *password.Vault
	log   zerolog.Logger
}

func NewSeeder(repo ports.PrincipalRepository, vault *password.Vault, log zerolog.Logger) *Seeder {
	return &Seeder{repo: repo, vault: vault, log: log}
}

// Seed ensures the super-admin exists (fatal on failure — the gateway must
// never run without one) and, when tester is non-nil, the optional tester
// account (non-fatal; failures are logged).
func (s *Seeder) Seed(ctx context.Context, superAdmin Identity, tester *Identity) error {
	if err := s.ensure(ctx, superAdmin, domain.KindAdmin, domain.RoleSuperAdmin, "Super Admin"); err != nil {
		return fmt.Errorf("seed super admin: %w", err)
	}

	if tester != nil {
		if err := s.ensure(ctx, *tester, domain.KindUser, domain.RoleTester, "Tester"); err != nil {
			s.log.Warn().Err(err).Msg("tester account seeding failed")
		}
	}
	return nil
}

func (s *Seeder) ensure(ctx context.Context, id Identity, kind domain.PrincipalKind, role domain.Role, defaultName string) error {
	if id.Email == "" || id.Password == "" {
		return fmt.Errorf("bootstrap identity for %s is not configured", role)
	}

	_, err := s.repo.FindByEmail(ctx, kind, id.Email)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrPrincipalNotFound):
		// fall through to insert
	default:
		return err
	}

	hash, err := s.vault.Hash(id.Password)
	if err != nil {
		return err
	}

	name := id.FullName
	if name == "" {
		name = defaultName
	}

	_, err = s.repo.Insert(ctx, &domain.Principal{
		Kind:           kind,
		Email:          id.Email,
		FullName:       name,
		HashedPassword: hash,
		Role:           role,
		CreatedAt:      time.Now().UTC(),
	})
	if errors.Is(err, domain.ErrEmailTaken) {
		// Another instance won the seeding race through the unique index.
		return nil
	}
	if err != nil {
		return err
	}

	s.log.Info().Str("email", id.Email).Str("role", string(role)).Msg("bootstrap account created")
	return nil
}
