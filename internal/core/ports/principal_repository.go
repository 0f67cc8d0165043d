package ports

import (
	"context"

	"github.com/fox-techniques/janux-auth-gateway/internal/core/domain"
)

// PrincipalRepository is the storage contract shared by the document and
// relational backends. Email uniqueness per kind is the backend's job (a
// unique index), not the caller's: Insert surfaces a constraint violation as
// domain.ErrEmailTaken so registration races resolve atomically.
type PrincipalRepository interface {
	FindByEmail(ctx context.Context, kind domain.PrincipalKind, email string) (*domain.Principal, error)
	Insert(ctx context.Context, p *domain.Principal) (*domain.Principal, error)
	ListAll(ctx context.Context, kind domain.PrincipalKind) ([]domain.Principal, error)
	DeleteByID(ctx context.Context, kind domain.PrincipalKind, id string) error
}
