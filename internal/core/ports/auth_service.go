package ports

import (
	"context"

	"github.com/fox-techniques/janux-auth-gateway/internal/core/domain"
)

// AuthService implements the credential lifecycle: registration, login and
// principal administration.
type AuthService interface {
	Register(ctx context.Context, email, fullName, password string) (*domain.Principal, error)
	Login(ctx context.Context, email, password string) (string, error)
	ListUsers(ctx context.Context) ([]domain.Principal, error)
	DeleteUser(ctx context.Context, id string) error
}
