package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/fox-techniques/janux-auth-gateway/internal/core/domain"
)

// RBAC enforces role-based access control: the caller's role claim must be a
// member of allowedRoles. Pure set membership — super_admin does not satisfy
// a route that only lists admin.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok {
				return domain.ErrForbidden
			}
			if _, ok := allowed[claims.Role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
