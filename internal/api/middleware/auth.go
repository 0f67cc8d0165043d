package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fox-techniques/janux-auth-gateway/internal/api/metrics"
	"github.com/fox-techniques/janux-auth-gateway/internal/core/domain"
	"github.com/fox-techniques/janux-auth-gateway/internal/core/ports"
)

// claimsKey is the echo context key the validated claims are stored under.
const claimsKey = "auth_claims"

// Auth validates the bearer token on every protected request — signature,
// expiry, issuer/audience and revocation — and injects the parsed claims
// into the request context. Every token failure maps to 401; the distinct
// reasons are kept for metrics and logs only.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := tokens.Validate(c.Request().Context(), parts[1])
			if err != nil {
				metrics.TokenValidationsTotal.WithLabelValues(validationResult(err)).Inc()
				return err
			}
			metrics.TokenValidationsTotal.WithLabelValues("valid").Inc()

			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// ClaimsFrom extracts the claims injected by Auth. The second return is
// false when the middleware did not run for this route.
func ClaimsFrom(c echo.Context) (*domain.Claims, bool) {
	claims, ok := c.Get(claimsKey).(*domain.Claims)
	return claims, ok
}

func validationResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenRevoked):
		return "revoked"
	case errors.Is(err, domain.ErrCacheUnavailable):
		return "error"
	default:
		return "invalid"
	}
}
