package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"

	_ "github.com/fox-techniques/janux-auth-gateway/docs"
	"github.com/fox-techniques/janux-auth-gateway/internal/api/handler"
	"github.com/fox-techniques/janux-auth-gateway/internal/api/middleware"
	"github.com/fox-techniques/janux-auth-gateway/internal/core/domain"
	"github.com/fox-techniques/janux-auth-gateway/internal/core/ports"
)

// Deps carries the already-constructed collaborators the router wires up.
// Backend selection happened at startup; the router only sees interfaces.
type Deps struct {
	AuthService ports.AuthService
	Tokens      ports.TokenService
	Pings       map[string]handler.PingFunc
	Log         zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("janux"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService, deps.Tokens)
	adminHandler := handler.NewAdminHandler(deps.AuthService)
	bearer := middleware.Auth(deps.Tokens)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, bearer)

	// --- Principal routes ---
	e.GET("/users/me", authHandler.Me, bearer)

	admin := e.Group("/admin", bearer, middleware.RBAC(domain.RoleSuperAdmin, domain.RoleAdmin))
	admin.GET("/users", adminHandler.ListUsers)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)

	// --- Observability (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Pings)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
