// Package auth provides the authentication bounded context module.
package auth

import (
	"energy_audit_backend/internal/auth/handler"
	"energy_audit_backend/internal/auth/repository"
	"energy_audit_backend/internal/auth/service"
	apphttp "energy_audit_backend/internal/http"
	"energy_audit_backend/platform/config"
	"energy_audit_backend/platform/httpkit"
	"energy_audit_backend/platform/logger"
	"energy_audit_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the auth module with all its dependencies.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// RegisterRoutes mounts auth routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public auth routes with stricter rate limiting
	authGroup := ctx.V1.Group("/auth")
	authGroup.Use(ctx.AuthRateLimiter.RateLimit())
	authGroup.POST("/login", m.handler.Login)

	ctx.Protected.GET("/auditors/me", m.handler.Me)
	ctx.Protected.POST("/auditors", httpkit.RequireRole("admin"), m.handler.Register)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
