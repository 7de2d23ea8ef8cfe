// Package audit provides the energy-audit bounded context module.
// This file defines the module that encapsulates all audit setup and route registration.
package audit

import (
	"energy_audit_backend/internal/audit/handler"
	"energy_audit_backend/internal/audit/repository"
	"energy_audit_backend/internal/audit/service"
	"energy_audit_backend/internal/events"
	apphttp "energy_audit_backend/internal/http"
	"energy_audit_backend/internal/reference"
	"energy_audit_backend/platform/logger"
	"energy_audit_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the audit bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the audit module with all its dependencies.
func NewModule(pool *pgxpool.Pool, tables *reference.TableSet, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.NewPostgres(pool)
	svc := service.New(repo, tables, eventBus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "audit"
}

// Service returns the audit service for use by background workers.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts audit routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	audits := ctx.Protected.Group("/audits")
	audits.POST("", m.handler.CreateSession)
	audits.GET("", m.handler.ListSessions)
	audits.GET("/:id", m.handler.GetSession)

	audits.POST("/:id/contact", m.handler.SubmitContact)
	audits.POST("/:id/meeting", m.handler.SubmitMeeting)
	audits.POST("/:id/collection", m.handler.SubmitCollection)
	audits.POST("/:id/field-visit", m.handler.SubmitFieldVisit)
	audits.POST("/:id/analysis", m.handler.RunAnalysis)
	audits.POST("/:id/report", m.handler.SubmitReport)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
