package calculations

import (
	apphttp "energy_audit_backend/internal/http"
	"energy_audit_backend/internal/reference"
	"energy_audit_backend/platform/validator"
)

// Module exposes the stateless calculators, implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule wires the calculator endpoints against a loaded table set.
func NewModule(tables *reference.TableSet, val *validator.Validator) *Module {
	return &Module{handler: NewHandler(tables, val)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "calculations"
}

// RegisterRoutes mounts calculator routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	calc := ctx.Protected.Group("/calculations")
	calc.POST("/u-value", m.handler.UValue)
	calc.POST("/condensation", m.handler.Condensation)
	calc.POST("/heat-balance", m.handler.HeatBalance)
	calc.POST("/classification", m.handler.Classification)

	// Reference tables are public read-only data.
	ctx.V1.GET("/reference/tables", m.handler.ReferenceTables)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
