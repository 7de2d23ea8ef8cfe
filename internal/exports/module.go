package exports

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apphttp "energy_audit_backend/internal/http"
	"energy_audit_backend/platform/httpkit"
)

// Module exposes report export over HTTP, implementing http.Module.
type Module struct {
	service *Service
}

// NewModule wraps the export service as an HTTP module.
func NewModule(service *Service) *Module {
	return &Module{service: service}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "exports"
}

// RegisterRoutes mounts export routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/audits/:id/export", m.exportReport)
}

func (m *Module) exportReport(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid session id", nil)
		return
	}

	export, err := m.service.ExportReport(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, export)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
