// Package calculations exposes the stateless calculators over HTTP so a
// form-driven client can evaluate constructions before an audit session
// collects them.
package calculations

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"energy_audit_backend/internal/audit/transport"
	"energy_audit_backend/internal/classify"
	"energy_audit_backend/internal/energy"
	"energy_audit_backend/internal/reference"
	"energy_audit_backend/internal/thermal"
	"energy_audit_backend/platform/httpkit"
	"energy_audit_backend/platform/validator"
)

type Handler struct {
	tables *reference.TableSet
	val    *validator.Validator
}

func NewHandler(tables *reference.TableSet, val *validator.Validator) *Handler {
	return &Handler{tables: tables, val: val}
}

// UValueRequest evaluates one construction.
type UValueRequest struct {
	Construction transport.ConstructionDTO `json:"construction" validate:"required"`
}

// UValue computes the plain and bridge-corrected U-value of a construction.
func (h *Handler) UValue(c *gin.Context) {
	var req UValueRequest
	if !h.bind(c, &req) {
		return
	}

	construction := req.Construction.ToDomain()
	uValue, err := construction.UValue()
	if httpkit.HandleError(c, err) {
		return
	}
	effective, err := construction.EffectiveUValue()
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{
		"uValue":          uValue,
		"effectiveUValue": effective,
		"heatCapacity":    construction.HeatCapacity(),
	})
}

// CondensationRequest screens one construction; a nil climate selects the
// Slovak design winter condition.
type CondensationRequest struct {
	Construction transport.ConstructionDTO `json:"construction" validate:"required"`
	Climate      *thermal.Climate          `json:"climate,omitempty"`
}

// Condensation runs the Glaser analysis for a construction.
func (h *Handler) Condensation(c *gin.Context) {
	var req CondensationRequest
	if !h.bind(c, &req) {
		return
	}

	climate := thermal.DefaultWinterClimate()
	if req.Climate != nil {
		climate = *req.Climate
	}

	result, err := thermal.AnalyzeCondensation(req.Construction.ToDomain(), climate)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{
		"risk":           result.Risk.String(),
		"profile":        result.Profile,
		"riskBoundaries": result.RiskBoundaries,
	})
}

// HeatBalanceRequest carries a full heat-balance scenario. The climate is
// optional; when omitted the loaded reference climate applies.
type HeatBalanceRequest struct {
	Constructions []transport.ConstructionDTO `json:"constructions" validate:"required,min=1,dive"`
	GrossArea     float64                     `json:"grossArea,omitempty" validate:"gte=0"`
	Ventilation   energy.Ventilation          `json:"ventilation"`
	Apertures     []energy.SolarAperture      `json:"apertures,omitempty"`
	InternalGains energy.InternalGains        `json:"internalGains"`
	Climate       *energy.MonthlyClimate      `json:"climate,omitempty"`
	SetPoint      float64                     `json:"setPoint,omitempty" validate:"gte=0,lte=30"`
}

// HeatBalance runs the monthly method for an ad-hoc scenario.
func (h *Handler) HeatBalance(c *gin.Context) {
	var req HeatBalanceRequest
	if !h.bind(c, &req) {
		return
	}

	constructions := make([]thermal.Construction, 0, len(req.Constructions))
	for _, dto := range req.Constructions {
		constructions = append(constructions, dto.ToDomain())
	}

	climate := h.tables.Climate
	if req.Climate != nil {
		climate = *req.Climate
	}

	result, err := energy.SolveHeatBalance(energy.HeatBalanceInput{
		Envelope:      energy.Envelope{Constructions: constructions, GrossArea: req.GrossArea},
		Ventilation:   req.Ventilation,
		Apertures:     req.Apertures,
		InternalGains: req.InternalGains,
		Climate:       climate,
		SetPoint:      req.SetPoint,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ClassificationRequest classifies a specific primary energy figure.
type ClassificationRequest struct {
	SpecificPrimaryEnergy float64 `json:"specificPrimaryEnergy"`
	Subtype               string  `json:"subtype" validate:"required"`
}

// Classification maps a specific primary energy onto the class scale.
func (h *Handler) Classification(c *gin.Context) {
	var req ClassificationRequest
	if !h.bind(c, &req) {
		return
	}

	class, err := h.tables.ClassTables().Classify(classify.BuildingSubtype(req.Subtype), req.SpecificPrimaryEnergy)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{
		"energyClass":           class,
		"specificPrimaryEnergy": req.SpecificPrimaryEnergy,
		"subtype":               req.Subtype,
	})
}

// ReferenceTables returns the loaded national reference table set.
func (h *Handler) ReferenceTables(c *gin.Context) {
	httpkit.OK(c, h.tables)
}

func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return false
	}
	return true
}
