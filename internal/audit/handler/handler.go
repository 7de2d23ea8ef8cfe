// Package handler exposes the audit workflow over HTTP.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"energy_audit_backend/internal/audit/domain"
	"energy_audit_backend/internal/audit/service"
	"energy_audit_backend/internal/audit/transport"
	"energy_audit_backend/platform/httpkit"
	"energy_audit_backend/platform/validator"
)

// Handler handles audit session requests.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates the audit handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid session id", nil)
		return uuid.Nil, false
	}
	return id, true
}

// CreateSession opens a new audit in the contact phase.
func (h *Handler) CreateSession(c *gin.Context) {
	var req transport.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	sess, err := h.svc.Create(c.Request.Context(), domain.AuditType(req.AuditType))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.NewSessionResponse(sess, false))
}

// GetSession returns the full session document.
func (h *Handler) GetSession(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	sess, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.NewSessionResponse(sess, true))
}

// ListSessions returns a page of sessions.
func (h *Handler) ListSessions(c *gin.Context) {
	var query struct {
		Limit  int `form:"limit"`
		Offset int `form:"offset"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query", err.Error())
		return
	}

	sessions, err := h.svc.List(c.Request.Context(), query.Limit, query.Offset)
	if httpkit.HandleError(c, err) {
		return
	}
	resp := make([]transport.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		resp = append(resp, transport.NewSessionResponse(s, false))
	}
	httpkit.OK(c, gin.H{"sessions": resp})
}

// advance binds, validates, and applies one phase payload.
func advance[R any](h *Handler, c *gin.Context, toDomain func(R) domain.PhasePayload) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	var req R
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	sess, err := h.svc.Advance(c.Request.Context(), id, toDomain(req))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.NewSessionResponse(sess, false))
}

// SubmitContact completes the contact phase.
func (h *Handler) SubmitContact(c *gin.Context) {
	advance(h, c, func(r transport.ContactRequest) domain.PhasePayload { return r.ToDomain() })
}

// SubmitMeeting completes the opening-meeting phase.
func (h *Handler) SubmitMeeting(c *gin.Context) {
	advance(h, c, func(r transport.MeetingRequest) domain.PhasePayload { return r.ToDomain() })
}

// SubmitCollection completes the data-collection phase.
func (h *Handler) SubmitCollection(c *gin.Context) {
	advance(h, c, func(r transport.CollectionRequest) domain.PhasePayload { return r.ToDomain() })
}

// SubmitFieldVisit completes the field-visit phase.
func (h *Handler) SubmitFieldVisit(c *gin.Context) {
	advance(h, c, func(r transport.FieldVisitRequest) domain.PhasePayload { return r.ToDomain() })
}

// RunAnalysis executes the calculation engine and advances to reporting.
func (h *Handler) RunAnalysis(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	var req transport.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	sess, err := h.svc.RunAnalysis(c.Request.Context(), id, service.AnalysisParams{
		DiscountRate:     req.DiscountRate,
		SetPoint:         req.SetPoint,
		SystemEfficiency: req.SystemEfficiency,
		Measures:         req.ToMeasures(),
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.NewSessionResponse(sess, true))
}

// SubmitReport completes the reporting phase and the audit.
func (h *Handler) SubmitReport(c *gin.Context) {
	advance(h, c, func(r transport.ReportRequest) domain.PhasePayload { return r.ToDomain() })
}
