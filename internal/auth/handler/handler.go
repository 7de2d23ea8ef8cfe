// Package handler exposes auditor authentication over HTTP.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"energy_audit_backend/internal/auth/repository"
	"energy_audit_backend/internal/auth/service"
	"energy_audit_backend/platform/httpkit"
	"energy_audit_backend/platform/validator"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Email           string   `json:"email" validate:"required,email"`
	Password        string   `json:"password" validate:"required,min=10"`
	Name            string   `json:"name" validate:"required"`
	Phone           string   `json:"phone"`
	Roles           []string `json:"roles" validate:"dive,oneof=auditor admin"`
	ExperienceYears int      `json:"experienceYears" validate:"min=0,max=60"`
}

type auditorResponse struct {
	ID              string   `json:"id"`
	Email           string   `json:"email"`
	Name            string   `json:"name"`
	Phone           string   `json:"phone,omitempty"`
	Roles           []string `json:"roles"`
	ExperienceYears int      `json:"experienceYears"`
}

// Login exchanges credentials for an access token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	token, auditor, err := h.svc.SignIn(c.Request.Context(), req.Email, req.Password)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{
		"accessToken": token,
		"auditor":     toResponse(auditor),
	})
}

// Register creates a new auditor account. Admin only.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	auditor, err := h.svc.Register(c.Request.Context(), service.RegisterParams{
		Email:           req.Email,
		Password:        req.Password,
		Name:            req.Name,
		Phone:           req.Phone,
		Roles:           req.Roles,
		ExperienceYears: req.ExperienceYears,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, toResponse(auditor))
}

// Me returns the authenticated auditor's account.
func (h *Handler) Me(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	auditor, err := h.svc.Me(c.Request.Context(), identity.AuditorID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toResponse(auditor))
}

func toResponse(a *repository.Auditor) auditorResponse {
	return auditorResponse{
		ID:              a.ID.String(),
		Email:           a.Email,
		Name:            a.Name,
		Phone:           a.Phone,
		Roles:           a.Roles,
		ExperienceYears: a.ExperienceYears,
	}
}
