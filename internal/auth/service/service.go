// Package service implements auditor registration and sign-in.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"energy_audit_backend/internal/auth/repository"
	"energy_audit_backend/platform/apperr"
	"energy_audit_backend/platform/config"
	"energy_audit_backend/platform/logger"
	"energy_audit_backend/platform/phone"
)

const accessTokenType = "access"

type Service struct {
	repo *repository.Repository
	cfg  config.AuthServiceConfig
	log  *logger.Logger
}

func New(repo *repository.Repository, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// RegisterParams carries the fields for a new auditor account.
type RegisterParams struct {
	Email           string
	Password        string
	Name            string
	Phone           string
	Roles           []string
	ExperienceYears int
}

// Register creates an auditor account with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, p RegisterParams) (*repository.Auditor, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "hash password", err)
	}

	roles := p.Roles
	if len(roles) == 0 {
		roles = []string{"auditor"}
	}

	auditor := &repository.Auditor{
		ID:              uuid.New(),
		Email:           strings.ToLower(strings.TrimSpace(p.Email)),
		PasswordHash:    string(hash),
		Name:            p.Name,
		Phone:           phone.NormalizeE164(p.Phone),
		Roles:           roles,
		ExperienceYears: p.ExperienceYears,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, auditor); err != nil {
		return nil, err
	}

	s.log.AuthEvent("register", auditor.Email, true, "")
	return auditor, nil
}

// SignIn verifies credentials and returns a signed access token.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, *repository.Auditor, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	auditor, err := s.repo.GetByEmail(ctx, normalized)
	if err != nil {
		s.log.AuthEvent("sign_in", normalized, false, "unknown email")
		return "", nil, apperr.Unauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(auditor.PasswordHash), []byte(password)); err != nil {
		s.log.AuthEvent("sign_in", normalized, false, "password mismatch")
		return "", nil, apperr.Unauthorized("invalid credentials")
	}

	token, err := s.signJWT(auditor.ID, auditor.Roles)
	if err != nil {
		return "", nil, err
	}

	s.log.AuthEvent("sign_in", auditor.Email, true, "")
	return token, auditor, nil
}

// Me loads the account for the authenticated auditor.
func (s *Service) Me(ctx context.Context, id uuid.UUID) (*repository.Auditor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) signJWT(auditorID uuid.UUID, roles []string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   auditorID.String(),
		"type":  accessTokenType,
		"roles": roles,
		"exp":   now.Add(s.cfg.GetAccessTokenTTL()).Unix(),
		"iat":   now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "sign access token", err)
	}
	return signed, nil
}
