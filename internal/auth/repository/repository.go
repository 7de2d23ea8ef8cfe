// Package repository persists auditor accounts.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"energy_audit_backend/platform/apperr"
)

// Auditor is a registered auditor account.
type Auditor struct {
	ID              uuid.UUID
	Email           string
	PasswordHash    string
	Name            string
	Phone           string
	Roles           []string
	ExperienceYears int
	CreatedAt       time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const auditorColumns = "id, email, password_hash, name, phone, roles, experience_years, created_at"

func (r *Repository) Create(ctx context.Context, a *Auditor) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO auditors (id, email, password_hash, name, phone, roles, experience_years, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.Email, a.PasswordHash, a.Name, a.Phone, a.Roles, a.ExperienceYears, a.CreatedAt,
	)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "create auditor", err)
	}
	return nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*Auditor, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+auditorColumns+` FROM auditors WHERE email = $1`, email)
	return scanAuditor(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Auditor, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+auditorColumns+` FROM auditors WHERE id = $1`, id)
	return scanAuditor(row)
}

func (r *Repository) SetRoles(ctx context.Context, id uuid.UUID, roles []string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE auditors SET roles = $2 WHERE id = $1`, id, roles)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "set auditor roles", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("auditor not found")
	}
	return nil
}

func scanAuditor(row pgx.Row) (*Auditor, error) {
	var a Auditor
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.Phone, &a.Roles, &a.ExperienceYears, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("auditor not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "scan auditor", err)
	}
	return &a, nil
}
