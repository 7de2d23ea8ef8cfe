// Package repository persists audit sessions. The session is stored as
// its JSON document form with the phase and type lifted into columns for
// querying; the document is the source of truth.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"energy_audit_backend/internal/audit/domain"
	"energy_audit_backend/platform/apperr"
)

// PostgresRepository stores sessions in the audit_sessions table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a Postgres-backed session repository.
func NewPostgres(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new session.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) error {
	doc, err := s.MarshalDocument()
	if err != nil {
		return fmt.Errorf("marshal audit session: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO audit_sessions (id, audit_type, phase, document, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.AuditType, s.Phase, doc, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit session: %w", err)
	}
	return nil
}

// Get loads one session by id.
func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	var doc []byte
	err := r.pool.QueryRow(ctx,
		`SELECT document FROM audit_sessions WHERE id = $1`, id,
	).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound(fmt.Sprintf("audit session %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("select audit session: %w", err)
	}
	return domain.UnmarshalDocument(doc)
}

// Update replaces the session's document and lifted columns.
func (r *PostgresRepository) Update(ctx context.Context, s *domain.Session) error {
	doc, err := s.MarshalDocument()
	if err != nil {
		return fmt.Errorf("marshal audit session: %w", err)
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE audit_sessions
		SET phase = $2, document = $3, updated_at = $4
		WHERE id = $1`,
		s.ID, s.Phase, doc, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update audit session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(fmt.Sprintf("audit session %s not found", s.ID))
	}
	return nil
}

// List returns sessions newest first.
func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]*domain.Session, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT document FROM audit_sessions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.Session
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan audit session: %w", err)
		}
		s, err := domain.UnmarshalDocument(doc)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
