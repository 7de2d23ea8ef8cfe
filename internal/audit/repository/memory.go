package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"energy_audit_backend/internal/audit/domain"
	"energy_audit_backend/platform/apperr"
)

// MemoryRepository keeps sessions in memory, stored in their document
// form so callers always get independent copies. Used in tests and for
// single-process evaluation runs.
type MemoryRepository struct {
	mu   sync.RWMutex
	docs map[uuid.UUID][]byte
}

// NewMemory creates an empty in-memory session repository.
func NewMemory() *MemoryRepository {
	return &MemoryRepository{docs: make(map[uuid.UUID][]byte)}
}

// Create stores a new session.
func (r *MemoryRepository) Create(_ context.Context, s *domain.Session) error {
	doc, err := s.MarshalDocument()
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.docs[s.ID]; exists {
		return apperr.New(apperr.KindConflict, fmt.Sprintf("audit session %s already exists", s.ID))
	}
	r.docs[s.ID] = doc
	return nil
}

// Get returns an independent copy of the stored session.
func (r *MemoryRepository) Get(_ context.Context, id uuid.UUID) (*domain.Session, error) {
	r.mu.RLock()
	doc, ok := r.docs[id]
	r.mu.RUnlock()
	if !ok {
		return nil, apperr.NotFound(fmt.Sprintf("audit session %s not found", id))
	}
	return domain.UnmarshalDocument(doc)
}

// Update replaces a stored session.
func (r *MemoryRepository) Update(_ context.Context, s *domain.Session) error {
	doc, err := s.MarshalDocument()
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[s.ID]; !ok {
		return apperr.NotFound(fmt.Sprintf("audit session %s not found", s.ID))
	}
	r.docs[s.ID] = doc
	return nil
}

// List returns sessions newest first.
func (r *MemoryRepository) List(_ context.Context, limit, offset int) ([]*domain.Session, error) {
	r.mu.RLock()
	sessions := make([]*domain.Session, 0, len(r.docs))
	for _, doc := range r.docs {
		s, err := domain.UnmarshalDocument(doc)
		if err != nil {
			r.mu.RUnlock()
			return nil, err
		}
		sessions = append(sessions, s)
	}
	r.mu.RUnlock()

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})

	if offset >= len(sessions) {
		return nil, nil
	}
	sessions = sessions[offset:]
	if limit > 0 && limit < len(sessions) {
		sessions = sessions[:limit]
	}
	return sessions, nil
}
