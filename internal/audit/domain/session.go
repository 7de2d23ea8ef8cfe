package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"energy_audit_backend/platform/apperr"
)

// Session is one audit engagement. It starts in the contact phase and is
// mutated only through Advance; external callers never assign fields of a
// stored session directly.
type Session struct {
	ID        uuid.UUID `json:"id"`
	AuditType AuditType `json:"auditType"`
	Phase     Phase     `json:"phase"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Contact    *ContactData        `json:"contact,omitempty"`
	Meeting    *OpeningMeetingData `json:"meeting,omitempty"`
	Collection *CollectionData     `json:"collection,omitempty"`
	FieldVisit *FieldVisitData     `json:"fieldVisit,omitempty"`
	Analysis   *AnalysisResult     `json:"analysis,omitempty"`
	Report     *ReportData         `json:"report,omitempty"`
}

// NewSession creates a session in the contact phase.
func NewSession(id uuid.UUID, auditType AuditType, now time.Time) (*Session, error) {
	if !auditType.Valid() {
		return nil, apperr.Validation(fmt.Sprintf("unknown audit type %q", auditType))
	}
	return &Session{
		ID:        id,
		AuditType: auditType,
		Phase:     PhaseContact,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Advance completes the session's current phase with the given payload
// and moves to the next phase. It fails closed: a payload for any other
// phase is a conflict (phases cannot be skipped or re-entered), and a
// payload with missing requirements leaves the session untouched.
func (s *Session) Advance(payload PhasePayload, now time.Time) error {
	if s.Phase.Terminal() {
		return apperr.New(apperr.KindConflict, "audit is completed; no further transitions")
	}
	if payload.Phase() != s.Phase {
		return apperr.New(apperr.KindConflict, fmt.Sprintf(
			"payload is for phase %q but the audit is in phase %q; phases cannot be skipped or revisited",
			payload.Phase(), s.Phase))
	}
	if missing := payload.missingItems(s.AuditType); len(missing) > 0 {
		return apperr.Incomplete(fmt.Sprintf("phase %q requirements not met", s.Phase), missing)
	}

	switch p := payload.(type) {
	case ContactData:
		s.Contact = &p
	case OpeningMeetingData:
		s.Meeting = &p
	case CollectionData:
		s.Collection = &p
	case FieldVisitData:
		s.FieldVisit = &p
	case AnalysisResult:
		s.Analysis = &p
	case ReportData:
		s.Report = &p
	default:
		return apperr.Validation(fmt.Sprintf("unsupported payload type %T", payload))
	}

	next, ok := s.Phase.Next()
	if !ok {
		return apperr.New(apperr.KindConflict, fmt.Sprintf("phase %q has no successor", s.Phase))
	}
	s.Phase = next
	s.UpdatedAt = now
	return nil
}

// RequiredNextSteps lists what the current phase still needs before the
// session can advance, derived from the phase's own requirement check
// against the data accumulated so far (usually none yet).
func (s *Session) RequiredNextSteps() []string {
	var payload PhasePayload
	switch s.Phase {
	case PhaseContact:
		payload = ContactData{}
	case PhaseOpeningMeeting:
		payload = OpeningMeetingData{}
	case PhaseDataCollection:
		payload = CollectionData{}
	case PhaseFieldVisit:
		payload = FieldVisitData{}
	case PhaseAnalysis:
		payload = AnalysisResult{}
	case PhaseReporting:
		payload = ReportData{}
	default:
		return nil
	}
	return payload.missingItems(s.AuditType)
}

// MarshalDocument serializes the session to its external JSON document
// form, the shape the persistence layer stores.
func (s *Session) MarshalDocument() ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalDocument restores a session from its document form. A document
// with an unknown phase or audit type is rejected rather than loaded into
// an unreachable state.
func UnmarshalDocument(data []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "malformed audit document", err)
	}
	if !s.Phase.Valid() {
		return nil, apperr.Validation(fmt.Sprintf("audit document has unknown phase %q", s.Phase))
	}
	if !s.AuditType.Valid() {
		return nil, apperr.Validation(fmt.Sprintf("audit document has unknown audit type %q", s.AuditType))
	}
	return &s, nil
}
