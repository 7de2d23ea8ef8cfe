// Package domain holds the audit session model and its six-phase
// workflow per STN EN 16247: contact, opening meeting, data collection,
// field visit, analysis, reporting. Transitions are strictly forward and
// fail closed when a phase's requirements are not met.
package domain

import (
	"fmt"

	"energy_audit_backend/platform/apperr"
)

// Phase is one stage of the audit workflow.
type Phase string

const (
	PhaseContact        Phase = "contact"
	PhaseOpeningMeeting Phase = "opening_meeting"
	PhaseDataCollection Phase = "data_collection"
	PhaseFieldVisit     Phase = "field_visit"
	PhaseAnalysis       Phase = "analysis"
	PhaseReporting      Phase = "reporting"
	PhaseCompleted      Phase = "completed"
)

// phaseOrder is the forward-only transition sequence. There are no
// backward edges: correcting earlier-phase data means a new audit.
var phaseOrder = []Phase{
	PhaseContact,
	PhaseOpeningMeeting,
	PhaseDataCollection,
	PhaseFieldVisit,
	PhaseAnalysis,
	PhaseReporting,
	PhaseCompleted,
}

// Index returns the position of the phase in the workflow, or -1.
func (p Phase) Index() int {
	for i, candidate := range phaseOrder {
		if candidate == p {
			return i
		}
	}
	return -1
}

// Valid reports whether p is a workflow phase.
func (p Phase) Valid() bool {
	return p.Index() >= 0
}

// Next returns the phase that follows p. The second result is false for
// the terminal phase and for unknown phases.
func (p Phase) Next() (Phase, bool) {
	i := p.Index()
	if i < 0 || i+1 >= len(phaseOrder) {
		return "", false
	}
	return phaseOrder[i+1], true
}

// Terminal reports whether the workflow has finished.
func (p Phase) Terminal() bool {
	return p == PhaseCompleted
}

// AuditType selects the qualification requirements of the audit.
type AuditType string

const (
	AuditBuilding  AuditType = "building"
	AuditIndustry  AuditType = "industry"
	AuditTransport AuditType = "transport"
)

// minExperienceYears is the auditor experience floor per audit type.
var minExperienceYears = map[AuditType]int{
	AuditBuilding:  2,
	AuditIndustry:  3,
	AuditTransport: 2,
}

// Valid reports whether t is a known audit type.
func (t AuditType) Valid() bool {
	_, ok := minExperienceYears[t]
	return ok
}

// MinExperienceYears returns the experience floor for the audit type.
func (t AuditType) MinExperienceYears() (int, error) {
	years, ok := minExperienceYears[t]
	if !ok {
		return 0, apperr.Validation(fmt.Sprintf("unknown audit type %q", t))
	}
	return years, nil
}
