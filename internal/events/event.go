// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"energy_audit_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// AuditCreated is published when a new audit session is opened.
type AuditCreated struct {
	BaseEvent
	AuditID   uuid.UUID `json:"auditId"`
	AuditType string    `json:"auditType"`
}

func (e AuditCreated) EventName() string { return "audit.created" }

// AuditPhaseAdvanced is published on every successful phase transition.
type AuditPhaseAdvanced struct {
	BaseEvent
	AuditID uuid.UUID `json:"auditId"`
	From    string    `json:"from"`
	To      string    `json:"to"`
}

func (e AuditPhaseAdvanced) EventName() string { return "audit.phase.advanced" }

// AuditCompleted is published when the reporting phase closes the audit.
// The scheduler picks it up to queue the report export, and the mailer to
// notify the client.
type AuditCompleted struct {
	BaseEvent
	AuditID     uuid.UUID `json:"auditId"`
	ClientEmail string    `json:"clientEmail"`
	ClientName  string    `json:"clientName"`
	ReportTitle string    `json:"reportTitle"`
	EnergyClass string    `json:"energyClass"`
}

func (e AuditCompleted) EventName() string { return "audit.completed" }
