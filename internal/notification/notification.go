// Package notification sends notifications in response to domain events.
// It subscribes to the event bus and inverts the dependency: the audit module
// does not need to know about email providers or templates.
package notification

import (
	"context"

	"energy_audit_backend/internal/email"
	"energy_audit_backend/internal/events"
	"energy_audit_backend/platform/logger"
)

// Service wires domain events to outgoing notifications.
type Service struct {
	sender email.Sender
	log    *logger.Logger
}

func New(sender email.Sender, log *logger.Logger) *Service {
	return &Service{sender: sender, log: log}
}

// Subscribe registers the notification handlers on the event bus.
func (s *Service) Subscribe(bus events.Bus) {
	bus.Subscribe(events.AuditCompleted{}.EventName(), events.HandlerFunc(s.onAuditCompleted))
}

func (s *Service) onAuditCompleted(ctx context.Context, event events.Event) error {
	e, ok := event.(events.AuditCompleted)
	if !ok {
		return nil
	}
	if e.ClientEmail == "" {
		s.log.Warn("audit completed without client email, skipping notification", "auditId", e.AuditID)
		return nil
	}

	err := s.sender.SendAuditCompletedEmail(ctx, e.ClientEmail, e.ClientName, e.ReportTitle, e.EnergyClass)
	if err != nil {
		s.log.Error("audit completion email failed", "error", err, "auditId", e.AuditID)
		return err
	}
	s.log.Info("audit completion email sent", "auditId", e.AuditID)
	return nil
}
