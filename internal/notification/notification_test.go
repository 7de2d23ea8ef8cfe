package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"energy_audit_backend/internal/email"
	"energy_audit_backend/internal/events"
	platformevents "energy_audit_backend/platform/events"
	"energy_audit_backend/platform/logger"
)

type sentMail struct {
	to          string
	clientName  string
	reportTitle string
	energyClass string
}

type fakeSender struct {
	sent []sentMail
}

func (f *fakeSender) SendAuditCompletedEmail(_ context.Context, toEmail, clientName, reportTitle, energyClass string, _ ...email.Attachment) error {
	f.sent = append(f.sent, sentMail{to: toEmail, clientName: clientName, reportTitle: reportTitle, energyClass: energyClass})
	return nil
}

func TestAuditCompletedSendsEmail(t *testing.T) {
	log := logger.New("test")
	bus := platformevents.NewInMemoryBus(log)
	sender := &fakeSender{}

	New(sender, log).Subscribe(bus)

	auditID := uuid.New()
	err := bus.PublishSync(context.Background(), events.AuditCompleted{
		BaseEvent:   events.NewBaseEvent(),
		AuditID:     auditID,
		ClientEmail: "owner@example.com",
		ClientName:  "Jana Kovacova",
		ReportTitle: "Family house audit 2026",
		EnergyClass: "C",
	})
	if err != nil {
		t.Fatalf("PublishSync: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(sender.sent))
	}
	mail := sender.sent[0]
	if mail.to != "owner@example.com" || mail.energyClass != "C" || mail.reportTitle != "Family house audit 2026" {
		t.Fatalf("unexpected mail %+v", mail)
	}
}

func TestAuditCompletedWithoutEmailIsSkipped(t *testing.T) {
	log := logger.New("test")
	bus := platformevents.NewInMemoryBus(log)
	sender := &fakeSender{}

	New(sender, log).Subscribe(bus)

	err := bus.PublishSync(context.Background(), events.AuditCompleted{
		BaseEvent: events.NewBaseEvent(),
		AuditID:   uuid.New(),
	})
	if err != nil {
		t.Fatalf("PublishSync: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("sent %d emails, want 0", len(sender.sent))
	}
}

func TestOtherEventsIgnored(t *testing.T) {
	log := logger.New("test")
	bus := platformevents.NewInMemoryBus(log)
	sender := &fakeSender{}

	New(sender, log).Subscribe(bus)

	err := bus.PublishSync(context.Background(), events.AuditCreated{
		BaseEvent: events.NewBaseEvent(),
		AuditID:   uuid.New(),
		AuditType: "building",
	})
	if err != nil {
		t.Fatalf("PublishSync: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("sent %d emails, want 0", len(sender.sent))
	}
}
