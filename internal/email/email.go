// Package email delivers audit notifications over SMTP.
package email

import "context"

// Attachment is a file attached to an outgoing message.
type Attachment struct {
	FileName string
	Content  []byte
}

// Sender delivers audit-related emails.
type Sender interface {
	// SendAuditCompletedEmail notifies the client that their audit report is ready.
	SendAuditCompletedEmail(ctx context.Context, toEmail, clientName, reportTitle, energyClass string, attachments ...Attachment) error
}

// NoopSender is used when email delivery is disabled.
type NoopSender struct{}

func (NoopSender) SendAuditCompletedEmail(context.Context, string, string, string, string, ...Attachment) error {
	return nil
}
