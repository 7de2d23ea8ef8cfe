package email

const subjectAuditCompletedFmt = "Your energy audit report is ready: %s"
