package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskExportAuditReport = "audits.export_report"

const TaskExportBacklog = "audits.export_backlog"

type ExportAuditReportPayload struct {
	AuditID string `json:"auditId"`
}

type ExportBacklogPayload struct {
	AuditIDs []string `json:"auditIds"`
}

func NewExportAuditReportTask(payload ExportAuditReportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskExportAuditReport, data), nil
}

func ParseExportAuditReportPayload(task *asynq.Task) (ExportAuditReportPayload, error) {
	var payload ExportAuditReportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ExportAuditReportPayload{}, err
	}
	return payload, nil
}

func NewExportBacklogTask(payload ExportBacklogPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskExportBacklog, data), nil
}

func ParseExportBacklogPayload(task *asynq.Task) (ExportBacklogPayload, error) {
	var payload ExportBacklogPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ExportBacklogPayload{}, err
	}
	return payload, nil
}
