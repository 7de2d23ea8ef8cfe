package scheduler

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisClientOptConnects(t *testing.T) {
	srv := miniredis.RunT(t)

	opt, err := redisClientOpt("redis://"+srv.Addr(), false)
	if err != nil {
		t.Fatalf("redisClientOpt: %v", err)
	}
	if opt.Addr != srv.Addr() {
		t.Fatalf("addr = %q, want %q", opt.Addr, srv.Addr())
	}
	if opt.TLSConfig != nil {
		t.Fatalf("expected no TLS config for plain redis URL")
	}

	client := redis.NewClient(&redis.Options{Addr: opt.Addr, Password: opt.Password, DB: opt.DB})
	defer client.Close()
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestRedisClientOptTLSInsecure(t *testing.T) {
	opt, err := redisClientOpt("rediss://example.com:6380", true)
	if err != nil {
		t.Fatalf("redisClientOpt: %v", err)
	}
	if opt.TLSConfig == nil || !opt.TLSConfig.InsecureSkipVerify {
		t.Fatalf("expected insecure TLS config, got %+v", opt.TLSConfig)
	}
}

func TestRedisClientOptRejectsBadURL(t *testing.T) {
	if _, err := redisClientOpt("not a url", false); err == nil {
		t.Fatal("expected error for malformed redis url")
	}
}

func TestExportTaskPayloadRoundTrip(t *testing.T) {
	task, err := NewExportAuditReportTask(ExportAuditReportPayload{AuditID: "3b5a4f2e-0000-4000-8000-000000000001"})
	if err != nil {
		t.Fatalf("NewExportAuditReportTask: %v", err)
	}
	if task.Type() != TaskExportAuditReport {
		t.Fatalf("task type = %q, want %q", task.Type(), TaskExportAuditReport)
	}

	payload, err := ParseExportAuditReportPayload(task)
	if err != nil {
		t.Fatalf("ParseExportAuditReportPayload: %v", err)
	}
	if payload.AuditID != "3b5a4f2e-0000-4000-8000-000000000001" {
		t.Fatalf("auditId = %q", payload.AuditID)
	}
}

func TestBacklogTaskPayloadRoundTrip(t *testing.T) {
	ids := []string{"a", "b", "c"}
	task, err := NewExportBacklogTask(ExportBacklogPayload{AuditIDs: ids})
	if err != nil {
		t.Fatalf("NewExportBacklogTask: %v", err)
	}

	payload, err := ParseExportBacklogPayload(task)
	if err != nil {
		t.Fatalf("ParseExportBacklogPayload: %v", err)
	}
	if len(payload.AuditIDs) != 3 || payload.AuditIDs[2] != "c" {
		t.Fatalf("auditIds = %v", payload.AuditIDs)
	}
}
