package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"energy_audit_backend/internal/exports"
	"energy_audit_backend/platform/config"
	"energy_audit_backend/platform/logger"
)

// exportBacklogConcurrency bounds parallel exports within one backlog task.
const exportBacklogConcurrency = 4

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	exporter *exports.Service
	log      *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, exporter *exports.Service, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		exporter: exporter,
		log:      log,
	}

	mux.HandleFunc(TaskExportAuditReport, w.handleExportReport)
	mux.HandleFunc(TaskExportBacklog, w.handleExportBacklog)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleExportReport(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseExportAuditReportPayload(task)
	if err != nil {
		return err
	}

	auditID, err := uuid.Parse(payload.AuditID)
	if err != nil {
		return err
	}

	export, err := w.exporter.ExportReport(ctx, auditID)
	if err != nil {
		w.log.Error("report export failed", "error", err, "auditId", auditID)
		return err
	}

	w.log.Info("report export finished", "auditId", auditID, "documentKey", export.DocumentKey)
	return nil
}

// handleExportBacklog re-exports a batch of audits, a bounded number at a time.
func (w *Worker) handleExportBacklog(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseExportBacklogPayload(task)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(exportBacklogConcurrency)

	for _, raw := range payload.AuditIDs {
		auditID, err := uuid.Parse(raw)
		if err != nil {
			w.log.Warn("skipping malformed audit id in backlog", "auditId", raw)
			continue
		}

		g.Go(func() error {
			if _, err := w.exporter.ExportReport(gctx, auditID); err != nil {
				w.log.Error("backlog export failed", "error", err, "auditId", auditID)
				return err
			}
			return nil
		})
	}

	return g.Wait()
}
