package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"energy_audit_backend/internal/adapters/storage"
	"energy_audit_backend/internal/audit/repository"
	auditservice "energy_audit_backend/internal/audit/service"
	"energy_audit_backend/internal/events"
	"energy_audit_backend/internal/exports"
	"energy_audit_backend/internal/reference"
	"energy_audit_backend/internal/scheduler"
	"energy_audit_backend/platform/config"
	"energy_audit_backend/platform/db"
	"energy_audit_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env, "queue", cfg.GetAsynqQueueName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	tables, err := reference.Load(cfg.GetReferenceTablesDir(), cfg.GetReferenceTableSet())
	if err != nil {
		log.Error("failed to load reference tables", "error", err)
		panic("failed to load reference tables: " + err.Error())
	}

	if !cfg.IsMinIOEnabled() {
		panic("worker requires object storage, MinIO is not configured")
	}
	storageSvc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}
	if err := withRetry(ctx, log, "ensure audit-reports bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, cfg.GetMinioBucketAuditReports())
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err)
		panic("failed to ensure storage bucket exists: " + err.Error())
	}

	eventBus := events.NewInMemoryBus(log)
	auditSvc := auditservice.New(repository.NewPostgres(pool), tables, eventBus, log)
	exportSvc := exports.New(auditSvc, storageSvc, cfg.GetMinioBucketAuditReports(), cfg.AppBaseURL, log)

	worker, err := scheduler.NewWorker(cfg, exportSvc, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	log.Info("worker listening for tasks")
	worker.Run(ctx)
	log.Info("worker stopped")
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
