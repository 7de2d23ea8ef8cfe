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
	"energy_audit_backend/internal/audit"
	"energy_audit_backend/internal/auth"
	"energy_audit_backend/internal/calculations"
	"energy_audit_backend/internal/email"
	"energy_audit_backend/internal/events"
	"energy_audit_backend/internal/exports"
	apphttp "energy_audit_backend/internal/http"
	"energy_audit_backend/internal/http/router"
	"energy_audit_backend/internal/notification"
	"energy_audit_backend/internal/reference"
	"energy_audit_backend/internal/scheduler"
	"energy_audit_backend/migrations"
	"energy_audit_backend/platform/config"
	"energy_audit_backend/platform/db"
	"energy_audit_backend/platform/logger"
	"energy_audit_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

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
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// National reference tables (conversion factors, class bands, climate)
	tables, err := reference.Load(cfg.GetReferenceTablesDir(), cfg.GetReferenceTableSet())
	if err != nil {
		log.Error("failed to load reference tables", "error", err)
		panic("failed to load reference tables: " + err.Error())
	}
	log.Info("reference tables loaded", "set", tables.Name)

	// Email sender for client notifications
	var sender email.Sender = email.NoopSender{}
	if cfg.GetEmailEnabled() {
		sender = email.NewSMTPSender(cfg)
		log.Info("email sender initialized", "host", cfg.GetSMTPHost())
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationSvc := notification.New(sender, log)
	notificationSvc.Subscribe(eventBus)

	authModule := auth.NewModule(pool, cfg, val, log)
	auditModule := audit.NewModule(pool, tables, eventBus, val, log)

	modules := []apphttp.Module{
		authModule,
		auditModule,
		calculations.NewModule(tables, val),
	}

	// Report exports require object storage
	if cfg.IsMinIOEnabled() {
		storageSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		ensureBucket(ctx, log, storageSvc, "audit-reports", cfg.GetMinioBucketAuditReports())
		log.Info("storage service initialized", "auditReportsBucket", cfg.GetMinioBucketAuditReports())

		exportSvc := exports.New(auditModule.Service(), storageSvc, cfg.GetMinioBucketAuditReports(), cfg.AppBaseURL, log)
		modules = append(modules, exports.NewModule(exportSvc))
	}

	// Background export queue (handled by cmd/worker)
	if cfg.GetRedisURL() != "" {
		schedulerClient, err := scheduler.NewClient(cfg)
		if err != nil {
			log.Error("failed to initialize scheduler client", "error", err)
			panic("failed to initialize scheduler client: " + err.Error())
		}
		defer schedulerClient.Close()
		schedulerClient.Subscribe(eventBus, log)
		log.Info("scheduler client initialized", "queue", cfg.GetAsynqQueueName())
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules:  modules,
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// ensureBucket wraps the retry logic for verifying a MinIO bucket exists.
func ensureBucket(ctx context.Context, log *logger.Logger, storageSvc *storage.MinIOService, name, bucket string) {
	if err := withRetry(ctx, log, "ensure "+name+" bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", bucket)
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
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
