// Package scheduler enqueues and processes background jobs via asynq.
package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"energy_audit_backend/internal/events"
	"energy_audit_backend/platform/config"
	"energy_audit_backend/platform/logger"
)

type Client struct {
	client *asynq.Client
	queue  string
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
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

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueExportReport schedules the report export job for a completed audit.
func (c *Client) EnqueueExportReport(ctx context.Context, auditID string) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewExportAuditReportTask(ExportAuditReportPayload{AuditID: auditID})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.MaxRetry(5))
	return err
}

// Subscribe enqueues an export job whenever an audit completes.
func (c *Client) Subscribe(bus events.Bus, log *logger.Logger) {
	bus.Subscribe(events.AuditCompleted{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.AuditCompleted)
		if !ok {
			return nil
		}
		if err := c.EnqueueExportReport(ctx, e.AuditID.String()); err != nil {
			log.Error("enqueue report export failed", "error", err, "auditId", e.AuditID)
			return err
		}
		return nil
	}))
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
