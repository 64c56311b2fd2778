package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/vendapos/venda/internal/audit"
	jobmetrics "github.com/vendapos/venda/internal/jobs"
)

const defaultAuditRetentionDays = 90

// AuditRetentionJob prunes authorization audit records past the retention
// window. Runs on a cron schedule.
type AuditRetentionJob struct {
	Audit   *audit.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewAuditRetentionJob initialises the retention handler.
func NewAuditRetentionJob(svc *audit.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *AuditRetentionJob {
	return &AuditRetentionJob{
		Audit:   svc,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle removes records older than the configured window.
func (j *AuditRetentionJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Audit == nil {
		return errors.New("audit retention: handler not configured")
	}
	var payload AuditRetentionPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.RetainDays <= 0 {
		payload.RetainDays = defaultAuditRetentionDays
	}

	cutoff := j.clock().AddDate(0, 0, -payload.RetainDays)
	tracker := j.Metrics.Track(TaskAuditRetention)
	removed, err := j.Audit.DeleteOlderThan(ctx, cutoff)
	if err == nil {
		j.Logger.Info("audit retention pass",
			slog.Int64("removed", removed),
			slog.Time("cutoff", cutoff))
	}
	return tracker.End(err)
}
