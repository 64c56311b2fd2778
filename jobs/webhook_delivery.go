package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/vendapos/venda/internal/jobs"
	"github.com/vendapos/venda/internal/webhooks"
)

// WebhookDeliveryJob processes queued webhook deliveries through the
// dispatcher.
type WebhookDeliveryJob struct {
	Dispatcher *webhooks.Dispatcher
	Logger     *slog.Logger
	Metrics    *jobmetrics.Metrics
}

// NewWebhookDeliveryJob initialises the delivery handler.
func NewWebhookDeliveryJob(dispatcher *webhooks.Dispatcher, logger *slog.Logger, metrics *jobmetrics.Metrics) *WebhookDeliveryJob {
	return &WebhookDeliveryJob{Dispatcher: dispatcher, Logger: logger, Metrics: metrics}
}

// Handle executes one delivery fan-out.
func (j *WebhookDeliveryJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Dispatcher == nil {
		return errors.New("webhook delivery: handler not configured")
	}
	var payload WebhookDeliveryPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.TenantID == "" || payload.Event == "" {
		return asynq.SkipRetry
	}

	tracker := j.Metrics.Track(TaskWebhookDeliver)
	err := j.Dispatcher.Dispatch(ctx, payload.TenantID, payload.Event, payload.Data)
	if err != nil {
		j.Logger.Warn("webhook delivery task failed",
			slog.String("tenant_id", payload.TenantID),
			slog.String("event", payload.Event),
			slog.Any("error", err))
	}
	return tracker.End(err)
}
