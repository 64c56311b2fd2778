package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"

	// TaskWebhookDeliver fans one tenant event out to its registered
	// webhook endpoints.
	TaskWebhookDeliver = "webhook:deliver"

	// TaskAuditRetention prunes old authorization audit records.
	TaskAuditRetention = "audit:retention"
)

// WebhookDeliveryPayload identifies the event to deliver. The endpoint list
// is resolved at processing time so late registrations still receive
// retried deliveries.
type WebhookDeliveryPayload struct {
	TenantID string          `json:"tenant_id"`
	Event    string          `json:"event"`
	Data     json.RawMessage `json:"data"`
}

// NewWebhookDeliveryTask constructs an Asynq task for a webhook delivery.
func NewWebhookDeliveryTask(payload WebhookDeliveryPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWebhookDeliver, body, asynq.Queue(QueueDefault), asynq.MaxRetry(5)), nil
}

// AuditRetentionPayload configures the pruning window.
type AuditRetentionPayload struct {
	RetainDays int `json:"retain_days"`
}

// NewAuditRetentionTask constructs an Asynq task for audit log pruning.
func NewAuditRetentionTask(payload AuditRetentionPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditRetention, body, asynq.Queue(QueueDefault)), nil
}
