package jobs

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/vendapos/venda/internal/authz"
	"github.com/vendapos/venda/internal/platform/httpx"
	"github.com/vendapos/venda/internal/webhooks"
)

type endpointRepoStub struct {
	listActiveCalls int
	lastTenantID    string
}

func (s *endpointRepoStub) List(context.Context, authz.AccessScope) ([]webhooks.Endpoint, error) {
	return nil, nil
}

func (s *endpointRepoStub) Get(context.Context, authz.AccessScope, string) (webhooks.Endpoint, error) {
	return webhooks.Endpoint{}, httpx.ErrNotFound
}

func (s *endpointRepoStub) Create(_ context.Context, e webhooks.Endpoint) (webhooks.Endpoint, error) {
	return e, nil
}

func (s *endpointRepoStub) Update(context.Context, authz.AccessScope, string, webhooks.Endpoint) error {
	return nil
}

func (s *endpointRepoStub) Delete(context.Context, authz.AccessScope, string) error {
	return nil
}

func (s *endpointRepoStub) ListActive(_ context.Context, tenantID string) ([]webhooks.Endpoint, error) {
	s.listActiveCalls++
	s.lastTenantID = tenantID
	return nil, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWebhookDeliveryTaskRoundTrip(t *testing.T) {
	task, err := NewWebhookDeliveryTask(WebhookDeliveryPayload{
		TenantID: "T1",
		Event:    webhooks.EventTransactionCreated,
		Data:     json.RawMessage(`{"id":"tx-1"}`),
	})
	require.NoError(t, err)
	require.Equal(t, TaskWebhookDeliver, task.Type())

	var payload WebhookDeliveryPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	require.Equal(t, "T1", payload.TenantID)
	require.Equal(t, webhooks.EventTransactionCreated, payload.Event)
	require.JSONEq(t, `{"id":"tx-1"}`, string(payload.Data))
}

func TestWebhookDeliverySkipsMalformedPayload(t *testing.T) {
	repo := &endpointRepoStub{}
	job := NewWebhookDeliveryJob(webhooks.NewDispatcher(repo, discardLogger()), discardLogger(), nil)

	err := job.Handle(context.Background(), asynq.NewTask(TaskWebhookDeliver, []byte("{not json")))
	require.ErrorIs(t, err, asynq.SkipRetry)
	require.Zero(t, repo.listActiveCalls)
}

func TestWebhookDeliverySkipsEmptyPayload(t *testing.T) {
	repo := &endpointRepoStub{}
	job := NewWebhookDeliveryJob(webhooks.NewDispatcher(repo, discardLogger()), discardLogger(), nil)

	body, err := json.Marshal(WebhookDeliveryPayload{Event: webhooks.EventTest})
	require.NoError(t, err)

	err = job.Handle(context.Background(), asynq.NewTask(TaskWebhookDeliver, body))
	require.ErrorIs(t, err, asynq.SkipRetry)
	require.Zero(t, repo.listActiveCalls)
}

func TestWebhookDeliveryDispatchesForTenant(t *testing.T) {
	repo := &endpointRepoStub{}
	job := NewWebhookDeliveryJob(webhooks.NewDispatcher(repo, discardLogger()), discardLogger(), nil)

	body, err := json.Marshal(WebhookDeliveryPayload{TenantID: "T1", Event: webhooks.EventTest})
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), asynq.NewTask(TaskWebhookDeliver, body)))
	require.Equal(t, 1, repo.listActiveCalls)
	require.Equal(t, "T1", repo.lastTenantID)
}

func TestAuditRetentionTaskDefaultsWindow(t *testing.T) {
	task, err := NewAuditRetentionTask(AuditRetentionPayload{})
	require.NoError(t, err)
	require.Equal(t, TaskAuditRetention, task.Type())

	var payload AuditRetentionPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	require.Zero(t, payload.RetainDays)
}
