package webhooks

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	deliveryTimeout  = 10 * time.Second
	maxParallelPosts = 4

	headerSignature = "X-Venda-Signature"
	headerEvent     = "X-Venda-Event"
)

// Payload is the body delivered to every subscribed endpoint.
type Payload struct {
	Event      string          `json:"event"`
	TenantID   string          `json:"tenant_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// Dispatcher fans a single event out to every active subscribed endpoint of
// a tenant. It runs on the worker, fed by queued delivery tasks.
type Dispatcher struct {
	repo   Repository
	client *http.Client
	logger *slog.Logger
}

func NewDispatcher(repo Repository, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		repo:   repo,
		client: &http.Client{Timeout: deliveryTimeout},
		logger: logger,
	}
}

// Dispatch posts the event to all matching endpoints concurrently. A failed
// endpoint does not stop the others; the first error is returned so the queue
// retries the whole task (deliveries are idempotent on the receiver side via
// the signature + event id convention).
func (d *Dispatcher) Dispatch(ctx context.Context, tenantID, event string, data json.RawMessage) error {
	endpoints, err := d.repo.ListActive(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("webhooks: list endpoints: %w", err)
	}

	body, err := json.Marshal(Payload{
		Event:      event,
		TenantID:   tenantID,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	})
	if err != nil {
		return fmt.Errorf("webhooks: encode payload: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelPosts)
	for _, ep := range endpoints {
		if !ep.Subscribed(event) {
			continue
		}
		g.Go(func() error {
			if err := d.deliver(ctx, ep, event, body); err != nil {
				d.logger.Warn("webhook delivery failed",
					slog.String("endpoint_id", ep.ID),
					slog.String("tenant_id", tenantID),
					slog.String("event", event),
					slog.Any("error", err))
				return err
			}
			d.logger.Debug("webhook delivered",
				slog.String("endpoint_id", ep.ID),
				slog.String("event", event))
			return nil
		})
	}
	return g.Wait()
}

func (d *Dispatcher) deliver(ctx context.Context, ep Endpoint, event string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerEvent, event)
	req.Header.Set(headerSignature, Sign(ep.Secret, body))

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("endpoint returned %d", resp.StatusCode)
	}
	return nil
}

// Sign computes the hex HMAC-SHA256 of body under the endpoint secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
