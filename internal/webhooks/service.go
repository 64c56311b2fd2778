package webhooks

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/vendapos/venda/internal/authz"
	"github.com/vendapos/venda/internal/platform/httpx"
)

// Enqueuer hands a delivery off to the background queue. Implemented by the
// jobs client; kept as an interface so service tests can capture enqueues.
type Enqueuer interface {
	EnqueueWebhookDelivery(ctx context.Context, tenantID, event string, data json.RawMessage) error
}

type Service struct {
	repo       Repository
	authorizer *authz.Authorizer
	queue      Enqueuer
}

func NewService(repo Repository, authorizer *authz.Authorizer, queue Enqueuer) *Service {
	return &Service{repo: repo, authorizer: authorizer, queue: queue}
}

func (s *Service) List(ctx context.Context, scope authz.AccessScope, actorID string) ([]Endpoint, error) {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleSettings, authz.OpRead, authz.Options{RequireSameTenant: true}, "", "")
	if err := decision.Err(); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, scope)
}

func (s *Service) Get(ctx context.Context, scope authz.AccessScope, actorID, id string) (Endpoint, error) {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleSettings, authz.OpRead, authz.Options{RequireSameTenant: true}, "", "")
	if err := decision.Err(); err != nil {
		return Endpoint{}, err
	}
	return s.repo.Get(ctx, scope, id)
}

// Create registers an endpoint and returns it along with the generated
// signing secret. The secret is only ever shown once.
func (s *Service) Create(ctx context.Context, scope authz.AccessScope, actorID string, e Endpoint) (Endpoint, string, error) {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleSettings, authz.OpCreate, authz.Options{RequireSameTenant: true}, e.TenantID, "")
	if err := decision.Err(); err != nil {
		return Endpoint{}, "", err
	}
	if err := validateURL(e.URL); err != nil {
		return Endpoint{}, "", err
	}

	secret, err := newSecret()
	if err != nil {
		return Endpoint{}, "", err
	}

	e.ID = uuid.NewString()
	if e.TenantID == "" {
		e.TenantID = scope.TenantID
	}
	e.Secret = secret
	e.Active = true

	created, err := s.repo.Create(ctx, e)
	if err != nil {
		return Endpoint{}, "", err
	}
	return created, secret, nil
}

func (s *Service) Update(ctx context.Context, scope authz.AccessScope, actorID, id string, e Endpoint) error {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleSettings, authz.OpUpdate, authz.Options{RequireSameTenant: true}, e.TenantID, "")
	if err := decision.Err(); err != nil {
		return err
	}
	if err := validateURL(e.URL); err != nil {
		return err
	}
	return s.repo.Update(ctx, scope, id, e)
}

func (s *Service) Delete(ctx context.Context, scope authz.AccessScope, actorID, id string) error {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleSettings, authz.OpDelete, authz.Options{RequireSameTenant: true}, "", "")
	if err := decision.Err(); err != nil {
		return err
	}
	return s.repo.Delete(ctx, scope, id)
}

// Test enqueues a webhook.test delivery for the caller's tenant so an
// operator can verify an endpoint end to end.
func (s *Service) Test(ctx context.Context, scope authz.AccessScope, actorID, id string) error {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleSettings, authz.OpUpdate, authz.Options{RequireSameTenant: true}, "", "")
	if err := decision.Err(); err != nil {
		return err
	}
	ep, err := s.repo.Get(ctx, scope, id)
	if err != nil {
		return err
	}
	data, _ := json.Marshal(map[string]string{"endpoint_id": ep.ID})
	return s.queue.EnqueueWebhookDelivery(ctx, ep.TenantID, EventTest, data)
}

// Emit queues a delivery for a domain event. Called by feature services after
// a successful state change; the tenant id comes from their scope.
func (s *Service) Emit(ctx context.Context, tenantID, event string, data json.RawMessage) error {
	if s.queue == nil {
		return nil
	}
	return s.queue.EnqueueWebhookDelivery(ctx, tenantID, event, data)
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return fmt.Errorf("%w: endpoint url must be absolute http(s)", httpx.ErrValidation)
	}
	return nil
}

func newSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "whsec_" + hex.EncodeToString(buf), nil
}
