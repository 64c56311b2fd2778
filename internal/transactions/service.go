package transactions

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vendapos/venda/internal/authz"
	"github.com/vendapos/venda/internal/platform/httpx"
	"github.com/vendapos/venda/internal/webhooks"
)

// EventSink queues domain events for webhook delivery. Satisfied by the
// webhooks service; nil disables emission.
type EventSink interface {
	Emit(ctx context.Context, tenantID, event string, data json.RawMessage) error
}

// Service is the point-of-sale CRUD layer. Cashiers hold full CRUD on this
// module but stay confined to their own store: every operation carries the
// same-store requirement and every repository call is store-scoped.
type Service struct {
	repo       Repository
	authorizer *authz.Authorizer
	events     EventSink
	logger     *slog.Logger
}

func NewService(repo Repository, authorizer *authz.Authorizer, events EventSink, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, authorizer: authorizer, events: events, logger: logger}
}

func (s *Service) List(ctx context.Context, scope authz.AccessScope, actorID string, filters ListFilters) ([]Transaction, error) {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleTransactions, authz.OpRead, authz.Options{RequireSameTenant: true, RequireSameStore: true}, "", "")
	if err := decision.Err(); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, scope, filters)
}

func (s *Service) Get(ctx context.Context, scope authz.AccessScope, actorID, id string) (Transaction, error) {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleTransactions, authz.OpRead, authz.Options{RequireSameTenant: true, RequireSameStore: true}, "", "")
	if err := decision.Err(); err != nil {
		return Transaction{}, err
	}
	return s.repo.Get(ctx, scope, id)
}

// Create records a sale. The target tenant and store claimed in the
// request body are checked against the scope before anything is persisted;
// an empty claim defaults to the scope's own values, so only the
// unrestricted operator ever writes a row for a tenant it does not carry.
func (s *Service) Create(ctx context.Context, scope authz.AccessScope, actorID string, tx Transaction) (Transaction, error) {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleTransactions, authz.OpCreate, authz.Options{RequireSameTenant: true, RequireSameStore: true}, tx.TenantID, tx.StoreID)
	if err := decision.Err(); err != nil {
		return Transaction{}, err
	}
	if len(tx.Lines) == 0 {
		return Transaction{}, fmt.Errorf("%w: transaction requires at least one line", httpx.ErrValidation)
	}
	for _, line := range tx.Lines {
		if line.Qty <= 0 || line.PriceCents < 0 {
			return Transaction{}, fmt.Errorf("%w: invalid line qty or price", httpx.ErrValidation)
		}
	}

	tx.ID = uuid.NewString()
	if tx.TenantID == "" {
		tx.TenantID = scope.TenantID
	}
	if tx.StoreID == "" {
		tx.StoreID = scope.StoreID
	}
	if tx.StoreID == "" {
		return Transaction{}, fmt.Errorf("%w: store id required", httpx.ErrValidation)
	}
	tx.CashierID = actorID
	tx.Status = StatusPaid
	if tx.Currency == "" {
		tx.Currency = "IDR"
	}
	tx.TotalCents = tx.Total()
	created, err := s.repo.Create(ctx, tx)
	if err != nil {
		return Transaction{}, err
	}
	s.emit(ctx, created, webhooks.EventTransactionCreated)
	return created, nil
}

// Void marks a sale as voided; voiding is an update on this module.
func (s *Service) Void(ctx context.Context, scope authz.AccessScope, actorID, id string) error {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleTransactions, authz.OpUpdate, authz.Options{RequireSameTenant: true, RequireSameStore: true}, "", "")
	if err := decision.Err(); err != nil {
		return err
	}
	if err := s.repo.SetStatus(ctx, scope, id, StatusVoided); err != nil {
		return err
	}
	// Re-read so the event carries the row's own tenant, not the reserved
	// id an unrestricted scope would stamp.
	tx, err := s.repo.Get(ctx, scope, id)
	if err != nil {
		tx = Transaction{ID: id, TenantID: scope.TenantID, Status: StatusVoided}
	}
	s.emit(ctx, tx, webhooks.EventTransactionVoided)
	return nil
}

// emit queues a webhook delivery. The state change is already committed, so
// an enqueue failure must not fail the request; the queue's retries cover
// transient outages once the task is accepted. A failed enqueue is lost for
// good, so it is at least logged.
func (s *Service) emit(ctx context.Context, tx Transaction, event string) {
	if s.events == nil {
		return
	}
	data, err := json.Marshal(tx)
	if err != nil {
		return
	}
	if err := s.events.Emit(ctx, tx.TenantID, event, data); err != nil {
		s.logger.Warn("webhook enqueue failed",
			slog.String("event", event),
			slog.String("tenant_id", tx.TenantID),
			slog.String("transaction_id", tx.ID),
			slog.Any("error", err))
	}
}

// Receipt renders the receipt for one visible transaction.
func (s *Service) Receipt(ctx context.Context, scope authz.AccessScope, actorID, id string) (string, error) {
	tx, err := s.Get(ctx, scope, actorID, id)
	if err != nil {
		return "", err
	}
	return FormatReceipt(tx), nil
}
