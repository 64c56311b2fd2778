package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vendapos/venda/internal/authz"
	"github.com/vendapos/venda/internal/platform/httpx"
)

// Service is a thin CRUD layer over the authorization engine: every method
// authorizes first and then runs the scoped query through the repository.
type Service struct {
	repo       Repository
	authorizer *authz.Authorizer
}

func NewService(repo Repository, authorizer *authz.Authorizer) *Service {
	return &Service{repo: repo, authorizer: authorizer}
}

func (s *Service) List(ctx context.Context, scope authz.AccessScope, actorID string, filters ListFilters) ([]Product, error) {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleProducts, authz.OpRead, authz.Options{RequireSameTenant: true}, "", "")
	if err := decision.Err(); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, scope, filters)
}

func (s *Service) Get(ctx context.Context, scope authz.AccessScope, actorID, id string) (Product, error) {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleProducts, authz.OpRead, authz.Options{RequireSameTenant: true}, "", "")
	if err := decision.Err(); err != nil {
		return Product{}, err
	}
	return s.repo.Get(ctx, scope, id)
}

func (s *Service) Create(ctx context.Context, scope authz.AccessScope, actorID string, p Product) (Product, error) {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleProducts, authz.OpCreate, authz.Options{RequireSameTenant: true, RequireSameStore: true}, p.TenantID, p.StoreID)
	if err := decision.Err(); err != nil {
		return Product{}, err
	}
	if err := validate(p); err != nil {
		return Product{}, err
	}

	p.ID = uuid.NewString()
	if p.TenantID == "" {
		p.TenantID = scope.TenantID
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Update(ctx context.Context, scope authz.AccessScope, actorID, id string, p Product) error {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleProducts, authz.OpUpdate, authz.Options{RequireSameTenant: true, RequireSameStore: true}, p.TenantID, p.StoreID)
	if err := decision.Err(); err != nil {
		return err
	}
	if err := validate(p); err != nil {
		return err
	}
	return s.repo.Update(ctx, scope, id, p)
}

func (s *Service) Delete(ctx context.Context, scope authz.AccessScope, actorID, id string) error {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleProducts, authz.OpDelete, authz.Options{RequireSameTenant: true, RequireSameStore: true}, "", "")
	if err := decision.Err(); err != nil {
		return err
	}
	return s.repo.Delete(ctx, scope, id)
}

// AdjustStock applies a relative stock correction. Stock movements are an
// inventory capability, not a catalog write, so cashiers stay excluded
// even though they read the catalog.
func (s *Service) AdjustStock(ctx context.Context, scope authz.AccessScope, actorID, id string, delta int64) (int64, error) {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleInventory, authz.OpUpdate, authz.Options{RequireSameTenant: true}, "", "")
	if err := decision.Err(); err != nil {
		return 0, err
	}
	if delta == 0 {
		return 0, fmt.Errorf("%w: stock delta must not be zero", httpx.ErrValidation)
	}
	return s.repo.AdjustStock(ctx, scope, id, delta)
}

func validate(p Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name required", httpx.ErrValidation)
	}
	if strings.TrimSpace(p.SKU) == "" {
		return fmt.Errorf("%w: product sku required", httpx.ErrValidation)
	}
	if p.PriceCents < 0 {
		return fmt.Errorf("%w: price must not be negative", httpx.ErrValidation)
	}
	return nil
}
