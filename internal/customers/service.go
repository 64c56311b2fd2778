package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vendapos/venda/internal/authz"
	"github.com/vendapos/venda/internal/platform/httpx"
)

type Service struct {
	repo       Repository
	authorizer *authz.Authorizer
}

func NewService(repo Repository, authorizer *authz.Authorizer) *Service {
	return &Service{repo: repo, authorizer: authorizer}
}

func (s *Service) List(ctx context.Context, scope authz.AccessScope, actorID, search string) ([]Customer, error) {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleCustomers, authz.OpRead, authz.Options{RequireSameTenant: true}, "", "")
	if err := decision.Err(); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, scope, search)
}

func (s *Service) Get(ctx context.Context, scope authz.AccessScope, actorID, id string) (Customer, error) {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleCustomers, authz.OpRead, authz.Options{RequireSameTenant: true}, "", "")
	if err := decision.Err(); err != nil {
		return Customer{}, err
	}
	return s.repo.Get(ctx, scope, id)
}

func (s *Service) Create(ctx context.Context, scope authz.AccessScope, actorID string, c Customer) (Customer, error) {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleCustomers, authz.OpCreate, authz.Options{RequireSameTenant: true}, c.TenantID, "")
	if err := decision.Err(); err != nil {
		return Customer{}, err
	}
	if strings.TrimSpace(c.Name) == "" {
		return Customer{}, fmt.Errorf("%w: customer name required", httpx.ErrValidation)
	}

	c.ID = uuid.NewString()
	if c.TenantID == "" {
		c.TenantID = scope.TenantID
	}
	return s.repo.Create(ctx, c)
}

func (s *Service) Update(ctx context.Context, scope authz.AccessScope, actorID, id string, c Customer) error {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleCustomers, authz.OpUpdate, authz.Options{RequireSameTenant: true}, c.TenantID, "")
	if err := decision.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: customer name required", httpx.ErrValidation)
	}
	return s.repo.Update(ctx, scope, id, c)
}

func (s *Service) Delete(ctx context.Context, scope authz.AccessScope, actorID, id string) error {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleCustomers, authz.OpDelete, authz.Options{RequireSameTenant: true}, "", "")
	if err := decision.Err(); err != nil {
		return err
	}
	return s.repo.Delete(ctx, scope, id)
}
