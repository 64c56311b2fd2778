package suppliers

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

func (s *Service) List(ctx context.Context, scope authz.AccessScope, actorID, search string) ([]Supplier, error) {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleSuppliers, authz.OpRead, authz.Options{RequireSameTenant: true}, "", "")
	if err := decision.Err(); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, scope, search)
}

func (s *Service) Get(ctx context.Context, scope authz.AccessScope, actorID, id string) (Supplier, error) {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleSuppliers, authz.OpRead, authz.Options{RequireSameTenant: true}, "", "")
	if err := decision.Err(); err != nil {
		return Supplier{}, err
	}
	return s.repo.Get(ctx, scope, id)
}

func (s *Service) Create(ctx context.Context, scope authz.AccessScope, actorID string, sup Supplier) (Supplier, error) {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleSuppliers, authz.OpCreate, authz.Options{RequireSameTenant: true}, sup.TenantID, "")
	if err := decision.Err(); err != nil {
		return Supplier{}, err
	}
	if err := validate(sup); err != nil {
		return Supplier{}, err
	}

	sup.ID = uuid.NewString()
	if sup.TenantID == "" {
		sup.TenantID = scope.TenantID
	}
	return s.repo.Create(ctx, sup)
}

func (s *Service) Update(ctx context.Context, scope authz.AccessScope, actorID, id string, sup Supplier) error {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleSuppliers, authz.OpUpdate, authz.Options{RequireSameTenant: true}, sup.TenantID, "")
	if err := decision.Err(); err != nil {
		return err
	}
	if err := validate(sup); err != nil {
		return err
	}
	return s.repo.Update(ctx, scope, id, sup)
}

func (s *Service) Delete(ctx context.Context, scope authz.AccessScope, actorID, id string) error {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleSuppliers, authz.OpDelete, authz.Options{RequireSameTenant: true}, "", "")
	if err := decision.Err(); err != nil {
		return err
	}
	return s.repo.Delete(ctx, scope, id)
}

func validate(s Supplier) error {
	if strings.TrimSpace(s.Code) == "" {
		return fmt.Errorf("%w: supplier code required", httpx.ErrValidation)
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: supplier name required", httpx.ErrValidation)
	}
	return nil
}
