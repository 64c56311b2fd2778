package tenants

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

func (s *Service) List(ctx context.Context, scope authz.AccessScope, actorID string) ([]Tenant, error) {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleSettings, authz.OpRead, authz.Options{}, "", "")
	if err := decision.Err(); err != nil {
		return nil, err
	}
	// The repository scopes on the id column, so a restricted caller
	// lists exactly its own tenant.
	return s.repo.List(ctx, scope)
}

func (s *Service) Get(ctx context.Context, scope authz.AccessScope, actorID, id string) (Tenant, error) {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleSettings, authz.OpRead, authz.Options{RequireSameTenant: true}, id, "")
	if err := decision.Err(); err != nil {
		return Tenant{}, err
	}
	return s.repo.Get(ctx, scope, id)
}

// Create provisions a new tenant. Only the root operator may do this; every
// other level is denied regardless of its matrix capabilities.
func (s *Service) Create(ctx context.Context, scope authz.AccessScope, actorID string, t Tenant) (Tenant, error) {
	if !scope.Unrestricted {
		return Tenant{}, authz.ErrInsufficientLevel
	}
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleSettings, authz.OpCreate, authz.Options{}, "", "")
	if err := decision.Err(); err != nil {
		return Tenant{}, err
	}
	if strings.TrimSpace(t.Name) == "" {
		return Tenant{}, fmt.Errorf("%w: tenant name required", httpx.ErrValidation)
	}

	t.ID = uuid.NewString()
	if t.Currency == "" {
		t.Currency = "IDR"
	}
	t.Active = true
	return s.repo.Create(ctx, t)
}

func (s *Service) Update(ctx context.Context, scope authz.AccessScope, actorID, id string, t Tenant) error {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleSettings, authz.OpUpdate, authz.Options{RequireSameTenant: true}, id, "")
	if err := decision.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: tenant name required", httpx.ErrValidation)
	}
	return s.repo.Update(ctx, scope, id, t)
}

// Delete removes a tenant outright. Root only, same as Create.
func (s *Service) Delete(ctx context.Context, scope authz.AccessScope, actorID, id string) error {
	if !scope.Unrestricted {
		return authz.ErrInsufficientLevel
	}
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleSettings, authz.OpDelete, authz.Options{}, "", "")
	if err := decision.Err(); err != nil {
		return err
	}
	return s.repo.Delete(ctx, scope, id)
}
