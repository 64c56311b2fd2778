package stores

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

func (s *Service) List(ctx context.Context, scope authz.AccessScope, actorID string) ([]Store, error) {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleSettings, authz.OpRead, authz.Options{RequireSameTenant: true}, "", "")
	if err := decision.Err(); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, scope)
}

func (s *Service) Get(ctx context.Context, scope authz.AccessScope, actorID, id string) (Store, error) {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleSettings, authz.OpRead, authz.Options{RequireSameTenant: true}, "", "")
	if err := decision.Err(); err != nil {
		return Store{}, err
	}
	return s.repo.Get(ctx, scope, id)
}

func (s *Service) Create(ctx context.Context, scope authz.AccessScope, actorID string, st Store) (Store, error) {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleSettings, authz.OpCreate, authz.Options{RequireSameTenant: true}, st.TenantID, "")
	if err := decision.Err(); err != nil {
		return Store{}, err
	}
	if strings.TrimSpace(st.Name) == "" {
		return Store{}, fmt.Errorf("%w: store name required", httpx.ErrValidation)
	}

	st.ID = uuid.NewString()
	if st.TenantID == "" {
		st.TenantID = scope.TenantID
	}
	st.Active = true
	return s.repo.Create(ctx, st)
}

func (s *Service) Update(ctx context.Context, scope authz.AccessScope, actorID, id string, st Store) error {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleSettings, authz.OpUpdate, authz.Options{RequireSameTenant: true}, st.TenantID, "")
	if err := decision.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(st.Name) == "" {
		return fmt.Errorf("%w: store name required", httpx.ErrValidation)
	}
	return s.repo.Update(ctx, scope, id, st)
}

func (s *Service) Delete(ctx context.Context, scope authz.AccessScope, actorID, id string) error {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleSettings, authz.OpDelete, authz.Options{RequireSameTenant: true}, "", "")
	if err := decision.Err(); err != nil {
		return err
	}
	return s.repo.Delete(ctx, scope, id)
}
