package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vendapos/venda/internal/authz"
	"github.com/vendapos/venda/internal/platform/httpx"
)

// Service manages accounts within a tenant. Deactivation rather than row
// deletion is the delete operation of this module: a deactivated account
// fails the liveness check on its next request, so revocation takes effect
// before token expiry.
type Service struct {
	repo       Repository
	authorizer *authz.Authorizer
}

func NewService(repo Repository, authorizer *authz.Authorizer) *Service {
	return &Service{repo: repo, authorizer: authorizer}
}

func (s *Service) List(ctx context.Context, scope authz.AccessScope, actorID string) ([]User, error) {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleUsers, authz.OpRead, authz.Options{RequireSameTenant: true}, "", "")
	if err := decision.Err(); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, scope)
}

func (s *Service) Get(ctx context.Context, scope authz.AccessScope, actorID, id string) (User, error) {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleUsers, authz.OpRead, authz.Options{RequireSameTenant: true}, "", "")
	if err := decision.Err(); err != nil {
		return User{}, err
	}
	return s.repo.Get(ctx, scope, id)
}

func (s *Service) Create(ctx context.Context, scope authz.AccessScope, actorID string, input CreateInput) (User, error) {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleUsers, authz.OpCreate, authz.Options{RequireSameTenant: true}, input.TenantID, "")
	if err := decision.Err(); err != nil {
		return User{}, err
	}
	if err := validateCreate(input); err != nil {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	tenantID := input.TenantID
	if tenantID == "" {
		tenantID = scope.TenantID
	}
	user := User{
		ID:       uuid.NewString(),
		TenantID: tenantID,
		StoreID:  input.StoreID,
		Username: strings.TrimSpace(input.Username),
		FullName: strings.TrimSpace(input.FullName),
		Level:    input.Level,
	}
	return s.repo.Create(ctx, user, string(hash))
}

func (s *Service) Update(ctx context.Context, scope authz.AccessScope, actorID, id string, u User) error {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleUsers, authz.OpUpdate, authz.Options{RequireSameTenant: true}, u.TenantID, "")
	if err := decision.Err(); err != nil {
		return err
	}
	if err := validateLevel(u.Level); err != nil {
		return err
	}
	return s.repo.Update(ctx, scope, id, u)
}

// Deactivate revokes an account.
func (s *Service) Deactivate(ctx context.Context, scope authz.AccessScope, actorID, id string) error {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleUsers, authz.OpDelete, authz.Options{RequireSameTenant: true}, "", "")
	if err := decision.Err(); err != nil {
		return err
	}
	return s.repo.SetActive(ctx, scope, id, false)
}

// Activate restores a previously revoked account.
func (s *Service) Activate(ctx context.Context, scope authz.AccessScope, actorID, id string) error {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleUsers, authz.OpUpdate, authz.Options{RequireSameTenant: true}, "", "")
	if err := decision.Err(); err != nil {
		return err
	}
	return s.repo.SetActive(ctx, scope, id, true)
}

func validateCreate(input CreateInput) error {
	if strings.TrimSpace(input.Username) == "" {
		return fmt.Errorf("%w: username required", httpx.ErrValidation)
	}
	if len(input.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", httpx.ErrValidation)
	}
	return validateLevel(input.Level)
}

// validateLevel rejects the root tier outright: root is not an account, it
// exists only as the configured out-of-band bypass.
func validateLevel(level authz.Level) error {
	switch level {
	case authz.LevelTenantAdmin, authz.LevelStoreAdmin, authz.LevelCashier, authz.LevelReviewer, authz.LevelLegacySuperAdmin:
		return nil
	}
	return fmt.Errorf("%w: level %d cannot be assigned", httpx.ErrValidation, level)
}
