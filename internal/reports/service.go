package reports

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vendapos/venda/internal/authz"
)

const topProductLimit = 5

type Service struct {
	repo       Repository
	cache      *Cache
	authorizer *authz.Authorizer
}

func NewService(repo Repository, cache *Cache, authorizer *authz.Authorizer) *Service {
	return &Service{repo: repo, cache: cache, authorizer: authorizer}
}

// Dashboard assembles the home-screen report. The three sections load
// concurrently against the same immutable scope, so a cashier's dashboard
// only ever aggregates its own store's rows and root aggregates everything.
func (s *Service) Dashboard(ctx context.Context, scope authz.AccessScope, actorID string, from, to time.Time) (Dashboard, error) {
	decision := s.authorizer.Authorize(ctx, scope, actorID, authz.ModuleReports, authz.OpRead, authz.Options{RequireSameTenant: true}, "", "")
	if err := decision.Err(); err != nil {
		return Dashboard{}, err
	}

	key, err := s.cache.BuildKey(ctx, "reports", "dashboard", scopeToken(scope),
		from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return Dashboard{}, err
	}

	var dash Dashboard
	err = s.cache.FetchJSON(ctx, key, &dash, func(ctx context.Context) (any, error) {
		return s.loadDashboard(ctx, scope, from, to)
	})
	return dash, err
}

func (s *Service) loadDashboard(ctx context.Context, scope authz.AccessScope, from, to time.Time) (Dashboard, error) {
	dash := Dashboard{From: from, To: to}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary, err := s.repo.SalesSummary(ctx, scope, from, to)
		if err != nil {
			return err
		}
		dash.Sales = summary
		return nil
	})
	g.Go(func() error {
		top, err := s.repo.TopProducts(ctx, scope, from, to, topProductLimit)
		if err != nil {
			return err
		}
		dash.TopProducts = top
		return nil
	})
	g.Go(func() error {
		count, err := s.repo.NewCustomers(ctx, scope, from, to)
		if err != nil {
			return err
		}
		dash.NewCustomers = count
		return nil
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return dash, nil
}

// Invalidate drops every cached report. Called after bulk writes.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

func scopeToken(scope authz.AccessScope) string {
	if scope.Unrestricted {
		return "all"
	}
	if scope.StoreID != "" && scope.Level.StoreScoped() {
		return scope.TenantID + ":" + scope.StoreID
	}
	return scope.TenantID
}
