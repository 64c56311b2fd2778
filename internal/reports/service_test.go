package reports

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/vendapos/venda/internal/authz"
)

type memoryRepo struct {
	summary SalesSummary
	top     []ProductSales
	loads   atomic.Int64
}

func (r *memoryRepo) SalesSummary(context.Context, authz.AccessScope, time.Time, time.Time) (SalesSummary, error) {
	r.loads.Add(1)
	return r.summary, nil
}

func (r *memoryRepo) TopProducts(context.Context, authz.AccessScope, time.Time, time.Time, int) ([]ProductSales, error) {
	return r.top, nil
}

func (r *memoryRepo) NewCustomers(context.Context, authz.AccessScope, time.Time, time.Time) (int64, error) {
	return 3, nil
}

func reviewerScope() authz.AccessScope {
	return authz.ResolveScope(authz.Principal{ID: "u-rev", TenantID: "T1", Level: authz.LevelReviewer})
}

func cashierScope() authz.AccessScope {
	return authz.ResolveScope(authz.Principal{ID: "u-cashier", TenantID: "T1", StoreID: "S1", Level: authz.LevelCashier})
}

func week() (time.Time, time.Time) {
	to := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	return to.AddDate(0, 0, -7), to
}

func TestDashboardAssemblesSections(t *testing.T) {
	repo := &memoryRepo{
		summary: SalesSummary{TotalSalesCents: 150_000, TransactionCount: 3, VoidedCount: 1, AverageTicketCents: 50_000},
		top:     []ProductSales{{ProductID: "p-1", Name: "Kopi Susu", QtySold: 12, RevenueCents: 90_000}},
	}
	svc := NewService(repo, NewCache(nil, 0), authz.NewAuthorizer(nil, nil))

	from, to := week()
	dash, err := svc.Dashboard(context.Background(), reviewerScope(), "u-rev", from, to)
	require.NoError(t, err)
	require.Equal(t, int64(150_000), dash.Sales.TotalSalesCents)
	require.Len(t, dash.TopProducts, 1)
	require.Equal(t, int64(3), dash.NewCustomers)
}

func TestDashboardDeniedForCashier(t *testing.T) {
	svc := NewService(&memoryRepo{}, NewCache(nil, 0), authz.NewAuthorizer(nil, nil))

	from, to := week()
	_, err := svc.Dashboard(context.Background(), cashierScope(), "u-cashier", from, to)
	require.ErrorIs(t, err, authz.ErrInsufficientLevel)
}

func TestDashboardCachesUntilBump(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := &memoryRepo{summary: SalesSummary{TotalSalesCents: 42}}
	svc := NewService(repo, NewCache(client, time.Minute), authz.NewAuthorizer(nil, nil))

	from, to := week()
	_, err := svc.Dashboard(context.Background(), reviewerScope(), "u-rev", from, to)
	require.NoError(t, err)
	_, err = svc.Dashboard(context.Background(), reviewerScope(), "u-rev", from, to)
	require.NoError(t, err)
	require.Equal(t, int64(1), repo.loads.Load())

	require.NoError(t, svc.Invalidate(context.Background()))
	_, err = svc.Dashboard(context.Background(), reviewerScope(), "u-rev", from, to)
	require.NoError(t, err)
	require.Equal(t, int64(2), repo.loads.Load())
}

func TestScopeTokenSeparatesStores(t *testing.T) {
	root := authz.ResolveScope(authz.RootPrincipal("root"))
	require.Equal(t, "all", scopeToken(root))

	admin := authz.ResolveScope(authz.Principal{ID: "a", TenantID: "T1", StoreID: "S1", Level: authz.LevelTenantAdmin})
	require.Equal(t, "T1", scopeToken(admin))

	cashier := cashierScope()
	require.Equal(t, "T1:S1", scopeToken(cashier))
}
