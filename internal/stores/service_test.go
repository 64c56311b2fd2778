package stores

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vendapos/venda/internal/authz"
	"github.com/vendapos/venda/internal/platform/httpx"
)

type memoryRepo struct {
	items map[string]Store
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: make(map[string]Store)}
}

func (r *memoryRepo) List(_ context.Context, scope authz.AccessScope) ([]Store, error) {
	var out []Store
	for _, st := range r.items {
		if scope.Unrestricted || st.TenantID == scope.TenantID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (r *memoryRepo) Get(_ context.Context, scope authz.AccessScope, id string) (Store, error) {
	st, ok := r.items[id]
	if !ok || (!scope.Unrestricted && st.TenantID != scope.TenantID) {
		return Store{}, httpx.ErrNotFound
	}
	return st, nil
}

func (r *memoryRepo) Create(_ context.Context, st Store) (Store, error) {
	r.items[st.ID] = st
	return st, nil
}

func (r *memoryRepo) Update(_ context.Context, scope authz.AccessScope, id string, st Store) error {
	existing, ok := r.items[id]
	if !ok || (!scope.Unrestricted && existing.TenantID != scope.TenantID) {
		return httpx.ErrNotFound
	}
	st.ID = id
	st.TenantID = existing.TenantID
	r.items[id] = st
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, scope authz.AccessScope, id string) error {
	existing, ok := r.items[id]
	if !ok || (!scope.Unrestricted && existing.TenantID != scope.TenantID) {
		return httpx.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func newService(repo Repository) *Service {
	return NewService(repo, authz.NewAuthorizer(nil, nil))
}

func adminScope() authz.AccessScope {
	return authz.ResolveScope(authz.Principal{ID: "u-admin", TenantID: "T1", Level: authz.LevelTenantAdmin})
}

func cashierScope() authz.AccessScope {
	return authz.ResolveScope(authz.Principal{ID: "u-cashier", TenantID: "T1", StoreID: "S1", Level: authz.LevelCashier})
}

func TestCreateMarksStoreActive(t *testing.T) {
	repo := newMemoryRepo()
	svc := newService(repo)

	created, err := svc.Create(context.Background(), adminScope(), "u-admin", Store{Name: "Cabang Pusat"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "T1", created.TenantID)
	require.True(t, created.Active)
}

func TestCashierCannotCreateStore(t *testing.T) {
	svc := newService(newMemoryRepo())

	_, err := svc.Create(context.Background(), cashierScope(), "u-cashier", Store{Name: "Cabang Liar"})
	require.ErrorIs(t, err, authz.ErrInsufficientLevel)
}

func TestCashierCannotDeleteStore(t *testing.T) {
	repo := newMemoryRepo()
	svc := newService(repo)

	created, err := svc.Create(context.Background(), adminScope(), "u-admin", Store{Name: "Cabang Dua"})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), cashierScope(), "u-cashier", created.ID)
	require.ErrorIs(t, err, authz.ErrInsufficientLevel)
	require.Contains(t, repo.items, created.ID)
}

func TestDeleteOtherTenantStoreNotFound(t *testing.T) {
	repo := newMemoryRepo()
	repo.items["st-2"] = Store{ID: "st-2", TenantID: "T2", Name: "Cabang Lain", Active: true}
	svc := newService(repo)

	err := svc.Delete(context.Background(), adminScope(), "u-admin", "st-2")
	require.ErrorIs(t, err, httpx.ErrNotFound)
	require.Contains(t, repo.items, "st-2")
}
