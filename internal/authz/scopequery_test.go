package authz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScopeQueryIntroducesWhere(t *testing.T) {
	scope := AccessScope{TenantID: "T1", Level: LevelTenantAdmin, EnforceTenant: true}

	scoped, err := ScopeQuery("SELECT * FROM toko", nil, scope, ColumnMap{TenantColumn: "tenant_id"})
	require.NoError(t, err)
	require.Equal(t, "SELECT * FROM toko WHERE tenant_id = $1", scoped.Query)
	require.Equal(t, []any{"T1"}, scoped.Params)
	require.True(t, scoped.TenantFiltered)
	require.False(t, scoped.StoreFiltered)
}

func TestScopeQueryAppendsToExistingWhere(t *testing.T) {
	scope := AccessScope{TenantID: "T1", Level: LevelTenantAdmin, EnforceTenant: true}

	scoped, err := ScopeQuery("SELECT * FROM toko WHERE status = $1", []any{"active"}, scope, ColumnMap{TenantColumn: "tenant_id"})
	require.NoError(t, err)
	require.Equal(t, "SELECT * FROM toko WHERE status = $1 AND tenant_id = $2", scoped.Query)
	require.Equal(t, []any{"active", "T1"}, scoped.Params)
}

func TestScopeQueryStorePredicate(t *testing.T) {
	scope := AccessScope{TenantID: "T1", StoreID: "S1", Level: LevelCashier, EnforceTenant: true}

	scoped, err := ScopeQuery("SELECT id, total FROM transactions WHERE status = $1", []any{"paid"}, scope,
		ColumnMap{TenantColumn: "t.tenant_id", StoreColumn: "t.store_id"})
	require.NoError(t, err)
	require.Equal(t, "SELECT id, total FROM transactions WHERE status = $1 AND t.tenant_id = $2 AND t.store_id = $3", scoped.Query)
	require.Equal(t, []any{"paid", "T1", "S1"}, scoped.Params)
	require.True(t, scoped.StoreFiltered)
}

func TestScopeQueryNoStoreColumnSkipsStoreFilter(t *testing.T) {
	scope := AccessScope{TenantID: "T1", StoreID: "S1", Level: LevelCashier, EnforceTenant: true}

	scoped, err := ScopeQuery("SELECT id FROM products", nil, scope, ColumnMap{TenantColumn: "tenant_id"})
	require.NoError(t, err)
	require.Equal(t, "SELECT id FROM products WHERE tenant_id = $1", scoped.Query)
	require.False(t, scoped.StoreFiltered)
}

func TestScopeQueryNoStoreIDSkipsStoreFilter(t *testing.T) {
	scope := AccessScope{TenantID: "T1", Level: LevelTenantAdmin, EnforceTenant: true}

	scoped, err := ScopeQuery("SELECT id FROM products", nil, scope,
		ColumnMap{TenantColumn: "tenant_id", StoreColumn: "store_id"})
	require.NoError(t, err)
	require.Equal(t, "SELECT id FROM products WHERE tenant_id = $1", scoped.Query)
	require.Equal(t, []any{"T1"}, scoped.Params)
}

// Root sees everything: the output must be byte-identical to the input.
func TestScopeQueryUnrestrictedPassthrough(t *testing.T) {
	scope := ResolveScope(RootPrincipal("root"))

	base := "SELECT * FROM transactions WHERE total > $1"
	params := []any{100}
	scoped, err := ScopeQuery(base, params, scope, ColumnMap{TenantColumn: "tenant_id", StoreColumn: "store_id"})
	require.NoError(t, err)
	require.Equal(t, base, scoped.Query)
	require.Equal(t, params, scoped.Params)
	require.False(t, scoped.TenantFiltered)
	require.False(t, scoped.StoreFiltered)
}

// A restricted scope without a tenant id must fail loudly; silently
// omitting the tenant filter is never an acceptable outcome.
func TestScopeQueryMissingTenantFailsFast(t *testing.T) {
	scope := AccessScope{Level: LevelCashier, EnforceTenant: true}

	_, err := ScopeQuery("SELECT * FROM toko", nil, scope, ColumnMap{TenantColumn: "tenant_id"})
	require.ErrorIs(t, err, ErrInvariantViolation)
}

func TestScopeQueryMissingTenantColumnFailsFast(t *testing.T) {
	scope := AccessScope{TenantID: "T1", Level: LevelCashier, EnforceTenant: true}

	_, err := ScopeQuery("SELECT * FROM toko", nil, scope, ColumnMap{})
	require.ErrorIs(t, err, ErrInvariantViolation)
}

func TestScopeQueryDoesNotMutateBaseParams(t *testing.T) {
	scope := AccessScope{TenantID: "T1", Level: LevelTenantAdmin, EnforceTenant: true}

	base := make([]any, 1, 4)
	base[0] = "active"
	scoped, err := ScopeQuery("SELECT * FROM toko WHERE status = $1", base, scope, ColumnMap{TenantColumn: "tenant_id"})
	require.NoError(t, err)
	require.Equal(t, []any{"active"}, base)
	require.Len(t, scoped.Params, 2)
}

func TestScopeQueryCaseInsensitiveWhereDetection(t *testing.T) {
	scope := AccessScope{TenantID: "T1", Level: LevelTenantAdmin, EnforceTenant: true}

	scoped, err := ScopeQuery("select * from toko where status = $1", []any{"active"}, scope, ColumnMap{TenantColumn: "tenant_id"})
	require.NoError(t, err)
	require.Equal(t, "select * from toko where status = $1 AND tenant_id = $2", scoped.Query)
}

// A WHERE that exists only inside a subquery belongs to the inner
// statement; the outer statement still needs its own WHERE for the scope
// predicate.
func TestScopeQuerySubqueryWhereGetsOuterWhere(t *testing.T) {
	scope := AccessScope{TenantID: "T1", Level: LevelTenantAdmin, EnforceTenant: true}

	scoped, err := ScopeQuery(
		"SELECT s.n FROM (SELECT COUNT(*) AS n FROM transactions WHERE status = $1) s",
		[]any{"paid"}, scope, ColumnMap{TenantColumn: "s.tenant_id"})
	require.NoError(t, err)
	require.Equal(t,
		"SELECT s.n FROM (SELECT COUNT(*) AS n FROM transactions WHERE status = $1) s WHERE s.tenant_id = $2",
		scoped.Query)
	require.Equal(t, []any{"paid", "T1"}, scoped.Params)
}

func TestScopeQueryFilterClauseWhereIsNotTopLevel(t *testing.T) {
	scope := AccessScope{TenantID: "T1", Level: LevelTenantAdmin, EnforceTenant: true}

	scoped, err := ScopeQuery(
		"SELECT COUNT(*) FILTER (WHERE status = 'paid') FROM transactions",
		nil, scope, ColumnMap{TenantColumn: "tenant_id"})
	require.NoError(t, err)
	require.Equal(t,
		"SELECT COUNT(*) FILTER (WHERE status = 'paid') FROM transactions WHERE tenant_id = $1",
		scoped.Query)
}

func TestScopeQueryTopLevelWhereAfterSubquery(t *testing.T) {
	scope := AccessScope{TenantID: "T1", Level: LevelTenantAdmin, EnforceTenant: true}

	scoped, err := ScopeQuery(
		"SELECT COUNT(*) FILTER (WHERE status = 'paid') AS paid FROM transactions t WHERE t.created_at >= $1",
		[]any{"2026-01-01"}, scope, ColumnMap{TenantColumn: "t.tenant_id"})
	require.NoError(t, err)
	require.Equal(t,
		"SELECT COUNT(*) FILTER (WHERE status = 'paid') AS paid FROM transactions t WHERE t.created_at >= $1 AND t.tenant_id = $2",
		scoped.Query)
}

func TestScopeQueryWhereInsideStringLiteralIgnored(t *testing.T) {
	scope := AccessScope{TenantID: "T1", Level: LevelTenantAdmin, EnforceTenant: true}

	scoped, err := ScopeQuery("SELECT id FROM notes, (VALUES ('where (')) v", nil, scope,
		ColumnMap{TenantColumn: "tenant_id"})
	require.NoError(t, err)
	require.Equal(t, "SELECT id FROM notes, (VALUES ('where (')) v WHERE tenant_id = $1", scoped.Query)
}

func TestScopeQueryColumnNamedWhereabouts(t *testing.T) {
	scope := AccessScope{TenantID: "T1", Level: LevelTenantAdmin, EnforceTenant: true}

	scoped, err := ScopeQuery("SELECT whereabouts FROM couriers", nil, scope,
		ColumnMap{TenantColumn: "tenant_id"})
	require.NoError(t, err)
	require.Equal(t, "SELECT whereabouts FROM couriers WHERE tenant_id = $1", scoped.Query)
}
