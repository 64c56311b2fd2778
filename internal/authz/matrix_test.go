package authz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdminTiersAllowedEverything(t *testing.T) {
	for _, level := range []Level{LevelRoot, LevelTenantAdmin, LevelStoreAdmin, LevelLegacySuperAdmin} {
		for _, module := range Modules() {
			for _, op := range Operations() {
				require.True(t, IsAllowed(level, module, op),
					"level %s should be allowed %s on %s", level, op, module)
			}
		}
	}
}

func TestCashierCapabilities(t *testing.T) {
	for _, op := range Operations() {
		require.True(t, IsAllowed(LevelCashier, ModuleTransactions, op), "cashier CRUD on transactions")
	}

	require.True(t, IsAllowed(LevelCashier, ModuleProducts, OpRead))
	require.True(t, IsAllowed(LevelCashier, ModuleCustomers, OpRead))

	for _, op := range []Operation{OpCreate, OpUpdate, OpDelete} {
		require.False(t, IsAllowed(LevelCashier, ModuleProducts, op))
		require.False(t, IsAllowed(LevelCashier, ModuleCustomers, op))
	}

	for _, module := range []Module{ModuleUsers, ModuleReports, ModuleInventory, ModuleSuppliers, ModuleSettings} {
		for _, op := range Operations() {
			require.False(t, IsAllowed(LevelCashier, module, op),
				"cashier should be denied %s on %s", op, module)
		}
	}
}

func TestReviewerReadOnly(t *testing.T) {
	for _, module := range Modules() {
		require.True(t, IsAllowed(LevelReviewer, module, OpRead))
		for _, op := range []Operation{OpCreate, OpUpdate, OpDelete} {
			require.False(t, IsAllowed(LevelReviewer, module, op))
		}
	}
}

// A module the matrix has never heard of must be denied for every level
// except root: adding a module must not grant anything implicitly, while
// root remains unconditional.
func TestDenyByDefaultForUnknownModule(t *testing.T) {
	const newModule Module = "loyalty"
	for _, level := range []Level{LevelTenantAdmin, LevelStoreAdmin, LevelCashier, LevelReviewer, LevelLegacySuperAdmin, Level(42)} {
		for _, op := range Operations() {
			require.False(t, IsAllowed(level, newModule, op),
				"unknown module must deny level %d op %s", level, op)
		}
	}

	for _, op := range Operations() {
		require.True(t, IsAllowed(LevelRoot, newModule, op),
			"root must be exempt from deny-by-default for op %s", op)
	}
}

func TestUnknownLevelDenied(t *testing.T) {
	require.False(t, IsAllowed(Level(0), ModuleProducts, OpRead))
	require.False(t, IsAllowed(Level(99), ModuleProducts, OpRead))
}

func TestLegacySuperAdminAlias(t *testing.T) {
	require.Equal(t, LevelTenantAdmin, LevelLegacySuperAdmin.Canonical())
	require.Equal(t, LevelCashier, LevelCashier.Canonical())
	require.False(t, LevelLegacySuperAdmin.StoreScoped())
	require.True(t, LevelStoreAdmin.StoreScoped())
	require.True(t, LevelCashier.StoreScoped())
	require.False(t, LevelTenantAdmin.StoreScoped())
	require.False(t, LevelReviewer.StoreScoped())
}
