// Package authz implements the authorization and data-scoping engine shared
// by every feature module: a fixed level hierarchy with a per-module
// capability matrix, request-scoped access scopes derived from the
// authenticated principal, and a query rewriter that guarantees tenant and
// store isolation on every read and write.
package authz

// Level is an integer capability rank. Lower numbers carry broader
// capability: 1 is the unrestricted root tier, larger numbers are
// progressively narrower.
type Level int

const (
	// LevelRoot is the unrestricted tier. Only the distinguished root
	// principal holds it; real accounts are never assigned level 1.
	LevelRoot Level = 1
	// LevelTenantAdmin may act on every store within its own tenant.
	LevelTenantAdmin Level = 2
	// LevelStoreAdmin may act on a single store within its tenant.
	LevelStoreAdmin Level = 3
	// LevelCashier is limited to point-of-sale work in its store.
	LevelCashier Level = 4
	// LevelReviewer is read-only across every module.
	LevelReviewer Level = 5
	// LevelLegacySuperAdmin is a historical alias carried over from old
	// account data. It grants exactly the tenant-admin capability.
	LevelLegacySuperAdmin Level = 8
)

// levelAliases maps legacy level numbers onto their canonical tier. The
// many-to-one mapping is declared once here rather than compared ad hoc at
// call sites.
var levelAliases = map[Level]Level{
	LevelLegacySuperAdmin: LevelTenantAdmin,
}

// Canonical resolves legacy aliases to the level that defines their
// capability. Levels without an alias entry map to themselves.
func (l Level) Canonical() Level {
	if c, ok := levelAliases[l]; ok {
		return c
	}
	return l
}

// StoreScoped reports whether the level is confined to a single store.
// Tenant admins (and their legacy alias) may cross stores within their
// tenant; store admins and cashiers may not.
func (l Level) StoreScoped() bool {
	switch l.Canonical() {
	case LevelStoreAdmin, LevelCashier:
		return true
	}
	return false
}

func (l Level) String() string {
	switch l {
	case LevelRoot:
		return "root"
	case LevelTenantAdmin:
		return "tenant-admin"
	case LevelStoreAdmin:
		return "store-admin"
	case LevelCashier:
		return "cashier"
	case LevelReviewer:
		return "reviewer"
	case LevelLegacySuperAdmin:
		return "super-admin"
	}
	return "unknown"
}
