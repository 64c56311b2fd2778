package authz

import "context"

// Reserved identifiers carried by the unrestricted root principal. They are
// not UUIDs on purpose: every real tenant and store id in the system is a
// generated UUID, so these values can never collide with a real row.
const (
	ReservedRootTenantID = "venda:root:tenant"
	ReservedRootStoreID  = "venda:root:store"
)

// Principal is the authenticated actor for one request. It is reconstructed
// from a verified token assertion (or the root bypass), lives only for the
// request's duration and is never persisted.
type Principal struct {
	ID       string
	TenantID string
	StoreID  string // empty for actors without a store affiliation
	Level    Level
	// Unrestricted is true only for the distinguished root actor. It is a
	// separate flag rather than a level comparison so that renumbering the
	// hierarchy can never silently grant root.
	Unrestricted bool
}

// RootPrincipal builds the Principal for the out-of-band root bypass.
func RootPrincipal(id string) Principal {
	return Principal{
		ID:           id,
		TenantID:     ReservedRootTenantID,
		StoreID:      ReservedRootStoreID,
		Level:        LevelRoot,
		Unrestricted: true,
	}
}

type principalContextKey struct{}

// ContextWithPrincipal stores the verified principal in the request
// context, alongside the scope derived from it.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal attached at request entry.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(Principal)
	return p, ok
}
