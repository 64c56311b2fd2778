package authz

import "context"

// AccessScope is the request-lifetime view of a Principal used for
// authorization decisions and query rewriting. It is computed exactly once
// at request entry, immutable afterwards, and safe to share across
// concurrent sub-tasks of the same request.
type AccessScope struct {
	TenantID     string
	StoreID      string // empty when the actor has no store affiliation
	Level        Level
	Unrestricted bool
	// EnforceTenant requires tenant filtering regardless of what the caller
	// claims in the request body or query string. False only for root.
	EnforceTenant bool
}

// ResolveScope derives the AccessScope for a verified principal. Pure and
// deterministic; callers attach the result to the request context once and
// pass it explicitly from there on.
func ResolveScope(p Principal) AccessScope {
	if p.Unrestricted {
		return AccessScope{
			TenantID:      ReservedRootTenantID,
			StoreID:       ReservedRootStoreID,
			Level:         LevelRoot,
			Unrestricted:  true,
			EnforceTenant: false,
		}
	}
	return AccessScope{
		TenantID:      p.TenantID,
		StoreID:       p.StoreID,
		Level:         p.Level,
		Unrestricted:  false,
		EnforceTenant: true,
	}
}

type scopeContextKey struct{}

// ContextWithScope stores the access scope in the request context. The
// authentication middleware calls this exactly once per request.
func ContextWithScope(ctx context.Context, scope AccessScope) context.Context {
	return context.WithValue(ctx, scopeContextKey{}, scope)
}

// ScopeFromContext extracts the access scope attached at request entry.
// The second return is false when no scope was attached (unauthenticated
// paths); protected handlers must reject such requests.
func ScopeFromContext(ctx context.Context) (AccessScope, bool) {
	scope, ok := ctx.Value(scopeContextKey{}).(AccessScope)
	return scope, ok
}
