package httpx

import (
	"net/http"

	"github.com/vendapos/venda/internal/authz"
)

// Identity extracts the scope and principal the auth middleware attached.
// When either is missing the request never passed authentication; callers
// must reject it.
func Identity(r *http.Request) (authz.AccessScope, authz.Principal, bool) {
	scope, ok := authz.ScopeFromContext(r.Context())
	if !ok {
		return authz.AccessScope{}, authz.Principal{}, false
	}
	principal, ok := authz.PrincipalFromContext(r.Context())
	if !ok {
		return authz.AccessScope{}, authz.Principal{}, false
	}
	return scope, principal, true
}
