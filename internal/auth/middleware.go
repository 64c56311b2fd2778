package auth

import (
	"net/http"
	"strings"

	"github.com/vendapos/venda/internal/authz"
	"github.com/vendapos/venda/internal/platform/httpx"
)

// Middleware authenticates bearer tokens and attaches the principal and its
// access scope to the request context. The scope is resolved exactly once
// here; downstream handlers read it from context and pass it on explicitly.
func Middleware(service *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				httpx.RespondError(w, authz.ErrUnauthenticated)
				return
			}

			principal, err := service.Authenticate(r.Context(), raw)
			if err != nil {
				httpx.RespondError(w, authz.ErrUnauthenticated)
				return
			}

			ctx := authz.ContextWithPrincipal(r.Context(), principal)
			ctx = authz.ContextWithScope(ctx, authz.ResolveScope(principal))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
