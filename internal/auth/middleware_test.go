package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vendapos/venda/internal/authz"
)

func TestMiddlewareAttachesScopeOnce(t *testing.T) {
	repo := newStubRepo(cashierAccount(t))
	svc := NewService(repo, testIssuer(), RootCredentials{}, nil)

	_, pair, err := svc.Login(context.Background(), "T1", "budi", "rahasia")
	require.NoError(t, err)

	var gotScope authz.AccessScope
	var gotPrincipal authz.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scope, ok := authz.ScopeFromContext(r.Context())
		require.True(t, ok)
		principal, ok := authz.PrincipalFromContext(r.Context())
		require.True(t, ok)
		gotScope = scope
		gotPrincipal = principal
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	Middleware(svc)(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "acc-1", gotPrincipal.ID)
	require.Equal(t, "T1", gotScope.TenantID)
	require.Equal(t, "S1", gotScope.StoreID)
	require.True(t, gotScope.EnforceTenant)
	require.False(t, gotScope.Unrestricted)
}

func TestMiddlewareRejectsMissingHeader(t *testing.T) {
	svc := NewService(newStubRepo(), testIssuer(), RootCredentials{}, nil)

	called := false
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()
	Middleware(svc)(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, called)
}

func TestMiddlewareRejectsMalformedHeader(t *testing.T) {
	svc := NewService(newStubRepo(), testIssuer(), RootCredentials{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Authorization", "Basic abc123")
	rec := httptest.NewRecorder()
	Middleware(svc)(http.NewServeMux()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
