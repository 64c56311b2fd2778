package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vendapos/venda/internal/authz"
)

type stubRepo struct {
	accounts map[string]*Account // keyed by id
	lookups  int
}

func newStubRepo(accounts ...*Account) *stubRepo {
	r := &stubRepo{accounts: make(map[string]*Account)}
	for _, a := range accounts {
		r.accounts[a.ID] = a
	}
	return r
}

func (r *stubRepo) FindByUsername(_ context.Context, tenantID, username string) (*Account, error) {
	r.lookups++
	for _, a := range r.accounts {
		if a.TenantID == tenantID && a.Username == username {
			copied := *a
			return &copied, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (r *stubRepo) GetActiveAccount(_ context.Context, id, tenantID string) (*Account, error) {
	r.lookups++
	a, ok := r.accounts[id]
	if !ok || a.TenantID != tenantID || !a.Active {
		return nil, ErrAccountNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *stubRepo) UpdatePassword(_ context.Context, id, tenantID, passwordHash string) error {
	a, ok := r.accounts[id]
	if !ok || a.TenantID != tenantID {
		return ErrAccountNotFound
	}
	a.PasswordHash = passwordHash
	return nil
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func testIssuer() *TokenIssuer {
	return NewTokenIssuer("test-secret", 15*time.Minute, 24*time.Hour)
}

func cashierAccount(t *testing.T) *Account {
	return &Account{
		ID:           "acc-1",
		TenantID:     "T1",
		StoreID:      "S1",
		Username:     "budi",
		FullName:     "Budi Santoso",
		PasswordHash: hashPassword(t, "rahasia"),
		Level:        authz.LevelCashier,
		Active:       true,
	}
}

func TestLoginIssuesTokenPair(t *testing.T) {
	repo := newStubRepo(cashierAccount(t))
	svc := NewService(repo, testIssuer(), RootCredentials{}, nil)

	principal, pair, err := svc.Login(context.Background(), "T1", "budi", "rahasia")
	require.NoError(t, err)
	require.Equal(t, "acc-1", principal.ID)
	require.Equal(t, "T1", principal.TenantID)
	require.False(t, principal.Unrestricted)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.True(t, pair.ExpiresAt.After(time.Now()))
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo := newStubRepo(cashierAccount(t))
	svc := NewService(repo, testIssuer(), RootCredentials{}, nil)

	_, _, err := svc.Login(context.Background(), "T1", "budi", "salah")
	require.ErrorIs(t, err, authz.ErrUnauthenticated)
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	account := cashierAccount(t)
	account.Active = false
	svc := NewService(newStubRepo(account), testIssuer(), RootCredentials{}, nil)

	_, _, err := svc.Login(context.Background(), "T1", "budi", "rahasia")
	require.ErrorIs(t, err, authz.ErrUnauthenticated)
}

func TestRootLoginBypassesRepository(t *testing.T) {
	repo := newStubRepo()
	root := RootCredentials{Username: "root", PasswordHash: hashPassword(t, "super-rahasia")}
	svc := NewService(repo, testIssuer(), root, nil)

	principal, pair, err := svc.Login(context.Background(), "", "root", "super-rahasia")
	require.NoError(t, err)
	require.True(t, principal.Unrestricted)
	require.Equal(t, authz.ReservedRootTenantID, principal.TenantID)
	require.Equal(t, authz.ReservedRootStoreID, principal.StoreID)
	require.NotEmpty(t, pair.AccessToken)
	require.Zero(t, repo.lookups)
}

func TestRootLoginRejectsWrongPassword(t *testing.T) {
	root := RootCredentials{Username: "root", PasswordHash: hashPassword(t, "super-rahasia")}
	svc := NewService(newStubRepo(), testIssuer(), root, nil)

	_, _, err := svc.Login(context.Background(), "", "root", "tebak")
	require.ErrorIs(t, err, authz.ErrUnauthenticated)
}

func TestRootLoginDisabledWithoutConfig(t *testing.T) {
	svc := NewService(newStubRepo(), testIssuer(), RootCredentials{Username: "root"}, nil)

	_, _, err := svc.Login(context.Background(), "", "root", "anything")
	require.ErrorIs(t, err, authz.ErrUnauthenticated)
}

func TestAuthenticateRefusesDeactivatedAccount(t *testing.T) {
	account := cashierAccount(t)
	repo := newStubRepo(account)
	svc := NewService(repo, testIssuer(), RootCredentials{}, nil)

	_, pair, err := svc.Login(context.Background(), "T1", "budi", "rahasia")
	require.NoError(t, err)

	// The token is still cryptographically valid, but the account has
	// been turned off since it was issued.
	account.Active = false
	_, err = svc.Authenticate(context.Background(), pair.AccessToken)
	require.ErrorIs(t, err, authz.ErrUnauthenticated)
}

func TestAuthenticateRefreshesMutableAttributes(t *testing.T) {
	account := cashierAccount(t)
	repo := newStubRepo(account)
	svc := NewService(repo, testIssuer(), RootCredentials{}, nil)

	_, pair, err := svc.Login(context.Background(), "T1", "budi", "rahasia")
	require.NoError(t, err)

	account.StoreID = "S2"
	account.Level = authz.LevelStoreAdmin

	principal, err := svc.Authenticate(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "S2", principal.StoreID)
	require.Equal(t, authz.LevelStoreAdmin, principal.Level)
}

func TestAuthenticateSkipsLivenessForRoot(t *testing.T) {
	repo := newStubRepo()
	root := RootCredentials{Username: "root", PasswordHash: hashPassword(t, "super-rahasia")}
	svc := NewService(repo, testIssuer(), root, nil)

	_, pair, err := svc.Login(context.Background(), "", "root", "super-rahasia")
	require.NoError(t, err)
	repo.lookups = 0

	principal, err := svc.Authenticate(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	require.True(t, principal.Unrestricted)
	require.Zero(t, repo.lookups)
}

func TestRefreshIssuesNewPair(t *testing.T) {
	repo := newStubRepo(cashierAccount(t))
	svc := NewService(repo, testIssuer(), RootCredentials{}, nil)

	_, pair, err := svc.Login(context.Background(), "T1", "budi", "rahasia")
	require.NoError(t, err)

	next, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, next.AccessToken)
}

func TestChangePasswordVerifiesCurrent(t *testing.T) {
	account := cashierAccount(t)
	repo := newStubRepo(account)
	svc := NewService(repo, testIssuer(), RootCredentials{}, nil)

	principal := account.Principal()
	require.ErrorIs(t, svc.ChangePassword(context.Background(), principal, "salah", "baru"), authz.ErrUnauthenticated)
	require.NoError(t, svc.ChangePassword(context.Background(), principal, "rahasia", "baru"))

	_, _, err := svc.Login(context.Background(), "T1", "budi", "baru")
	require.NoError(t, err)
}
